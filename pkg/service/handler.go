package service

import (
	"context"
	"fmt"

	"github.com/velologic/cycling-season-manager-go/pkg/tasks"
)

// JobHandler routes queued jobs to the manager operations.
func (m *Manager) JobHandler() tasks.Handler {
	return tasks.HandlerFunc(func(ctx context.Context, job tasks.Job) error {
		switch job.Kind {
		case tasks.KindStartRace:
			return m.StartRace(ctx, job.RaceID)
		case tasks.KindCloseRace:
			_, err := m.CloseRace(ctx, job.RaceID)
			return err
		case tasks.KindRecalculateSeason:
			return m.RecalculateSeason(ctx, job.SeasonID)
		default:
			return fmt.Errorf("unknown job kind %q", job.Kind)
		}
	})
}
