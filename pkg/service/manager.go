// Package service orchestrates the race-result pipeline: result submission,
// race closure, placement assignment and season score recalculation.
// Precondition violations are rejected synchronously before any state is
// mutated or any job is queued.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/velologic/cycling-season-manager-go/log"
	"github.com/velologic/cycling-season-manager-go/pkg/gpx"
	"github.com/velologic/cycling-season-manager-go/pkg/tasks"
)

var (
	ErrRaceClosed               = errors.New("race already ended or cancelled")
	ErrRaceNotEnded             = errors.New("race has not ended yet")
	ErrInvalidTransition        = errors.New("race status transition not allowed")
	ErrParticipationNotApproved = errors.New("participation is not approved")
	ErrDuplicateSubmission      = errors.New("result recording already submitted")
	ErrPlacementsExist          = errors.New("placements already assigned for race")
	ErrPlaceAlreadyAssigned     = errors.New("participation already has an assigned place")
	ErrInvalidPlaceSet          = errors.New("assigned places do not match approved participations")
	ErrBikeNotUsable            = errors.New("bike not owned by rider or retired")
)

type Manager struct {
	pool       *pgxpool.Pool
	dispatcher tasks.Dispatcher
	l          *log.Logger
	now        func() time.Time
	loadTrack  func(path string) (*gpx.Track, error)
}

type Option func(*Manager)

func WithDispatcher(d tasks.Dispatcher) Option {
	return func(m *Manager) {
		m.dispatcher = d
	}
}

func WithLogger(l *log.Logger) Option {
	return func(m *Manager) {
		m.l = l
	}
}

// WithClock replaces the wall clock, used by tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithTrackLoader replaces the GPX file loader, used by tests.
func WithTrackLoader(loader func(path string) (*gpx.Track, error)) Option {
	return func(m *Manager) {
		m.loadTrack = loader
	}
}

func NewManager(pool *pgxpool.Pool, opts ...Option) *Manager {
	ret := &Manager{
		pool:      pool,
		l:         log.Default().Named("service"),
		now:       time.Now,
		loadTrack: gpx.Load,
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func (m *Manager) dispatch(job tasks.Job) {
	if m.dispatcher == nil {
		m.l.Warn("no dispatcher configured, dropping job",
			log.String("kind", string(job.Kind)))
		return
	}
	// fire-and-forget: queueing failures are logged, the pipeline stages
	// are idempotent and can be re-triggered
	if err := m.dispatcher.Dispatch(context.Background(), job); err != nil {
		m.l.Error("could not dispatch job",
			log.String("kind", string(job.Kind)), log.ErrorField(err))
	}
}
