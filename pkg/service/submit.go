package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/velologic/cycling-season-manager-go/log"
	"github.com/velologic/cycling-season-manager-go/pkg/model"
	"github.com/velologic/cycling-season-manager-go/pkg/processing/finish"
	participationRepos "github.com/velologic/cycling-season-manager-go/pkg/repository/participation"
	raceRepos "github.com/velologic/cycling-season-manager-go/pkg/repository/race"
	"github.com/velologic/cycling-season-manager-go/pkg/tasks"
)

// SubmitResult processes an uploaded ride recording for one participation.
//
// The finish timestamp is interpolated from the recording against the race's
// reference route. Interpolation failures never fail the submission: the
// pipeline prefers an imprecise finish time over a race that cannot close,
// so the end timestamp falls back to the current wall clock and the start
// timestamp to the race's scheduled start.
//
// When every approved participation of the race has an end timestamp
// afterwards, race closure is queued.
func (m *Manager) SubmitResult(
	ctx context.Context, raceID, riderID int, recordingPath string,
) error {
	race, err := raceRepos.LoadByID(ctx, m.pool, raceID)
	if err != nil {
		return err
	}
	if race.Status == model.RaceEnded || race.Status == model.RaceCancelled {
		return ErrRaceClosed
	}
	part, err := participationRepos.LoadByRaceAndRider(ctx, m.pool, raceID, riderID)
	if err != nil {
		return err
	}
	if part.Status != model.ParticipationApproved {
		return ErrParticipationNotApproved
	}
	if part.RideFile != "" {
		return ErrDuplicateSubmission
	}

	start, end := m.resolveRideWindow(race, recordingPath)

	err = pgx.BeginFunc(ctx, m.pool, func(tx pgx.Tx) error {
		_, err := participationRepos.UpdateRide(ctx, tx, part.ID, start, end,
			recordingPath)
		return err
	})
	if err != nil {
		return err
	}
	m.l.Info("result submitted",
		log.Int("race", raceID), log.Int("rider", riderID),
		log.Time("rideStart", start), log.Time("rideEnd", end))

	missing, err := participationRepos.CountApprovedWithoutRideEnd(ctx, m.pool, raceID)
	if err != nil {
		return err
	}
	if missing == 0 {
		m.dispatch(tasks.NewRaceJob(tasks.KindCloseRace, raceID))
	}
	return nil
}

// resolveRideWindow determines the ride start/end timestamps, degrading to
// deterministic fallbacks when the recording or the interpolation fails.
func (m *Manager) resolveRideWindow(
	race *model.Race, recordingPath string,
) (start, end time.Time) {
	start = race.Start
	end = m.now()

	recording, err := m.loadTrack(recordingPath)
	if err != nil {
		m.l.Warn("could not read recording, falling back to race window",
			log.Int("race", race.ID),
			log.String("file", recordingPath), log.ErrorField(err))
		return start, end
	}
	start = recording.First().Time

	route, err := m.loadTrack(race.RouteFile)
	if err != nil {
		m.l.Warn("could not read reference route, falling back to now()",
			log.Int("race", race.ID),
			log.String("file", race.RouteFile), log.ErrorField(err))
		return start, end
	}
	endPoint := []float64{route.Last().Lat, route.Last().Lon}

	interpolated, err := finish.Interpolate(recording, endPoint, race.NoLaps)
	if err != nil {
		m.l.Warn("could not interpolate finish timestamp, falling back to now()",
			log.Int("race", race.ID),
			log.String("file", recordingPath), log.ErrorField(err))
		return start, end
	}
	return start, interpolated
}
