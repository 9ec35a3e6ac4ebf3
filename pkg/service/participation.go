package service

import (
	"context"
	"fmt"

	"github.com/velologic/cycling-season-manager-go/log"
	"github.com/velologic/cycling-season-manager-go/pkg/model"
	bikeRepos "github.com/velologic/cycling-season-manager-go/pkg/repository/bike"
	participationRepos "github.com/velologic/cycling-season-manager-go/pkg/repository/participation"
	raceRepos "github.com/velologic/cycling-season-manager-go/pkg/repository/race"
)

// JoinRace registers a rider's entry for a race. The entry starts pending
// and has to be approved before a result submission counts. The bike must
// belong to the rider and must not be retired.
func (m *Manager) JoinRace(
	ctx context.Context, raceID, riderID, bikeID int,
) (*model.RaceParticipation, error) {
	race, err := raceRepos.LoadByID(ctx, m.pool, raceID)
	if err != nil {
		return nil, err
	}
	if race.Status == model.RaceEnded || race.Status == model.RaceCancelled {
		return nil, ErrRaceClosed
	}
	bike, err := bikeRepos.LoadByID(ctx, m.pool, bikeID)
	if err != nil {
		return nil, err
	}
	if bike.RiderID != riderID || bike.Retired {
		return nil, fmt.Errorf("%w: bike %d", ErrBikeNotUsable, bikeID)
	}

	participation := &model.RaceParticipation{
		RaceID: raceID,
		RiderID: riderID,
		BikeID: bikeID,
		Status: model.ParticipationPending,
	}
	if err := participationRepos.Create(ctx, m.pool, participation); err != nil {
		return nil, err
	}
	m.l.Info("rider joined race",
		log.Int("race", raceID), log.Int("rider", riderID), log.Int("bike", bikeID))
	return participation, nil
}

// Withdraw removes a rider's entry from a race that has not ended yet.
func (m *Manager) Withdraw(ctx context.Context, raceID, riderID int) error {
	race, err := raceRepos.LoadByID(ctx, m.pool, raceID)
	if err != nil {
		return err
	}
	if race.Status == model.RaceEnded || race.Status == model.RaceCancelled {
		return ErrRaceClosed
	}
	participation, err := participationRepos.LoadByRaceAndRider(
		ctx, m.pool, raceID, riderID)
	if err != nil {
		return err
	}
	_, err = participationRepos.DeleteByID(ctx, m.pool, participation.ID)
	if err != nil {
		return err
	}
	m.l.Info("rider withdrew",
		log.Int("race", raceID), log.Int("rider", riderID))
	return nil
}

// SetParticipationStatus approves or rejects a pending entry.
func (m *Manager) SetParticipationStatus(
	ctx context.Context, participationID int, status model.ParticipationStatus,
) error {
	participation, err := participationRepos.LoadByID(ctx, m.pool, participationID)
	if err != nil {
		return err
	}
	race, err := raceRepos.LoadByID(ctx, m.pool, participation.RaceID)
	if err != nil {
		return err
	}
	if race.Status == model.RaceEnded || race.Status == model.RaceCancelled {
		return ErrRaceClosed
	}
	_, err = participationRepos.SetStatus(ctx, m.pool, participationID, status)
	if err != nil {
		return err
	}
	m.l.Info("participation status changed",
		log.Int("participation", participationID), log.String("status", string(status)))
	return nil
}
