package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/samber/lo"

	"github.com/velologic/cycling-season-manager-go/log"
	"github.com/velologic/cycling-season-manager-go/pkg/model"
	"github.com/velologic/cycling-season-manager-go/pkg/processing/ranking"
	"github.com/velologic/cycling-season-manager-go/pkg/processing/standings"
	bikeRepos "github.com/velologic/cycling-season-manager-go/pkg/repository/bike"
	classificationRepos "github.com/velologic/cycling-season-manager-go/pkg/repository/classification"
	participationRepos "github.com/velologic/cycling-season-manager-go/pkg/repository/participation"
	placementRepos "github.com/velologic/cycling-season-manager-go/pkg/repository/placement"
	raceRepos "github.com/velologic/cycling-season-manager-go/pkg/repository/race"
	riderRepos "github.com/velologic/cycling-season-manager-go/pkg/repository/rider"
	"github.com/velologic/cycling-season-manager-go/pkg/tasks"
)

// StartRace moves a pending race to in_progress. The worker triggers this
// at the race's scheduled start time.
func (m *Manager) StartRace(ctx context.Context, raceID int) error {
	race, err := raceRepos.LoadByID(ctx, m.pool, raceID)
	if err != nil {
		return err
	}
	if !race.Status.CanTransition(model.RaceInProgress) {
		return fmt.Errorf("%w: %s -> %s",
			ErrInvalidTransition, race.Status, model.RaceInProgress)
	}
	_, err = raceRepos.UpdateStatus(ctx, m.pool, raceID, model.RaceInProgress)
	if err != nil {
		return err
	}
	m.l.Info("race started", log.Int("race", raceID))
	return nil
}

// CancelRace cancels a race that has not ended yet.
func (m *Manager) CancelRace(ctx context.Context, raceID int) error {
	race, err := raceRepos.LoadByID(ctx, m.pool, raceID)
	if err != nil {
		return err
	}
	if !race.Status.CanTransition(model.RaceCancelled) {
		return fmt.Errorf("%w: %s -> %s",
			ErrInvalidTransition, race.Status, model.RaceCancelled)
	}
	_, err = raceRepos.UpdateStatus(ctx, m.pool, raceID, model.RaceCancelled)
	if err != nil {
		return err
	}
	m.l.Info("race cancelled", log.Int("race", raceID))
	return nil
}

// CloseRace ends the race and generates the provisional finish order.
// Approved participations without a recorded end are stamped with the
// closure time and rank last. The operation recomputes all generated places
// from scratch and may be re-run on an already ended race.
func (m *Manager) CloseRace(ctx context.Context, raceID int) (
	[]*model.RaceParticipation, error,
) {
	race, err := raceRepos.LoadByID(ctx, m.pool, raceID)
	if err != nil {
		return nil, err
	}
	if race.Status != model.RaceEnded &&
		!race.Status.CanTransition(model.RaceEnded) {
		return nil, fmt.Errorf("%w: %s -> %s",
			ErrInvalidTransition, race.Status, model.RaceEnded)
	}

	closedAt := m.now()
	var ranked []*model.RaceParticipation
	err = pgx.BeginFunc(ctx, m.pool, func(tx pgx.Tx) error {
		if _, err := raceRepos.UpdateStatus(ctx, tx, raceID, model.RaceEnded); err != nil {
			return err
		}
		participations, err := participationRepos.LoadByRace(ctx, tx, raceID)
		if err != nil {
			return err
		}
		ranked = ranking.GeneratePlaces(participations, closedAt)
		for _, p := range ranked {
			if _, err := participationRepos.StampRideEnd(ctx, tx, p.ID, *p.RideEnd); err != nil {
				return err
			}
			if _, err := participationRepos.UpdateGeneratedPlace(ctx, tx, p.ID,
				*p.PlaceGenerated); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.l.Info("race closed",
		log.Int("race", raceID), log.Int("participants", len(ranked)))
	return ranked, nil
}

// ConfirmPlaces stores the coordinator-confirmed overall places and fans
// them out into per-classification placements. The input must cover the
// approved participations exactly once each with places >= 1; the whole
// confirmation is rejected otherwise. Re-confirmation of an already placed
// race is rejected.
//
// On success a season score recalculation is queued.
func (m *Manager) ConfirmPlaces(
	ctx context.Context, raceID int, placeByParticipation map[int]int,
) ([]model.ClassificationPlacement, error) {
	race, err := raceRepos.LoadByID(ctx, m.pool, raceID)
	if err != nil {
		return nil, err
	}
	if race.Status != model.RaceEnded {
		return nil, ErrRaceNotEnded
	}
	existing, err := placementRepos.CountByRace(ctx, m.pool, raceID)
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrPlacementsExist
	}

	participations, err := participationRepos.LoadByRace(ctx, m.pool, raceID)
	if err != nil {
		return nil, err
	}
	approved := lo.Filter(participations,
		func(p *model.RaceParticipation, _ int) bool {
			return p.Status == model.ParticipationApproved
		})
	if err := validatePlaceSet(approved, placeByParticipation); err != nil {
		return nil, err
	}

	entrants, err := m.loadEntrants(ctx, approved)
	if err != nil {
		return nil, err
	}
	classifications, err := classificationRepos.LoadBySeason(ctx, m.pool, race.SeasonID)
	if err != nil {
		return nil, err
	}
	set, err := standings.NewClassificationSet(classifications)
	if err != nil {
		return nil, err
	}

	var placements []model.ClassificationPlacement
	err = pgx.BeginFunc(ctx, m.pool, func(tx pgx.Tx) error {
		for _, p := range approved {
			place := placeByParticipation[p.ID]
			p.PlaceAssigned = &place
			if _, err := participationRepos.UpdateAssignedPlace(ctx, tx, p.ID, place); err != nil {
				return err
			}
		}
		var err error
		if placements, err = standings.Assign(entrants, set); err != nil {
			return err
		}
		return placementRepos.CreateBatch(ctx, tx, placements)
	})
	if err != nil {
		return nil, err
	}
	m.l.Info("places confirmed",
		log.Int("race", raceID), log.Int("placements", len(placements)))

	m.dispatch(tasks.NewSeasonJob(race.SeasonID))
	return placements, nil
}

// validatePlaceSet checks that the confirmation covers the approved
// participations 1:1 with positive places and touches no placed entry.
func validatePlaceSet(
	approved []*model.RaceParticipation, places map[int]int,
) error {
	if len(places) != len(approved) {
		return fmt.Errorf("%w: got %d places for %d approved participations",
			ErrInvalidPlaceSet, len(places), len(approved))
	}
	for _, p := range approved {
		if p.PlaceAssigned != nil {
			return fmt.Errorf("%w: participation %d", ErrPlaceAlreadyAssigned, p.ID)
		}
		place, ok := places[p.ID]
		if !ok {
			return fmt.Errorf("%w: participation %d has no place",
				ErrInvalidPlaceSet, p.ID)
		}
		if place < 1 {
			return fmt.Errorf("%w: place %d for participation %d",
				ErrInvalidPlaceSet, place, p.ID)
		}
	}
	return nil
}

// loadEntrants resolves the rider and bike context of participations.
func (m *Manager) loadEntrants(
	ctx context.Context, participations []*model.RaceParticipation,
) ([]standings.Entrant, error) {
	riderIDs := lo.Uniq(lo.Map(participations,
		func(p *model.RaceParticipation, _ int) int { return p.RiderID }))
	bikeIDs := lo.Uniq(lo.Map(participations,
		func(p *model.RaceParticipation, _ int) int { return p.BikeID }))

	riders, err := riderRepos.LoadByIDs(ctx, m.pool, riderIDs)
	if err != nil {
		return nil, err
	}
	bikes, err := bikeRepos.LoadByIDs(ctx, m.pool, bikeIDs)
	if err != nil {
		return nil, err
	}
	riderByID := lo.SliceToMap(riders,
		func(r model.Rider) (int, model.Rider) { return r.ID, r })
	bikeByID := lo.SliceToMap(bikes,
		func(b model.Bike) (int, model.Bike) { return b.ID, b })

	ret := make([]standings.Entrant, 0, len(participations))
	for _, p := range participations {
		rider, ok := riderByID[p.RiderID]
		if !ok {
			return nil, fmt.Errorf("participation %d references unknown rider %d",
				p.ID, p.RiderID)
		}
		bike, ok := bikeByID[p.BikeID]
		if !ok {
			return nil, fmt.Errorf("participation %d references unknown bike %d",
				p.ID, p.BikeID)
		}
		ret = append(ret, standings.Entrant{Participation: p, Rider: rider, Bike: bike})
	}
	return ret, nil
}
