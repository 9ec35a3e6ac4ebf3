package service

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/samber/lo"

	"github.com/velologic/cycling-season-manager-go/log"
	"github.com/velologic/cycling-season-manager-go/pkg/model"
	"github.com/velologic/cycling-season-manager-go/pkg/processing/scoring"
	"github.com/velologic/cycling-season-manager-go/pkg/processing/standings"
	classificationRepos "github.com/velologic/cycling-season-manager-go/pkg/repository/classification"
	participationRepos "github.com/velologic/cycling-season-manager-go/pkg/repository/participation"
	placementRepos "github.com/velologic/cycling-season-manager-go/pkg/repository/placement"
	raceRepos "github.com/velologic/cycling-season-manager-go/pkg/repository/race"
	scoreRepos "github.com/velologic/cycling-season-manager-go/pkg/repository/score"
	seasonRepos "github.com/velologic/cycling-season-manager-go/pkg/repository/season"
)

// CreateSeason stores a season together with its standard classifications.
func (m *Manager) CreateSeason(
	ctx context.Context, season *model.Season,
) (*model.Season, error) {
	err := pgx.BeginFunc(ctx, m.pool, func(tx pgx.Tx) error {
		if err := seasonRepos.Create(ctx, tx, season); err != nil {
			return err
		}
		_, err := classificationRepos.CreateStandardSet(ctx, tx, season.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	m.l.Info("season created",
		log.Int("season", season.ID), log.String("name", season.Name))
	return season, nil
}

// RecalculateSeason rebuilds every rider's classification score of the
// season from the stored placements of its ended races. A seasonID of 0
// selects the season active at the current time. The previous scores are
// dropped and reinserted in one transaction, so readers never observe a
// partial standing.
func (m *Manager) RecalculateSeason(ctx context.Context, seasonID int) error {
	if seasonID == 0 {
		season, err := seasonRepos.LoadActive(ctx, m.pool, m.now())
		if err != nil {
			return err
		}
		seasonID = season.ID
	}

	classifications, err := classificationRepos.LoadBySeason(ctx, m.pool, seasonID)
	if err != nil {
		return err
	}
	set, err := standings.NewClassificationSet(classifications)
	if err != nil {
		return err
	}
	races, err := raceRepos.LoadEndedBySeason(ctx, m.pool, seasonID)
	if err != nil {
		return err
	}
	placements, err := placementRepos.LoadBySeason(ctx, m.pool, seasonID)
	if err != nil {
		return err
	}
	participations, err := participationRepos.LoadApprovedByEndedSeasonRaces(
		ctx, m.pool, seasonID)
	if err != nil {
		return err
	}
	entrants, err := m.loadEntrants(ctx, participations)
	if err != nil {
		return err
	}

	input := scoring.Input{
		Set: set,
		Races: lo.SliceToMap(races,
			func(r *model.Race) (int, *model.Race) { return r.ID, r }),
		Entrants: lo.SliceToMap(entrants,
			func(e standings.Entrant) (int, standings.Entrant) {
				return e.Participation.ID, e
			}),
		Placements: placements,
	}
	scores, err := scoring.Recalculate(input)
	if err != nil {
		return err
	}

	err = pgx.BeginFunc(ctx, m.pool, func(tx pgx.Tx) error {
		if _, err := scoreRepos.DeleteBySeason(ctx, tx, seasonID); err != nil {
			return err
		}
		return scoreRepos.CreateBatch(ctx, tx, scores)
	})
	if err != nil {
		return err
	}
	m.l.Info("season scores recalculated",
		log.Int("season", seasonID), log.Int("scores", len(scores)))
	return nil
}
