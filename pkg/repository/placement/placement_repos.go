//nolint:whitespace //can't make both the linter and editor happy :(
package placement

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/velologic/cycling-season-manager-go/pkg/model"
	"github.com/velologic/cycling-season-manager-go/pkg/repository"
)

func Create(
	ctx context.Context,
	conn repository.Querier,
	p *model.ClassificationPlacement,
) error {
	_, err := conn.Exec(ctx, `
	insert into classification_placement
	(race_participation_id, classification_id, place) values ($1,$2,$3)`,
		p.ParticipationID, p.ClassificationID, p.Place)
	return err
}

func CreateBatch(
	ctx context.Context,
	conn repository.Querier,
	placements []model.ClassificationPlacement,
) error {
	for i := range placements {
		if err := Create(ctx, conn, &placements[i]); err != nil {
			return err
		}
	}
	return nil
}

// CountByRace reports how many placement rows exist for a race. A non-zero
// count rejects a repeated place confirmation.
func CountByRace(ctx context.Context, conn repository.Querier, raceID int) (
	int, error,
) {
	row := conn.QueryRow(ctx, `
	select count(*) from classification_placement cp
	join race_participation rp on rp.id = cp.race_participation_id
	where rp.race_id=$1`, raceID)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func LoadByRace(ctx context.Context, conn repository.Querier, raceID int) (
	[]model.ClassificationPlacement, error,
) {
	return loadMany(ctx, conn, `
	select cp.race_participation_id, cp.classification_id, cp.place
	from classification_placement cp
	join race_participation rp on rp.id = cp.race_participation_id
	where rp.race_id=$1
	order by cp.classification_id, cp.place`, raceID)
}

// LoadBySeason returns all placement rows of approved participations in the
// season's ended races, the input of the score recalculation.
func LoadBySeason(ctx context.Context, conn repository.Querier, seasonID int) (
	[]model.ClassificationPlacement, error,
) {
	return loadMany(ctx, conn, `
	select cp.race_participation_id, cp.classification_id, cp.place
	from classification_placement cp
	join race_participation rp on rp.id = cp.race_participation_id
	join race r on r.id = rp.race_id
	where r.season_id=$1 and r.status=$2 and rp.status=$3
	order by cp.race_participation_id, cp.classification_id`,
		seasonID, string(model.RaceEnded), string(model.ParticipationApproved))
}

func loadMany(
	ctx context.Context,
	conn repository.Querier,
	query string,
	args ...interface{},
) ([]model.ClassificationPlacement, error) {
	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]model.ClassificationPlacement, 0)
	for rows.Next() {
		var item model.ClassificationPlacement
		if err := scan(&item, rows); err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, rows.Err()
}

func scan(e *model.ClassificationPlacement, row pgx.Row) error {
	return row.Scan(&e.ParticipationID, &e.ClassificationID, &e.Place)
}
