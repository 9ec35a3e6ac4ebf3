//nolint:whitespace //can't make both the linter and editor happy :(
package score

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/velologic/cycling-season-manager-go/pkg/model"
	"github.com/velologic/cycling-season-manager-go/pkg/repository"
)

func Create(
	ctx context.Context,
	conn repository.Querier,
	s *model.RiderClassificationScore,
) error {
	_, err := conn.Exec(ctx, `
	insert into rider_classification_score (rider_id, classification_id, score)
	values ($1,$2,$3)`,
		s.RiderID, s.ClassificationID, s.Score)
	return err
}

func CreateBatch(
	ctx context.Context,
	conn repository.Querier,
	scores []model.RiderClassificationScore,
) error {
	for i := range scores {
		if err := Create(ctx, conn, &scores[i]); err != nil {
			return err
		}
	}
	return nil
}

// DeleteBySeason removes all score rows of the season's classifications.
// The recalculator rewrites them wholesale afterwards.
func DeleteBySeason(ctx context.Context, conn repository.Querier, seasonID int) (
	int, error,
) {
	cmdTag, err := conn.Exec(ctx, `
	delete from rider_classification_score
	where classification_id in (
		select id from classification where season_id=$1
	)`, seasonID)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

// LoadByClassification returns the leaderboard of one classification,
// best score first.
func LoadByClassification(
	ctx context.Context,
	conn repository.Querier,
	classificationID int,
) ([]model.RiderClassificationScore, error) {
	rows, err := conn.Query(ctx, `
	select rider_id, classification_id, score from rider_classification_score
	where classification_id=$1
	order by score desc, rider_id`, classificationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]model.RiderClassificationScore, 0)
	for rows.Next() {
		var item model.RiderClassificationScore
		if err := scan(&item, rows); err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, rows.Err()
}

func scan(e *model.RiderClassificationScore, row pgx.Row) error {
	return row.Scan(&e.RiderID, &e.ClassificationID, &e.Score)
}
