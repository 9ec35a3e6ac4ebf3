//nolint:whitespace //can't make both the linter and editor happy :(
package classification

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/velologic/cycling-season-manager-go/pkg/model"
	"github.com/velologic/cycling-season-manager-go/pkg/repository"
)

const selector = `select id, season_id, name, description from classification`

func Create(
	ctx context.Context,
	conn repository.Querier,
	classification *model.Classification,
) error {
	row := conn.QueryRow(ctx, `
	insert into classification (season_id, name, description)
	values ($1,$2,$3) returning id`,
		classification.SeasonID, classification.Name, classification.Description)
	return row.Scan(&classification.ID)
}

// CreateStandardSet creates the five standard classifications for a season.
func CreateStandardSet(
	ctx context.Context,
	conn repository.Querier,
	seasonID int,
) ([]model.Classification, error) {
	ret := make([]model.Classification, 0, 5)
	for _, name := range model.StandardClassificationNames() {
		c := model.Classification{SeasonID: seasonID, Name: name}
		if err := Create(ctx, conn, &c); err != nil {
			return nil, err
		}
		ret = append(ret, c)
	}
	return ret, nil
}

func LoadByID(ctx context.Context, conn repository.Querier, id int) (
	*model.Classification, error,
) {
	row := conn.QueryRow(ctx, fmt.Sprintf("%s where id=$1", selector), id)
	var item model.Classification
	if err := scan(&item, row); err != nil {
		return nil, err
	}
	return &item, nil
}

func LoadBySeason(ctx context.Context, conn repository.Querier, seasonID int) (
	[]model.Classification, error,
) {
	rows, err := conn.Query(ctx,
		fmt.Sprintf("%s where season_id=$1 order by id", selector), seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]model.Classification, 0)
	for rows.Next() {
		var item model.Classification
		if err := scan(&item, rows); err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, rows.Err()
}

func DeleteByID(ctx context.Context, conn repository.Querier, id int) (int, error) {
	cmdTag, err := conn.Exec(ctx, "delete from classification where id=$1", id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func scan(e *model.Classification, row pgx.Row) error {
	return row.Scan(&e.ID, &e.SeasonID, &e.Name, &e.Description)
}
