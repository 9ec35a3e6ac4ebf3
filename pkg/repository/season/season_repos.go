//nolint:whitespace //can't make both the linter and editor happy :(
package season

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/velologic/cycling-season-manager-go/pkg/model"
	"github.com/velologic/cycling-season-manager-go/pkg/repository"
)

const selector = `select id, name, start_timestamp, end_timestamp from season`

func Create(ctx context.Context, conn repository.Querier, season *model.Season) error {
	row := conn.QueryRow(ctx, `
	insert into season (name, start_timestamp, end_timestamp)
	values ($1,$2,$3) returning id`,
		season.Name, season.Start, season.End)
	return row.Scan(&season.ID)
}

func LoadByID(ctx context.Context, conn repository.Querier, id int) (
	*model.Season, error,
) {
	row := conn.QueryRow(ctx, fmt.Sprintf("%s where id=$1", selector), id)
	return scan(row)
}

// LoadActive returns the season whose date window contains ts.
func LoadActive(ctx context.Context, conn repository.Querier, ts time.Time) (
	*model.Season, error,
) {
	row := conn.QueryRow(ctx,
		fmt.Sprintf("%s where start_timestamp <= $1 and end_timestamp > $1", selector),
		ts)
	return scan(row)
}

func LoadAll(ctx context.Context, conn repository.Querier) ([]*model.Season, error) {
	rows, err := conn.Query(ctx,
		fmt.Sprintf("%s order by start_timestamp desc", selector))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]*model.Season, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, rows.Err()
}

// deletes an entry from the database, returns number of rows deleted.
func DeleteByID(ctx context.Context, conn repository.Querier, id int) (int, error) {
	cmdTag, err := conn.Exec(ctx, "delete from season where id=$1", id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func scan(row pgx.Row) (*model.Season, error) {
	var item model.Season
	if err := row.Scan(&item.ID, &item.Name, &item.Start, &item.End); err != nil {
		return nil, err
	}
	return &item, nil
}
