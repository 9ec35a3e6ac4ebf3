//nolint:whitespace //can't make both the linter and editor happy :(
package rider

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/velologic/cycling-season-manager-go/pkg/model"
	"github.com/velologic/cycling-season-manager-go/pkg/repository"
)

const selector = `select id, username, name, surname, gender from rider`

func Create(ctx context.Context, conn repository.Querier, rider *model.Rider) error {
	row := conn.QueryRow(ctx, `
	insert into rider (username, name, surname, gender)
	values ($1,$2,$3,$4) returning id`,
		rider.Username, rider.Name, rider.Surname, string(rider.Gender))
	return row.Scan(&rider.ID)
}

func LoadByID(ctx context.Context, conn repository.Querier, id int) (
	*model.Rider, error,
) {
	row := conn.QueryRow(ctx, fmt.Sprintf("%s where id=$1", selector), id)
	var item model.Rider
	if err := scan(&item, row); err != nil {
		return nil, err
	}
	return &item, nil
}

func LoadByIDs(ctx context.Context, conn repository.Querier, ids []int) (
	[]model.Rider, error,
) {
	rows, err := conn.Query(ctx,
		fmt.Sprintf("%s where id=any($1) order by id", selector), ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]model.Rider, 0, len(ids))
	for rows.Next() {
		var item model.Rider
		if err := scan(&item, rows); err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, rows.Err()
}

// UpdateGender corrects the gender attribute of a rider. Season scores are
// not touched here; the recalculator picks the change up on its next run.
func UpdateGender(
	ctx context.Context,
	conn repository.Querier,
	id int,
	gender model.Gender,
) (int, error) {
	cmdTag, err := conn.Exec(ctx,
		"update rider set gender=$1 where id=$2", string(gender), id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func DeleteByID(ctx context.Context, conn repository.Querier, id int) (int, error) {
	cmdTag, err := conn.Exec(ctx, "delete from rider where id=$1", id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func scan(e *model.Rider, row pgx.Row) error {
	var gender string
	if err := row.Scan(&e.ID, &e.Username, &e.Name, &e.Surname, &gender); err != nil {
		return err
	}
	e.Gender = model.Gender(gender)
	return nil
}
