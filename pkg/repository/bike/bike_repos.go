//nolint:whitespace //can't make both the linter and editor happy :(
package bike

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/velologic/cycling-season-manager-go/pkg/model"
	"github.com/velologic/cycling-season-manager-go/pkg/repository"
)

const selector = `select id, rider_id, name, type, brand, model, retired from bike`

func Create(ctx context.Context, conn repository.Querier, bike *model.Bike) error {
	row := conn.QueryRow(ctx, `
	insert into bike (rider_id, name, type, brand, model, retired)
	values ($1,$2,$3,$4,$5,$6) returning id`,
		bike.RiderID, bike.Name, string(bike.Type), bike.Brand, bike.Model, bike.Retired)
	return row.Scan(&bike.ID)
}

func LoadByID(ctx context.Context, conn repository.Querier, id int) (
	*model.Bike, error,
) {
	row := conn.QueryRow(ctx, fmt.Sprintf("%s where id=$1", selector), id)
	var item model.Bike
	if err := scan(&item, row); err != nil {
		return nil, err
	}
	return &item, nil
}

func LoadByIDs(ctx context.Context, conn repository.Querier, ids []int) (
	[]model.Bike, error,
) {
	rows, err := conn.Query(ctx,
		fmt.Sprintf("%s where id=any($1) order by id", selector), ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]model.Bike, 0, len(ids))
	for rows.Next() {
		var item model.Bike
		if err := scan(&item, rows); err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, rows.Err()
}

func LoadByRider(ctx context.Context, conn repository.Querier, riderID int) (
	[]model.Bike, error,
) {
	rows, err := conn.Query(ctx,
		fmt.Sprintf("%s where rider_id=$1 order by id", selector), riderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]model.Bike, 0)
	for rows.Next() {
		var item model.Bike
		if err := scan(&item, rows); err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, rows.Err()
}

// SetRetired marks a bike as retired; it stays referenced by past
// participations but can no longer be entered into races.
func SetRetired(
	ctx context.Context,
	conn repository.Querier,
	id int,
	retired bool,
) (int, error) {
	cmdTag, err := conn.Exec(ctx,
		"update bike set retired=$1 where id=$2", retired, id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func DeleteByID(ctx context.Context, conn repository.Querier, id int) (int, error) {
	cmdTag, err := conn.Exec(ctx, "delete from bike where id=$1", id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func scan(e *model.Bike, row pgx.Row) error {
	var bikeType string
	err := row.Scan(&e.ID, &e.RiderID, &e.Name, &bikeType, &e.Brand, &e.Model,
		&e.Retired)
	if err != nil {
		return err
	}
	e.Type = model.BikeType(bikeType)
	return nil
}
