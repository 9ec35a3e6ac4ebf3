//nolint:whitespace //can't make both the linter and editor happy :(
package race

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/velologic/cycling-season-manager-go/pkg/model"
	"github.com/velologic/cycling-season-manager-go/pkg/repository"
)

const selector = `select id, season_id, status, name, description, requirements,
	route_file, no_laps, start_timestamp, end_timestamp,
	place_to_points_mapping, temperature, rain, wind from race`

func Create(ctx context.Context, conn repository.Querier, race *model.Race) error {
	if err := race.Validate(); err != nil {
		return err
	}
	points, err := race.PlacePoints.Encode()
	if err != nil {
		return err
	}
	row := conn.QueryRow(ctx, `
	insert into race (
		season_id, status, name, description, requirements, route_file, no_laps,
		start_timestamp, end_timestamp, place_to_points_mapping,
		temperature, rain, wind
	) values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	returning id`,
		race.SeasonID, string(race.Status), race.Name, race.Description,
		race.Requirements, race.RouteFile, race.NoLaps, race.Start, race.End,
		points, string(race.Temperature), string(race.Rain), string(race.Wind))
	return row.Scan(&race.ID)
}

func LoadByID(ctx context.Context, conn repository.Querier, id int) (
	*model.Race, error,
) {
	row := conn.QueryRow(ctx, fmt.Sprintf("%s where id=$1", selector), id)
	return scan(row)
}

func LoadBySeason(ctx context.Context, conn repository.Querier, seasonID int) (
	[]*model.Race, error,
) {
	return loadMany(ctx, conn,
		fmt.Sprintf("%s where season_id=$1 order by start_timestamp", selector),
		seasonID)
}

// LoadEndedBySeason returns the season's races that reached the ended status.
// Only these contribute to classification scores.
func LoadEndedBySeason(ctx context.Context, conn repository.Querier, seasonID int) (
	[]*model.Race, error,
) {
	return loadMany(ctx, conn,
		fmt.Sprintf("%s where season_id=$1 and status=$2 order by start_timestamp",
			selector),
		seasonID, string(model.RaceEnded))
}

// LoadPendingToStart returns pending races whose start time has passed.
// The worker uses this to drive the pending -> in_progress transition.
func LoadPendingToStart(ctx context.Context, conn repository.Querier) (
	[]*model.Race, error,
) {
	return loadMany(ctx, conn,
		fmt.Sprintf("%s where status=$1 and start_timestamp <= now()", selector),
		string(model.RacePending))
}

func UpdateStatus(
	ctx context.Context,
	conn repository.Querier,
	id int,
	status model.RaceStatus,
) (int, error) {
	cmdTag, err := conn.Exec(ctx,
		"update race set status=$1 where id=$2", string(status), id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

// UpdateWeather records the observed weather attributes of a race.
func UpdateWeather(
	ctx context.Context,
	conn repository.Querier,
	id int,
	temperature model.RaceTemperature,
	rain model.RaceRain,
	wind model.RaceWind,
) (int, error) {
	cmdTag, err := conn.Exec(ctx,
		"update race set temperature=$1, rain=$2, wind=$3 where id=$4",
		string(temperature), string(rain), string(wind), id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func DeleteByID(ctx context.Context, conn repository.Querier, id int) (int, error) {
	cmdTag, err := conn.Exec(ctx, "delete from race where id=$1", id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func loadMany(
	ctx context.Context,
	conn repository.Querier,
	query string,
	args ...interface{},
) ([]*model.Race, error) {
	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]*model.Race, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, rows.Err()
}

func scan(row pgx.Row) (*model.Race, error) {
	var item model.Race
	var status, points, temperature, rain, wind string
	err := row.Scan(&item.ID, &item.SeasonID, &status, &item.Name,
		&item.Description, &item.Requirements, &item.RouteFile, &item.NoLaps,
		&item.Start, &item.End, &points, &temperature, &rain, &wind)
	if err != nil {
		return nil, err
	}
	item.Status = model.RaceStatus(status)
	item.Temperature = model.RaceTemperature(temperature)
	item.Rain = model.RaceRain(rain)
	item.Wind = model.RaceWind(wind)
	if item.PlacePoints, err = model.ParsePointsTable(points); err != nil {
		return nil, err
	}
	return &item, nil
}
