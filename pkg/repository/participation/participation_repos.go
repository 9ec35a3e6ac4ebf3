//nolint:whitespace //can't make both the linter and editor happy :(
package participation

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/velologic/cycling-season-manager-go/pkg/model"
	"github.com/velologic/cycling-season-manager-go/pkg/repository"
)

const selector = `select id, race_id, rider_id, bike_id, status,
	ride_start_timestamp, ride_end_timestamp, ride_file,
	place_generated_overall, place_assigned_overall from race_participation`

func Create(
	ctx context.Context,
	conn repository.Querier,
	p *model.RaceParticipation,
) error {
	if err := p.Validate(); err != nil {
		return err
	}
	row := conn.QueryRow(ctx, `
	insert into race_participation (race_id, rider_id, bike_id, status)
	values ($1,$2,$3,$4) returning id`,
		p.RaceID, p.RiderID, p.BikeID, string(p.Status))
	return row.Scan(&p.ID)
}

func LoadByID(ctx context.Context, conn repository.Querier, id int) (
	*model.RaceParticipation, error,
) {
	row := conn.QueryRow(ctx, fmt.Sprintf("%s where id=$1", selector), id)
	return scan(row)
}

func LoadByRaceAndRider(
	ctx context.Context,
	conn repository.Querier,
	raceID, riderID int,
) (*model.RaceParticipation, error) {
	row := conn.QueryRow(ctx,
		fmt.Sprintf("%s where race_id=$1 and rider_id=$2", selector),
		raceID, riderID)
	return scan(row)
}

func LoadByRace(ctx context.Context, conn repository.Querier, raceID int) (
	[]*model.RaceParticipation, error,
) {
	return loadMany(ctx, conn,
		fmt.Sprintf("%s where race_id=$1 order by id", selector), raceID)
}

// LoadApprovedByEndedSeasonRaces returns the approved participations of the
// season's ended races, the population the score recalculator works on.
func LoadApprovedByEndedSeasonRaces(
	ctx context.Context,
	conn repository.Querier,
	seasonID int,
) ([]*model.RaceParticipation, error) {
	return loadMany(ctx, conn, fmt.Sprintf(`%s
	where status=$1 and race_id in (
		select id from race where season_id=$2 and status=$3
	) order by id`, selector),
		string(model.ParticipationApproved), seasonID, string(model.RaceEnded))
}

// CountApprovedWithoutRideEnd reports how many approved participations of a
// race still lack an end timestamp. Zero means the race can be closed.
func CountApprovedWithoutRideEnd(
	ctx context.Context,
	conn repository.Querier,
	raceID int,
) (int, error) {
	row := conn.QueryRow(ctx, `
	select count(*) from race_participation
	where race_id=$1 and status=$2 and ride_end_timestamp is null`,
		raceID, string(model.ParticipationApproved))
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func SetStatus(
	ctx context.Context,
	conn repository.Querier,
	id int,
	status model.ParticipationStatus,
) (int, error) {
	cmdTag, err := conn.Exec(ctx,
		"update race_participation set status=$1 where id=$2", string(status), id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

// UpdateRide persists the submitted recording with its interpolated
// timestamps. The write-once property of ride_file is enforced at the
// service layer before any job is queued.
func UpdateRide(
	ctx context.Context,
	conn repository.Querier,
	id int,
	start, end time.Time,
	rideFile string,
) (int, error) {
	cmdTag, err := conn.Exec(ctx, `
	update race_participation
	set ride_start_timestamp=$1, ride_end_timestamp=$2, ride_file=$3
	where id=$4`,
		start, end, rideFile, id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

// StampRideEnd sets the end timestamp without touching the recording;
// used at closure time for riders who never submitted a result.
func StampRideEnd(
	ctx context.Context,
	conn repository.Querier,
	id int,
	end time.Time,
) (int, error) {
	cmdTag, err := conn.Exec(ctx, `
	update race_participation set ride_end_timestamp=$1
	where id=$2 and ride_end_timestamp is null`,
		end, id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func UpdateGeneratedPlace(
	ctx context.Context,
	conn repository.Querier,
	id int,
	place int,
) (int, error) {
	cmdTag, err := conn.Exec(ctx,
		"update race_participation set place_generated_overall=$1 where id=$2",
		place, id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func UpdateAssignedPlace(
	ctx context.Context,
	conn repository.Querier,
	id int,
	place int,
) (int, error) {
	cmdTag, err := conn.Exec(ctx,
		"update race_participation set place_assigned_overall=$1 where id=$2",
		place, id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func DeleteByID(ctx context.Context, conn repository.Querier, id int) (int, error) {
	cmdTag, err := conn.Exec(ctx, "delete from race_participation where id=$1", id)
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
) ([]*model.RaceParticipation, error) {
	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]*model.RaceParticipation, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, rows.Err()
}

func scan(row pgx.Row) (*model.RaceParticipation, error) {
	var item model.RaceParticipation
	var status string
	err := row.Scan(&item.ID, &item.RaceID, &item.RiderID, &item.BikeID, &status,
		&item.RideStart, &item.RideEnd, &item.RideFile,
		&item.PlaceGenerated, &item.PlaceAssigned)
	if err != nil {
		return nil, err
	}
	item.Status = model.ParticipationStatus(status)
	return &item, nil
}
