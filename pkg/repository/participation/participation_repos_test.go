//nolint:errcheck,funlen //ok for this test code
package participation_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velologic/cycling-season-manager-go/pkg/model"
	participationrepos "github.com/velologic/cycling-season-manager-go/pkg/repository/participation"
	racerepos "github.com/velologic/cycling-season-manager-go/pkg/repository/race"
	"github.com/velologic/cycling-season-manager-go/testsupport/basedata"
	"github.com/velologic/cycling-season-manager-go/testsupport/testdb"
)

type fixture struct {
	pool   *pgxpool.Pool
	race   *model.Race
	riders []*model.Rider
	bikes  []*model.Bike
}

func setupFixture(t *testing.T, entrants int) *fixture {
	t.Helper()
	pool := testdb.InitTestDB()
	season, _ := basedata.CreateSampleSeason(pool)
	race := basedata.CreateSampleRace(pool, season.ID)
	riders, bikes := basedata.CreateSampleEntrants(pool, entrants)
	return &fixture{pool: pool, race: race, riders: riders, bikes: bikes}
}

func (f *fixture) create(t *testing.T, idx int) *model.RaceParticipation {
	t.Helper()
	part := &model.RaceParticipation{
		RaceID:  f.race.ID,
		RiderID: f.riders[idx].ID,
		BikeID:  f.bikes[idx].ID,
		Status:  model.ParticipationPending,
	}
	require.NoError(t, participationrepos.Create(context.Background(), f.pool, part))
	return part
}

func TestCreateAndLoad(t *testing.T) {
	f := setupFixture(t, 2)
	ctx := context.Background()

	part := f.create(t, 0)
	assert.Positive(t, part.ID)

	loaded, err := participationrepos.LoadByID(ctx, f.pool, part.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ParticipationPending, loaded.Status)
	assert.Nil(t, loaded.RideEnd)
	assert.Nil(t, loaded.PlaceGenerated)

	byRider, err := participationrepos.LoadByRaceAndRider(ctx, f.pool, f.race.ID, f.riders[0].ID)
	require.NoError(t, err)
	assert.Equal(t, part.ID, byRider.ID)

	// duplicate entry for the same race and rider is rejected
	dup := &model.RaceParticipation{
		RaceID:  f.race.ID,
		RiderID: f.riders[0].ID,
		BikeID:  f.bikes[0].ID,
		Status:  model.ParticipationPending,
	}
	assert.Error(t, participationrepos.Create(ctx, f.pool, dup))
}

func TestRideUpdates(t *testing.T) {
	f := setupFixture(t, 1)
	ctx := context.Background()
	part := f.create(t, 0)
	_, err := participationrepos.SetStatus(ctx, f.pool, part.ID, model.ParticipationApproved)
	require.NoError(t, err)

	start := basedata.TestTime()
	end := start.Add(90 * time.Minute)
	rows, err := participationrepos.UpdateRide(ctx, f.pool, part.ID, start, end, "ride.gpx")
	require.NoError(t, err)
	assert.Equal(t, 1, rows)

	loaded, err := participationrepos.LoadByID(ctx, f.pool, part.ID)
	require.NoError(t, err)
	assert.Equal(t, "ride.gpx", loaded.RideFile)
	assert.True(t, loaded.RideEnd.Equal(end))

	// stamping only fills a missing ride end
	rows, err = participationrepos.StampRideEnd(ctx, f.pool, part.ID, end.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, rows)

	loaded, err = participationrepos.LoadByID(ctx, f.pool, part.ID)
	require.NoError(t, err)
	assert.True(t, loaded.RideEnd.Equal(end))
}

func TestCountApprovedWithoutRideEnd(t *testing.T) {
	f := setupFixture(t, 3)
	ctx := context.Background()

	parts := make([]*model.RaceParticipation, 0, 3)
	for i := 0; i < 3; i++ {
		p := f.create(t, i)
		parts = append(parts, p)
	}
	// two approved, one stays pending
	participationrepos.SetStatus(ctx, f.pool, parts[0].ID, model.ParticipationApproved)
	participationrepos.SetStatus(ctx, f.pool, parts[1].ID, model.ParticipationApproved)

	missing, err := participationrepos.CountApprovedWithoutRideEnd(ctx, f.pool, f.race.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, missing)

	end := basedata.TestTime().Add(time.Hour)
	participationrepos.UpdateRide(ctx, f.pool, parts[0].ID, basedata.TestTime(), end, "a.gpx")

	missing, err = participationrepos.CountApprovedWithoutRideEnd(ctx, f.pool, f.race.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, missing)
}

func TestPlaceUpdates(t *testing.T) {
	f := setupFixture(t, 1)
	ctx := context.Background()
	part := f.create(t, 0)

	rows, err := participationrepos.UpdateGeneratedPlace(ctx, f.pool, part.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, rows)
	rows, err = participationrepos.UpdateAssignedPlace(ctx, f.pool, part.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, rows)

	loaded, err := participationrepos.LoadByID(ctx, f.pool, part.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, *loaded.PlaceGenerated)
	assert.Equal(t, 1, *loaded.PlaceAssigned)
}

func TestLoadApprovedByEndedSeasonRaces(t *testing.T) {
	f := setupFixture(t, 2)
	ctx := context.Background()

	approved := f.create(t, 0)
	f.create(t, 1) // stays pending
	participationrepos.SetStatus(ctx, f.pool, approved.ID, model.ParticipationApproved)

	// race not ended yet
	got, err := participationrepos.LoadApprovedByEndedSeasonRaces(ctx, f.pool, f.race.SeasonID)
	require.NoError(t, err)
	assert.Empty(t, got)

	racerepos.UpdateStatus(ctx, f.pool, f.race.ID, model.RaceEnded)

	got, err = participationrepos.LoadApprovedByEndedSeasonRaces(ctx, f.pool, f.race.SeasonID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, approved.ID, got[0].ID)
}
