// Package basedata creates common fixtures for database backed tests.
package basedata

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/velologic/cycling-season-manager-go/pkg/model"
	bikerepos "github.com/velologic/cycling-season-manager-go/pkg/repository/bike"
	classificationrepos "github.com/velologic/cycling-season-manager-go/pkg/repository/classification"
	participationrepos "github.com/velologic/cycling-season-manager-go/pkg/repository/participation"
	racerepos "github.com/velologic/cycling-season-manager-go/pkg/repository/race"
	riderrepos "github.com/velologic/cycling-season-manager-go/pkg/repository/rider"
	seasonrepos "github.com/velologic/cycling-season-manager-go/pkg/repository/season"
)

func TestTime() time.Time {
	t, _ := time.Parse(time.RFC3339, "2024-04-28T11:10:12Z")
	return t
}

func SampleSeason() *model.Season {
	return &model.Season{
		Name:  "Sezon 2024",
		Start: TestTime().AddDate(0, -2, 0),
		End:   TestTime().AddDate(0, 6, 0),
	}
}

func SampleRider(n int) *model.Rider {
	gender := model.GenderMale
	if n%2 == 0 {
		gender = model.GenderFemale
	}
	return &model.Rider{
		Username: fmt.Sprintf("rider%d", n),
		Name:     fmt.Sprintf("Test%d", n),
		Surname:  "Rider",
		Gender:   gender,
	}
}

func SampleBike(riderID, n int) *model.Bike {
	bikeType := model.BikeRoad
	if n%2 == 0 {
		bikeType = model.BikeFixie
	}
	return &model.Bike{
		RiderID: riderID,
		Name:    fmt.Sprintf("bike%d", n),
		Type:    bikeType,
		Brand:   "testbrand",
		Model:   "testmodel",
	}
}

func SampleRace(seasonID int) *model.Race {
	return &model.Race{
		SeasonID:    seasonID,
		Status:      model.RacePending,
		Name:        "testrace",
		Description: "testdescription",
		RouteFile:   "route.gpx",
		NoLaps:      3,
		Start:       TestTime(),
		End:         TestTime().Add(4 * time.Hour),
		PlacePoints: model.PointsTable{
			{Place: 1, Points: 100},
			{Place: 2, Points: 80},
			{Place: 3, Points: 60},
		},
		Temperature: model.TemperatureNormal,
		Rain:        model.RainNone,
		Wind:        model.WindNone,
	}
}

// CreateSampleSeason persists a season with the standard classifications.
func CreateSampleSeason(pool *pgxpool.Pool) (
	*model.Season, []model.Classification,
) {
	ctx := context.Background()
	season := SampleSeason()
	if err := seasonrepos.Create(ctx, pool, season); err != nil {
		log.Fatalf("CreateSampleSeason: %v", err)
	}
	classifications, err := classificationrepos.CreateStandardSet(ctx, pool, season.ID)
	if err != nil {
		log.Fatalf("CreateSampleSeason: %v", err)
	}
	return season, classifications
}

// CreateSampleEntrants persists n riders each with one bike.
func CreateSampleEntrants(pool *pgxpool.Pool, n int) (
	[]*model.Rider, []*model.Bike,
) {
	ctx := context.Background()
	riders := make([]*model.Rider, 0, n)
	bikes := make([]*model.Bike, 0, n)
	for i := 1; i <= n; i++ {
		rider := SampleRider(i)
		if err := riderrepos.Create(ctx, pool, rider); err != nil {
			log.Fatalf("CreateSampleEntrants: %v", err)
		}
		bike := SampleBike(rider.ID, i)
		if err := bikerepos.Create(ctx, pool, bike); err != nil {
			log.Fatalf("CreateSampleEntrants: %v", err)
		}
		riders = append(riders, rider)
		bikes = append(bikes, bike)
	}
	return riders, bikes
}

// CreateSampleRace persists a race in the given season.
func CreateSampleRace(pool *pgxpool.Pool, seasonID int) *model.Race {
	ctx := context.Background()
	race := SampleRace(seasonID)
	if err := racerepos.Create(ctx, pool, race); err != nil {
		log.Fatalf("CreateSampleRace: %v", err)
	}
	return race
}

// CreateApprovedParticipation persists an approved race entry.
func CreateApprovedParticipation(
	pool *pgxpool.Pool, raceID int, rider *model.Rider, bike *model.Bike,
) *model.RaceParticipation {
	ctx := context.Background()
	part := &model.RaceParticipation{
		RaceID:  raceID,
		RiderID: rider.ID,
		BikeID:  bike.ID,
		Status:  model.ParticipationPending,
	}
	if err := participationrepos.Create(ctx, pool, part); err != nil {
		log.Fatalf("CreateApprovedParticipation: %v", err)
	}
	if _, err := participationrepos.SetStatus(ctx, pool, part.ID,
		model.ParticipationApproved); err != nil {
		log.Fatalf("CreateApprovedParticipation: %v", err)
	}
	part.Status = model.ParticipationApproved
	return part
}
