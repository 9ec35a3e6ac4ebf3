package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRaceStatusTransitions(t *testing.T) {
	tests := []struct {
		from RaceStatus
		to   RaceStatus
		want bool
	}{
		{from: RacePending, to: RaceInProgress, want: true},
		{from: RacePending, to: RaceCancelled, want: true},
		{from: RacePending, to: RaceEnded, want: false},
		{from: RaceInProgress, to: RaceEnded, want: true},
		{from: RaceInProgress, to: RaceCancelled, want: true},
		{from: RaceInProgress, to: RacePending, want: false},
		{from: RaceEnded, to: RaceInProgress, want: false},
		{from: RaceEnded, to: RaceCancelled, want: false},
		{from: RaceCancelled, to: RacePending, want: false},
		{from: RaceCancelled, to: RaceEnded, want: false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransition(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestParseEnums(t *testing.T) {
	_, err := ParseRaceStatus("pending")
	assert.NoError(t, err)
	_, err = ParseRaceStatus("paused")
	assert.Error(t, err)

	_, err = ParseGender("female")
	assert.NoError(t, err)
	_, err = ParseGender("other")
	assert.Error(t, err)

	_, err = ParseBikeType("fixie")
	assert.NoError(t, err)
	_, err = ParseBikeType("gravel")
	assert.Error(t, err)

	_, err = ParseParticipationStatus("approved")
	assert.NoError(t, err)
	_, err = ParseParticipationStatus("maybe")
	assert.Error(t, err)
}

func TestRaceValidate(t *testing.T) {
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	valid := Race{Name: "r", NoLaps: 3, Start: start, End: start.Add(time.Hour)}
	assert.NoError(t, valid.Validate())

	noLaps := valid
	noLaps.NoLaps = 0
	assert.Error(t, noLaps.Validate())

	badWindow := valid
	badWindow.End = start
	assert.Error(t, badWindow.Validate())
}

func TestParticipationValidate(t *testing.T) {
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	place := 1

	valid := RaceParticipation{
		ID: 1, RideStart: &start, RideEnd: &end,
		RideFile: "ride.gpx", PlaceAssigned: &place,
	}
	assert.NoError(t, valid.Validate())

	noFile := valid
	noFile.RideFile = ""
	assert.Error(t, noFile.Validate())

	reversed := valid
	reversed.RideStart = &end
	reversed.RideEnd = &start
	assert.Error(t, reversed.Validate())

	badPlace := valid
	zero := 0
	badPlace.PlaceAssigned = &zero
	assert.Error(t, badPlace.Validate())
}

func TestSeasonActive(t *testing.T) {
	season := Season{
		Start: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC),
	}
	assert.True(t, season.Active(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, season.Active(time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, season.Active(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
}
