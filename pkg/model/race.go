package model

import (
	"fmt"
	"time"
)

type RaceStatus string

const (
	RacePending    RaceStatus = "pending"
	RaceInProgress RaceStatus = "in_progress"
	RaceEnded      RaceStatus = "ended"
	RaceCancelled  RaceStatus = "cancelled"
)

func ParseRaceStatus(s string) (RaceStatus, error) {
	switch RaceStatus(s) {
	case RacePending, RaceInProgress, RaceEnded, RaceCancelled:
		return RaceStatus(s), nil
	default:
		return "", fmt.Errorf("unknown race status %q", s)
	}
}

// CanTransition reports whether the status state machine allows
// moving from s to next. Ended and cancelled are terminal.
func (s RaceStatus) CanTransition(next RaceStatus) bool {
	switch s {
	case RacePending:
		return next == RaceInProgress || next == RaceCancelled
	case RaceInProgress:
		return next == RaceEnded || next == RaceCancelled
	case RaceEnded, RaceCancelled:
		return false
	default:
		return false
	}
}

type RaceTemperature string

const (
	TemperatureNone   RaceTemperature = ""
	TemperatureCold   RaceTemperature = "cold"
	TemperatureNormal RaceTemperature = "normal"
	TemperatureHot    RaceTemperature = "hot"
)

type RaceRain string

const (
	RainNone  RaceRain = ""
	RainZero  RaceRain = "zero"
	RainLight RaceRain = "light"
	RainHeavy RaceRain = "heavy"
)

type RaceWind string

const (
	WindNone  RaceWind = ""
	WindZero  RaceWind = "zero"
	WindLight RaceWind = "light"
	WindHeavy RaceWind = "heavy"
)

type Race struct {
	ID           int             `json:"id"`
	SeasonID     int             `json:"seasonId"`
	Status       RaceStatus      `json:"status"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Requirements string          `json:"requirements,omitempty"`
	RouteFile    string          `json:"routeFile"`
	NoLaps       int             `json:"noLaps"`
	Start        time.Time       `json:"startTimestamp"`
	End          time.Time       `json:"endTimestamp"`
	PlacePoints  PointsTable     `json:"placeToPoints"`
	Temperature  RaceTemperature `json:"temperature,omitempty"`
	Rain         RaceRain        `json:"rain,omitempty"`
	Wind         RaceWind        `json:"wind,omitempty"`
}

// Validate checks the invariants that must hold for every persisted race.
func (r *Race) Validate() error {
	if r.NoLaps < 1 {
		return fmt.Errorf("race %q: no_laps must be positive (got %d)", r.Name, r.NoLaps)
	}
	if !r.End.After(r.Start) {
		return fmt.Errorf("race %q: end timestamp must be after start", r.Name)
	}
	return nil
}
