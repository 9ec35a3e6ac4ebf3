package model

import (
	"fmt"
	"time"
)

type ParticipationStatus string

const (
	ParticipationPending  ParticipationStatus = "pending"
	ParticipationApproved ParticipationStatus = "approved"
	ParticipationRejected ParticipationStatus = "rejected"
)

func ParseParticipationStatus(s string) (ParticipationStatus, error) {
	switch ParticipationStatus(s) {
	case ParticipationPending, ParticipationApproved, ParticipationRejected:
		return ParticipationStatus(s), nil
	default:
		return "", fmt.Errorf("unknown participation status %q", s)
	}
}

// RaceParticipation links one rider riding one bike in one race.
// RideFile and PlaceAssigned are write-once: resubmission of a recording
// and re-assignment of a confirmed place are rejected at the service layer.
type RaceParticipation struct {
	ID             int                 `json:"id"`
	RaceID         int                 `json:"raceId"`
	RiderID        int                 `json:"riderId"`
	BikeID         int                 `json:"bikeId"`
	Status         ParticipationStatus `json:"status"`
	RideStart      *time.Time          `json:"rideStartTimestamp,omitempty"`
	RideEnd        *time.Time          `json:"rideEndTimestamp,omitempty"`
	RideFile       string              `json:"rideFile,omitempty"`
	PlaceGenerated *int                `json:"placeGeneratedOverall,omitempty"`
	PlaceAssigned  *int                `json:"placeAssignedOverall,omitempty"`
}

// Validate checks the participation invariants of the data model:
// a ride end requires a recording and must come after the ride start.
func (p *RaceParticipation) Validate() error {
	if p.RideEnd != nil && p.RideFile == "" {
		return fmt.Errorf("participation %d: ride end set without recording", p.ID)
	}
	if p.RideEnd != nil && p.RideStart != nil && !p.RideEnd.After(*p.RideStart) {
		return fmt.Errorf("participation %d: ride end must be after ride start", p.ID)
	}
	if p.PlaceAssigned != nil && *p.PlaceAssigned < 1 {
		return fmt.Errorf("participation %d: assigned place must be >= 1", p.ID)
	}
	return nil
}
