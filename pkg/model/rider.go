package model

import "fmt"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	// GenderUnknown is used for accounts that did not state a gender.
	// Such riders are not part of the gender classifications.
	GenderUnknown Gender = ""
)

func ParseGender(s string) (Gender, error) {
	switch Gender(s) {
	case GenderMale, GenderFemale, GenderUnknown:
		return Gender(s), nil
	default:
		return GenderUnknown, fmt.Errorf("unknown gender %q", s)
	}
}

type Rider struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Gender   Gender `json:"gender"`
}

type BikeType string

const (
	BikeRoad  BikeType = "road"
	BikeFixie BikeType = "fixie"
	BikeOther BikeType = "other"
)

func ParseBikeType(s string) (BikeType, error) {
	switch BikeType(s) {
	case BikeRoad, BikeFixie, BikeOther:
		return BikeType(s), nil
	default:
		return "", fmt.Errorf("unknown bike type %q", s)
	}
}

type Bike struct {
	ID      int      `json:"id"`
	RiderID int      `json:"riderId"`
	Name    string   `json:"name"`
	Type    BikeType `json:"type"`
	Brand   string   `json:"brand,omitempty"`
	Model   string   `json:"model,omitempty"`
	Retired bool     `json:"retired"`
}
