// Package standings fans a race's confirmed overall places out into
// per-classification placements.
package standings

import (
	"errors"
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/velologic/cycling-season-manager-go/pkg/model"
)

var (
	ErrMissingClassification = errors.New("standard classification missing for season")
	ErrPlaceNotAssigned      = errors.New("participation without assigned place")
)

// Entrant bundles an approved race participation with the rider and bike
// context needed to evaluate classification membership.
type Entrant struct {
	Participation *model.RaceParticipation
	Rider         model.Rider
	Bike          model.Bike
}

// ClassificationSet holds the five standard classifications of a season.
type ClassificationSet struct {
	General model.Classification
	Road    model.Classification
	Fixie   model.Classification
	Men     model.Classification
	Women   model.Classification
}

// NewClassificationSet resolves the standard classifications by name.
func NewClassificationSet(classifications []model.Classification) (ClassificationSet, error) {
	byName := lo.SliceToMap(classifications, func(c model.Classification) (string, model.Classification) {
		return c.Name, c
	})
	var set ClassificationSet
	for _, want := range []struct {
		name   string
		target *model.Classification
	}{
		{model.ClassificationGeneral, &set.General},
		{model.ClassificationRoad, &set.Road},
		{model.ClassificationFixie, &set.Fixie},
		{model.ClassificationMen, &set.Men},
		{model.ClassificationWomen, &set.Women},
	} {
		c, ok := byName[want.name]
		if !ok {
			return ClassificationSet{}, fmt.Errorf("%w: %s", ErrMissingClassification, want.name)
		}
		*want.target = c
	}
	return set, nil
}

// All returns the classifications in canonical order.
func (s ClassificationSet) All() []model.Classification {
	return []model.Classification{s.General, s.Road, s.Fixie, s.Men, s.Women}
}

// Member reports whether an entrant belongs to the population of the given
// classification. Matching is exhaustive over the standard set; an unknown
// classification never matches.
func (s ClassificationSet) Member(classificationID int, e Entrant) bool {
	switch classificationID {
	case s.General.ID:
		return true
	case s.Road.ID:
		return e.Bike.Type == model.BikeRoad
	case s.Fixie.ID:
		return e.Bike.Type == model.BikeFixie
	case s.Men.ID:
		return e.Rider.Gender == model.GenderMale
	case s.Women.ID:
		return e.Rider.Gender == model.GenderFemale
	default:
		return false
	}
}

// Assign produces the placement rows for one race. Every approved entrant
// must carry place_assigned_overall.
//
// For each classification the entrants are walked in overall-place order
// with a running offset: entrants outside the classification's population
// increment the offset, members receive place-offset. This compresses the
// global ranking into a dense 1..K ranking within the sub-population.
// The input is re-sorted here rather than trusting the caller's order.
func Assign(entrants []Entrant, set ClassificationSet) ([]model.ClassificationPlacement, error) {
	approved := lo.Filter(entrants, func(e Entrant, _ int) bool {
		return e.Participation.Status == model.ParticipationApproved
	})
	for _, e := range approved {
		if e.Participation.PlaceAssigned == nil {
			return nil, fmt.Errorf("%w: participation %d",
				ErrPlaceNotAssigned, e.Participation.ID)
		}
	}
	sort.SliceStable(approved, func(i, j int) bool {
		return *approved[i].Participation.PlaceAssigned < *approved[j].Participation.PlaceAssigned
	})

	ret := make([]model.ClassificationPlacement, 0, len(approved)*len(set.All()))
	for _, classification := range set.All() {
		offset := 0
		for _, e := range approved {
			if !set.Member(classification.ID, e) {
				offset++
				continue
			}
			ret = append(ret, model.ClassificationPlacement{
				ParticipationID:  e.Participation.ID,
				ClassificationID: classification.ID,
				Place:            *e.Participation.PlaceAssigned - offset,
			})
		}
	}
	return ret, nil
}
