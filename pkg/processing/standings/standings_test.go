//nolint:funlen //ok for this test code
package standings

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velologic/cycling-season-manager-go/pkg/model"
)

func standardSet() ClassificationSet {
	return ClassificationSet{
		General: model.Classification{ID: 1, Name: model.ClassificationGeneral},
		Road:    model.Classification{ID: 2, Name: model.ClassificationRoad},
		Fixie:   model.Classification{ID: 3, Name: model.ClassificationFixie},
		Men:     model.Classification{ID: 4, Name: model.ClassificationMen},
		Women:   model.Classification{ID: 5, Name: model.ClassificationWomen},
	}
}

func entrant(id, place int, gender model.Gender, bikeType model.BikeType) Entrant {
	p := place
	return Entrant{
		Participation: &model.RaceParticipation{
			ID:            id,
			RiderID:       id,
			BikeID:        id,
			Status:        model.ParticipationApproved,
			PlaceAssigned: &p,
		},
		Rider: model.Rider{ID: id, Gender: gender},
		Bike:  model.Bike{ID: id, RiderID: id, Type: bikeType},
	}
}

func placesFor(placements []model.ClassificationPlacement, classificationID int) map[int]int {
	ret := map[int]int{}
	for _, p := range placements {
		if p.ClassificationID == classificationID {
			ret[p.ParticipationID] = p.Place
		}
	}
	return ret
}

func TestNewClassificationSet(t *testing.T) {
	classifications := []model.Classification{
		{ID: 1, SeasonID: 1, Name: model.ClassificationGeneral},
		{ID: 2, SeasonID: 1, Name: model.ClassificationRoad},
		{ID: 3, SeasonID: 1, Name: model.ClassificationFixie},
		{ID: 4, SeasonID: 1, Name: model.ClassificationMen},
		{ID: 5, SeasonID: 1, Name: model.ClassificationWomen},
	}
	set, err := NewClassificationSet(classifications)
	require.NoError(t, err)
	assert.Equal(t, 1, set.General.ID)
	assert.Equal(t, 3, set.Fixie.ID)
	assert.Equal(t, 5, set.Women.ID)
}

func TestNewClassificationSetMissing(t *testing.T) {
	classifications := []model.Classification{
		{ID: 1, Name: model.ClassificationGeneral},
		{ID: 2, Name: model.ClassificationRoad},
	}
	_, err := NewClassificationSet(classifications)
	assert.ErrorIs(t, err, ErrMissingClassification)
}

func TestAssignOffsetCompression(t *testing.T) {
	set := standardSet()
	// overall order: road/m, fixie/f, road/f, fixie/m
	entrants := []Entrant{
		entrant(1, 1, model.GenderMale, model.BikeRoad),
		entrant(2, 2, model.GenderFemale, model.BikeFixie),
		entrant(3, 3, model.GenderFemale, model.BikeRoad),
		entrant(4, 4, model.GenderMale, model.BikeFixie),
	}

	placements, err := Assign(entrants, set)
	require.NoError(t, err)

	// general mirrors the overall places
	assert.Equal(t, map[int]int{1: 1, 2: 2, 3: 3, 4: 4},
		placesFor(placements, set.General.ID))
	// road bikes compress to 1..2
	assert.Equal(t, map[int]int{1: 1, 3: 2},
		placesFor(placements, set.Road.ID))
	// fixies compress to 1..2
	assert.Equal(t, map[int]int{2: 1, 4: 2},
		placesFor(placements, set.Fixie.ID))
	// gender classifications
	assert.Equal(t, map[int]int{1: 1, 4: 2},
		placesFor(placements, set.Men.ID))
	assert.Equal(t, map[int]int{2: 1, 3: 2},
		placesFor(placements, set.Women.ID))
}

// every classification's places must be dense 1..K regardless of how its
// population interleaves with the overall ranking
func TestAssignDensity(t *testing.T) {
	set := standardSet()
	entrants := []Entrant{
		entrant(1, 1, model.GenderMale, model.BikeOther),
		entrant(2, 2, model.GenderUnknown, model.BikeRoad),
		entrant(3, 3, model.GenderFemale, model.BikeFixie),
		entrant(4, 4, model.GenderMale, model.BikeRoad),
		entrant(5, 5, model.GenderFemale, model.BikeOther),
	}

	placements, err := Assign(entrants, set)
	require.NoError(t, err)

	for _, c := range set.All() {
		byPart := placesFor(placements, c.ID)
		seen := map[int]bool{}
		for _, place := range byPart {
			seen[place] = true
		}
		for k := 1; k <= len(byPart); k++ {
			assert.True(t, seen[k],
				"classification %d missing place %d", c.ID, k)
		}
	}
}

func TestAssignMultiMembership(t *testing.T) {
	set := standardSet()
	entrants := []Entrant{
		entrant(1, 1, model.GenderMale, model.BikeRoad),
	}

	placements, err := Assign(entrants, set)
	require.NoError(t, err)

	// general + road + men
	if diff := cmp.Diff(
		[]model.ClassificationPlacement{
			{ParticipationID: 1, ClassificationID: set.General.ID, Place: 1},
			{ParticipationID: 1, ClassificationID: set.Road.ID, Place: 1},
			{ParticipationID: 1, ClassificationID: set.Men.ID, Place: 1},
		}, placements); diff != "" {
		t.Errorf("placements not correct: %s", diff)
	}
}

func TestAssignUnsortedInput(t *testing.T) {
	set := standardSet()
	entrants := []Entrant{
		entrant(3, 3, model.GenderFemale, model.BikeRoad),
		entrant(1, 1, model.GenderMale, model.BikeRoad),
		entrant(2, 2, model.GenderFemale, model.BikeFixie),
	}

	placements, err := Assign(entrants, set)
	require.NoError(t, err)

	assert.Equal(t, map[int]int{1: 1, 3: 2}, placesFor(placements, set.Road.ID))
}

func TestAssignMissingPlace(t *testing.T) {
	set := standardSet()
	e := entrant(1, 1, model.GenderMale, model.BikeRoad)
	e.Participation.PlaceAssigned = nil

	_, err := Assign([]Entrant{e}, set)
	assert.ErrorIs(t, err, ErrPlaceNotAssigned)
}

func TestAssignSkipsNonApproved(t *testing.T) {
	set := standardSet()
	e := entrant(1, 1, model.GenderMale, model.BikeRoad)
	e.Participation.Status = model.ParticipationPending
	e.Participation.PlaceAssigned = nil

	placements, err := Assign([]Entrant{e}, set)
	require.NoError(t, err)
	assert.Empty(t, placements)
}

func TestMemberUnknownClassification(t *testing.T) {
	set := standardSet()
	e := entrant(1, 1, model.GenderMale, model.BikeRoad)
	assert.False(t, set.Member(99, e))
}
