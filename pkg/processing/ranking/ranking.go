// Package ranking derives the provisional finish order of a race from the
// recorded or estimated ride end timestamps.
package ranking

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/velologic/cycling-season-manager-go/pkg/model"
)

// GeneratePlaces assigns place_generated_overall to every approved
// participation. Approved participations without a ride end are stamped with
// closedAt first, so riders who never finished rank last as of race closure.
//
// Tie rule: participations sharing the exact same end timestamp receive the
// same place as the previous entry in sort order; the next distinct timestamp
// gets its 1-based position, without rank skipping. Recomputing from scratch
// makes the operation idempotent.
//
// The returned slice contains the approved participations in finish order;
// non-approved participations are left untouched and excluded.
func GeneratePlaces(
	participations []*model.RaceParticipation, closedAt time.Time,
) []*model.RaceParticipation {
	approved := lo.Filter(participations, func(p *model.RaceParticipation, _ int) bool {
		return p.Status == model.ParticipationApproved
	})

	for _, p := range approved {
		if p.RideEnd == nil {
			end := closedAt
			p.RideEnd = &end
		}
	}

	sort.SliceStable(approved, func(i, j int) bool {
		return approved[i].RideEnd.Before(*approved[j].RideEnd)
	})

	var prevEnd *time.Time
	prevPlace := 1
	for i, p := range approved {
		place := i + 1
		if prevEnd != nil && p.RideEnd.Equal(*prevEnd) {
			place = prevPlace
		}
		p.PlaceGenerated = &place
		prevEnd = p.RideEnd
		prevPlace = place
	}
	return approved
}
