// Package scoring folds the classification placements of a season's ended
// races into cumulative per-rider scores.
package scoring

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/velologic/cycling-season-manager-go/pkg/model"
	"github.com/velologic/cycling-season-manager-go/pkg/processing/standings"
)

// Input is the fully resolved context for one recalculation run.
type Input struct {
	Set standings.ClassificationSet
	// ended races of the season, by race id
	Races map[int]*model.Race
	// approved participations of those races with rider/bike context,
	// by participation id
	Entrants map[int]standings.Entrant
	// all placement rows of those participations
	Placements []model.ClassificationPlacement
}

// Recalculate computes the replacement rider_classification_score rows for a
// season. The result is a complete snapshot: accumulators start at zero for
// every rider with at least one qualifying participation in the
// classification's population, points are resolved through the race points
// table's threshold rule, multiplied by the race's weather multipliers and
// rounded to the nearest integer at the very end.
//
// The fold is a pure function of its input, so rerunning it without data
// changes yields identical scores.
func Recalculate(in Input) ([]model.RiderClassificationScore, error) {
	type key struct{ classificationID, riderID int }
	acc := make(map[key]decimal.Decimal)

	// zero score entries for every member of a classification's population
	for _, e := range in.Entrants {
		for _, c := range in.Set.All() {
			if in.Set.Member(c.ID, e) {
				k := key{c.ID, e.Rider.ID}
				if _, ok := acc[k]; !ok {
					acc[k] = decimal.Zero
				}
			}
		}
	}

	for _, placement := range in.Placements {
		entrant, ok := in.Entrants[placement.ParticipationID]
		if !ok {
			return nil, fmt.Errorf("placement references unknown participation %d",
				placement.ParticipationID)
		}
		race, ok := in.Races[entrant.Participation.RaceID]
		if !ok {
			return nil, fmt.Errorf("participation %d references unknown race %d",
				placement.ParticipationID, entrant.Participation.RaceID)
		}
		points := race.PlacePoints.PointsFor(placement.Place)
		if points == 0 {
			continue
		}
		scored := weatherMultiplier(race).Mul(decimal.NewFromInt(int64(points)))
		k := key{placement.ClassificationID, entrant.Rider.ID}
		acc[k] = acc[k].Add(scored)
	}

	ret := make([]model.RiderClassificationScore, 0, len(acc))
	for k, score := range acc {
		ret = append(ret, model.RiderClassificationScore{
			RiderID:          k.riderID,
			ClassificationID: k.classificationID,
			Score:            int(score.Round(0).IntPart()),
		})
	}
	sort.Slice(ret, func(i, j int) bool {
		if ret[i].ClassificationID != ret[j].ClassificationID {
			return ret[i].ClassificationID < ret[j].ClassificationID
		}
		return ret[i].RiderID < ret[j].RiderID
	})
	return ret, nil
}

// weatherMultiplier combines the race's weather attributes into one factor.
// Absent attributes contribute x1.0.
func weatherMultiplier(race *model.Race) decimal.Decimal {
	mult := decimal.NewFromInt(1)
	switch race.Temperature {
	case model.TemperatureCold, model.TemperatureHot:
		mult = mult.Mul(decimal.RequireFromString("1.3"))
	case model.TemperatureNormal, model.TemperatureNone:
	}
	switch race.Wind {
	case model.WindLight:
		mult = mult.Mul(decimal.RequireFromString("1.1"))
	case model.WindHeavy:
		mult = mult.Mul(decimal.RequireFromString("1.4"))
	case model.WindZero, model.WindNone:
	}
	switch race.Rain {
	case model.RainLight:
		mult = mult.Mul(decimal.RequireFromString("1.3"))
	case model.RainHeavy:
		mult = mult.Mul(decimal.RequireFromString("2.0"))
	case model.RainZero, model.RainNone:
	}
	return mult
}
