// Package finish estimates the wall-clock instant a rider crossed the
// finish line by matching a raw ride recording against the end point of
// the race's reference route.
package finish

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/velologic/cycling-season-manager-go/pkg/gpx"
)

// FinishDistanceThreshold is the maximum distance (in degree units, roughly
// 15m) between a recorded sample and the route end point for the sample to
// count as a lap crossing.
const FinishDistanceThreshold = 0.00015

const (
	// smoothing window applied to the recording before distance computation
	smoothWindow = 15
	// neighborhood radius for the local minimum detector
	minimaOrder = 5
	// guards against degenerate slopes in the projection step
	epsilon = 1e-12
)

var (
	ErrMalformedInput          = errors.New("malformed interpolation input")
	ErrInsufficientData        = errors.New("insufficient data for interpolation")
	ErrTooFewLaps              = errors.New("recording covers fewer laps than the race requires")
	ErrNoFinishCrossing        = errors.New("no sample close enough to the finish")
	ErrInterpolationOutOfRange = errors.New("interpolated timestamp outside its support interval")
)

// Interpolate estimates the finish timestamp of a ride recording.
//
// endPoint is the [lat, lon] pair of the reference route's end; noLaps is the
// lap count of the race. The recording is smoothed, samples locally closest
// to the end point are treated as lap-crossing candidates, and the timestamp
// is interpolated between the two samples bracketing the noLaps-th crossing.
func Interpolate(recording *gpx.Track, endPoint []float64, noLaps int) (time.Time, error) {
	if len(endPoint) != 2 {
		return time.Time{}, fmt.Errorf(
			"%w: end point must have 2 coordinates (got %d)", ErrMalformedInput, len(endPoint))
	}
	if noLaps < 1 {
		return time.Time{}, fmt.Errorf("%w: no_laps must be >= 1 (got %d)", ErrMalformedInput, noLaps)
	}

	points := recording.Smooth(smoothWindow).Points()
	dist := make([]float64, len(points))
	for i, p := range points {
		dist[i] = distance(p.Lat, p.Lon, endPoint[0], endPoint[1])
	}

	minima := localMinima(dist, minimaOrder)
	if len(minima) < 2 {
		return time.Time{}, fmt.Errorf(
			"%w: found %d distance minima, need at least 2", ErrInsufficientData, len(minima))
	}

	// minima far away from the finish are noise, not lap crossings
	crossings := make([]int, 0, len(minima))
	for _, idx := range minima {
		if dist[idx] < FinishDistanceThreshold {
			crossings = append(crossings, idx)
		}
	}
	if len(crossings) == 0 {
		return time.Time{}, ErrNoFinishCrossing
	}
	if len(crossings) < noLaps {
		return time.Time{}, fmt.Errorf(
			"%w: %d crossings for %d laps", ErrTooFewLaps, len(crossings), noLaps)
	}

	// the noLaps-th crossing, clamped so a delayed recording start still
	// resolves to the last available crossing
	selected := crossings[min(noLaps, len(crossings))-1]

	p1, p2 := interpolationEndpoints(points, dist, selected)

	// project the route end point onto the line through p1/p2 to find where
	// the rider's path passed the finish
	a1 := (p1.Lon-p2.Lon)/(p1.Lat-p2.Lat+epsilon) + epsilon
	b1 := p1.Lon - a1*p1.Lat
	a2 := -1 / a1
	b2 := endPoint[1] - a2*endPoint[0]

	xp := (b2 - b1) / (a1 - a2)
	yp := a2*xp + b2

	pFirst, pSecond := p1, p2
	if p2.Time.Before(p1.Time) {
		pFirst, pSecond = p2, p1
	}

	deltaP := distance(p1.Lat, p1.Lon, p2.Lat, p2.Lon)
	if deltaP < epsilon {
		return time.Time{}, fmt.Errorf(
			"%w: interpolation endpoints coincide", ErrInsufficientData)
	}
	ratio := distance(pFirst.Lat, pFirst.Lon, xp, yp) / deltaP
	deltaT := pSecond.Time.Sub(pFirst.Time)
	interpolated := pFirst.Time.Add(time.Duration(ratio * float64(deltaT)))

	if interpolated.Before(pFirst.Time) || interpolated.After(pSecond.Time) {
		return time.Time{}, fmt.Errorf("%w: %s not in [%s, %s]",
			ErrInterpolationOutOfRange,
			interpolated.Format(time.RFC3339Nano),
			pFirst.Time.Format(time.RFC3339Nano),
			pSecond.Time.Format(time.RFC3339Nano))
	}
	return interpolated, nil
}

// interpolationEndpoints picks the selected sample and its immediate time
// neighbors, keeping the two closest to the finish.
func interpolationEndpoints(points []gpx.Point, dist []float64, selected int) (gpx.Point, gpx.Point) {
	type candidate struct {
		point gpx.Point
		dist  float64
	}
	candidates := []candidate{{points[selected], dist[selected]}}
	if selected > 0 {
		candidates = append(candidates, candidate{points[selected-1], dist[selected-1]})
	}
	if selected < len(points)-1 {
		candidates = append(candidates, candidate{points[selected+1], dist[selected+1]})
	}
	// two smallest by distance
	best, second := 0, 1
	if candidates[second].dist < candidates[best].dist {
		best, second = second, best
	}
	for i := 2; i < len(candidates); i++ {
		switch {
		case candidates[i].dist < candidates[best].dist:
			second = best
			best = i
		case candidates[i].dist < candidates[second].dist:
			second = i
		}
	}
	return candidates[best].point, candidates[second].point
}

// localMinima returns the indices of samples that are <= every sample within
// order positions on each side. Series borders shrink the neighborhood.
func localMinima(series []float64, order int) []int {
	ret := make([]int, 0)
	for i := range series {
		lo := i - order
		if lo < 0 {
			lo = 0
		}
		hi := i + order
		if hi > len(series)-1 {
			hi = len(series) - 1
		}
		if lo == i && hi == i {
			continue
		}
		isMin := true
		for j := lo; j <= hi; j++ {
			if j == i {
				continue
			}
			if series[j] < series[i] {
				isMin = false
				break
			}
		}
		if isMin {
			ret = append(ret, i)
		}
	}
	return ret
}

// distance is the Euclidean distance in degree space. The pipeline accepts
// this approximation: all comparisons happen within a few dozen meters of
// the finish where the geodesic error is negligible.
func distance(lat1, lon1, lat2, lon2 float64) float64 {
	return math.Hypot(lat1-lat2, lon1-lon2)
}
