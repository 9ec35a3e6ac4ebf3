//nolint:funlen //ok for this test code
package finish

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velologic/cycling-season-manager-go/pkg/gpx"
)

var finishPoint = []float64{52.219954, 21.011319}

// lapRecording builds a recording sampled once per second whose latitude
// oscillates around the finish latitude with constant speed. The rider
// passes the finish between whole-second samples roughly every 122s,
// first at start+60.03s, third at start+305.03s. Longitude stays on the
// finish meridian, so the distance series is a clean triangle wave with
// one minimum per pass.
func lapRecording(start time.Time, seconds int) *gpx.Track {
	const (
		slope     = 0.00002 // degrees per second
		amplitude = 0.0012
	)
	points := make([]gpx.Point, 0, seconds)
	// crossing shifted by 0.3s so the finish falls between two samples
	lat := finishPoint[0] + amplitude + 0.3*slope
	down := true
	for i := 0; i < seconds; i++ {
		points = append(points, gpx.Point{
			Time: start.Add(time.Duration(i) * time.Second),
			Lat:  lat,
			Lon:  finishPoint[1],
		})
		if down {
			lat -= slope
			if lat <= finishPoint[0]-amplitude {
				down = false
			}
		} else {
			lat += slope
			if lat >= finishPoint[0]+amplitude {
				down = true
			}
		}
	}
	track, _ := gpx.FromPoints(points)
	return track
}

func TestInterpolateThreeLaps(t *testing.T) {
	start, _ := time.Parse(time.RFC3339, "2024-01-08T20:48:38Z")
	recording := lapRecording(start, 700)

	got, err := Interpolate(recording, finishPoint, 3)
	require.NoError(t, err)

	// third pass happens 305.03s into the ride, between these two samples
	lower := start.Add(305 * time.Second)
	upper := start.Add(306 * time.Second)
	assert.True(t, !got.Before(lower) && !got.After(upper),
		"interpolated %s not inside [%s, %s]", got, lower, upper)
}

func TestInterpolateSingleLap(t *testing.T) {
	start, _ := time.Parse(time.RFC3339, "2024-01-08T20:48:38Z")
	recording := lapRecording(start, 700)

	got, err := Interpolate(recording, finishPoint, 1)
	require.NoError(t, err)

	lower := start.Add(60 * time.Second)
	upper := start.Add(61 * time.Second)
	assert.True(t, !got.Before(lower) && !got.After(upper),
		"interpolated %s not inside [%s, %s]", got, lower, upper)
}

func TestInterpolateTooFewLaps(t *testing.T) {
	start, _ := time.Parse(time.RFC3339, "2024-01-08T20:48:38Z")
	recording := lapRecording(start, 700)

	_, err := Interpolate(recording, finishPoint, 99)
	assert.ErrorIs(t, err, ErrTooFewLaps)
}

func TestInterpolateMalformedInput(t *testing.T) {
	start, _ := time.Parse(time.RFC3339, "2024-01-08T20:48:38Z")
	recording := lapRecording(start, 700)

	tests := []struct {
		name     string
		endPoint []float64
		noLaps   int
	}{
		{name: "one coordinate", endPoint: []float64{52.2}, noLaps: 3},
		{name: "three coordinates", endPoint: []float64{52.2, 21.0, 100}, noLaps: 3},
		{name: "zero laps", endPoint: finishPoint, noLaps: 0},
		{name: "negative laps", endPoint: finishPoint, noLaps: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Interpolate(recording, tt.endPoint, tt.noLaps)
			assert.ErrorIs(t, err, ErrMalformedInput)
		})
	}
}

func TestInterpolateInsufficientData(t *testing.T) {
	// monotonic approach, only a single distance minimum at the end
	start, _ := time.Parse(time.RFC3339, "2024-01-08T20:48:38Z")
	points := make([]gpx.Point, 0, 60)
	for i := 0; i < 60; i++ {
		points = append(points, gpx.Point{
			Time: start.Add(time.Duration(i) * time.Second),
			Lat:  finishPoint[0] + 0.0012 - float64(i)*0.00002,
			Lon:  finishPoint[1],
		})
	}
	recording, _ := gpx.FromPoints(points)

	_, err := Interpolate(recording, finishPoint, 1)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestInterpolateNoFinishCrossing(t *testing.T) {
	// same lap pattern but the whole ride happens ~1km east of the finish
	start, _ := time.Parse(time.RFC3339, "2024-01-08T20:48:38Z")
	offset := []float64{finishPoint[0], finishPoint[1] + 0.01}
	recording := lapRecording(start, 700)

	_, err := Interpolate(recording, offset, 3)
	assert.ErrorIs(t, err, ErrNoFinishCrossing)
}

func TestLocalMinimaPlateau(t *testing.T) {
	// equal neighboring values count as minima on both sides
	series := []float64{5, 4, 3, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	got := localMinima(series, 2)
	assert.Equal(t, []int{2, 3}, got)
}

func TestInterpolateErrorsWrapSentinels(t *testing.T) {
	start, _ := time.Parse(time.RFC3339, "2024-01-08T20:48:38Z")
	recording := lapRecording(start, 700)

	_, err := Interpolate(recording, []float64{}, 3)
	assert.True(t, errors.Is(err, ErrMalformedInput))
	assert.Contains(t, err.Error(), "end point")
}
