package gpx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGpx = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test">
 <trk>
  <trkseg>
   <trkpt lat="52.2199" lon="21.0113">
    <ele>110.5</ele>
    <time>2024-01-08T20:48:40Z</time>
   </trkpt>
   <trkpt lat="52.2201" lon="21.0115">
    <ele>111.0</ele>
    <time>2024-01-08T20:48:38Z</time>
   </trkpt>
   <trkpt lat="52.2200" lon="21.0114">
    <ele>110.7</ele>
    <time>2024-01-08T20:48:39Z</time>
   </trkpt>
  </trkseg>
 </trk>
</gpx>`

func TestParseOrdersByTime(t *testing.T) {
	track, err := Parse([]byte(sampleGpx))
	require.NoError(t, err)

	require.Equal(t, 3, track.Len())
	points := track.Points()
	for i := 1; i < len(points); i++ {
		assert.False(t, points[i].Time.Before(points[i-1].Time),
			"points not ordered at %d", i)
	}
	assert.InDelta(t, 52.2201, track.First().Lat, 1e-9)
	assert.InDelta(t, 110.5, track.Last().Ele, 1e-9)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "garbage", data: "not a gpx file <"},
		{name: "no points", data: `<?xml version="1.0"?><gpx version="1.1" creator="t"></gpx>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestFromPointsEmpty(t *testing.T) {
	_, err := FromPoints(nil)
	assert.ErrorIs(t, err, ErrEmptyTrack)
}

func TestSmoothWindowMath(t *testing.T) {
	start := time.Date(2024, 1, 8, 20, 48, 38, 0, time.UTC)
	points := make([]Point, 0, 5)
	lats := []float64{10, 20, 30, 40, 50}
	for i, lat := range lats {
		points = append(points, Point{
			Time: start.Add(time.Duration(i) * time.Second),
			Lat:  lat,
			Lon:  1,
		})
	}
	track, _ := FromPoints(points)

	smoothed := track.Smooth(3).Points()

	// centered window of 3, shrinking at the edges
	assert.InDelta(t, 15, smoothed[0].Lat, 1e-9)
	assert.InDelta(t, 20, smoothed[1].Lat, 1e-9)
	assert.InDelta(t, 30, smoothed[2].Lat, 1e-9)
	assert.InDelta(t, 45, smoothed[4].Lat, 1e-9)
	// timestamps and untouched coordinates survive
	assert.Equal(t, start, smoothed[0].Time)
	assert.InDelta(t, 1, smoothed[2].Lon, 1e-9)
}

func TestSmoothLeavesOriginalUntouched(t *testing.T) {
	start := time.Date(2024, 1, 8, 20, 48, 38, 0, time.UTC)
	track, _ := FromPoints([]Point{
		{Time: start, Lat: 10, Lon: 1},
		{Time: start.Add(time.Second), Lat: 20, Lon: 1},
		{Time: start.Add(2 * time.Second), Lat: 30, Lon: 1},
	})

	_ = track.Smooth(3)

	assert.InDelta(t, 10, track.First().Lat, 1e-9)
}

func TestSmoothDegenerateWindows(t *testing.T) {
	start := time.Date(2024, 1, 8, 20, 48, 38, 0, time.UTC)
	track, _ := FromPoints([]Point{
		{Time: start, Lat: 10},
		{Time: start.Add(time.Second), Lat: 20},
	})

	assert.Equal(t, track.Points(), track.Smooth(1).Points())
	assert.Equal(t, track.Points(), track.Smooth(0).Points())
}
