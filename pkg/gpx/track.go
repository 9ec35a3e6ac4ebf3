// Package gpx models a recorded GPS track as an ordered sequence of
// timestamped points and provides the queries the result pipeline needs.
package gpx

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	gpxgo "github.com/tkrajina/gpxgo/gpx"
)

var ErrEmptyTrack = errors.New("track contains no points")

type Point struct {
	Time time.Time
	Lat  float64
	Lon  float64
	Ele  float64
}

// Track is an immutable, time-ordered sequence of GPS samples.
// Smoothing returns a new track and leaves the receiver untouched.
type Track struct {
	points []Point
}

func Load(path string) (*Track, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading track %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Track, error) {
	doc, err := gpxgo.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parsing gpx: %w", err)
	}
	points := make([]Point, 0)
	for ti := range doc.Tracks {
		for si := range doc.Tracks[ti].Segments {
			for _, p := range doc.Tracks[ti].Segments[si].Points {
				pt := Point{
					Time: p.Timestamp,
					Lat:  p.Latitude,
					Lon:  p.Longitude,
				}
				if p.Elevation.NotNull() {
					pt.Ele = p.Elevation.Value()
				}
				points = append(points, pt)
			}
		}
	}
	if len(points) == 0 {
		return nil, ErrEmptyTrack
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Time.Before(points[j].Time)
	})
	return &Track{points: points}, nil
}

// FromPoints builds a track from already ordered samples.
func FromPoints(points []Point) (*Track, error) {
	if len(points) == 0 {
		return nil, ErrEmptyTrack
	}
	cp := make([]Point, len(points))
	copy(cp, points)
	return &Track{points: cp}, nil
}

func (t *Track) Len() int { return len(t.points) }

// Points returns the ordered samples. The slice must not be modified.
func (t *Track) Points() []Point { return t.points }

func (t *Track) First() Point { return t.points[0] }

func (t *Track) Last() Point { return t.points[len(t.points)-1] }

// Smooth applies a centered moving-window average of size n to the
// coordinates to denoise GPS jitter. The window shrinks at the track edges.
// Timestamps are preserved.
func (t *Track) Smooth(n int) *Track {
	if n <= 1 || len(t.points) < 2 {
		return &Track{points: t.points}
	}
	half := n / 2
	smoothed := make([]Point, len(t.points))
	for i := range t.points {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi > len(t.points)-1 {
			hi = len(t.points) - 1
		}
		var lat, lon, ele float64
		for j := lo; j <= hi; j++ {
			lat += t.points[j].Lat
			lon += t.points[j].Lon
			ele += t.points[j].Ele
		}
		cnt := float64(hi - lo + 1)
		smoothed[i] = Point{
			Time: t.points[i].Time,
			Lat:  lat / cnt,
			Lon:  lon / cnt,
			Ele:  ele / cnt,
		}
	}
	return &Track{points: smoothed}
}
