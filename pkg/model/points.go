package model

import (
	"encoding/json"
	"fmt"
	"sort"
)

// PointsEntry is one tier of a race points table: every place up to and
// including Place is worth at least Points.
type PointsEntry struct {
	Place  int `json:"place"`
	Points int `json:"points"`
}

// PointsTable is the place->points mapping of a race. It is stored as a JSON
// column and parsed/validated once on write via ParsePointsTable.
type PointsTable []PointsEntry

// ParsePointsTable decodes and validates the JSON encoded points table.
func ParsePointsTable(data string) (PointsTable, error) {
	var entries []PointsEntry
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		return nil, fmt.Errorf("invalid points table: %w", err)
	}
	ret := PointsTable(entries)
	if err := ret.Validate(); err != nil {
		return nil, err
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Place < ret[j].Place })
	return ret, nil
}

func (t PointsTable) Validate() error {
	seen := make(map[int]struct{}, len(t))
	for _, e := range t {
		if e.Place < 1 {
			return fmt.Errorf("points table: place must be >= 1 (got %d)", e.Place)
		}
		if e.Points < 0 {
			return fmt.Errorf("points table: points must be >= 0 (got %d)", e.Points)
		}
		if _, dup := seen[e.Place]; dup {
			return fmt.Errorf("points table: duplicate place %d", e.Place)
		}
		seen[e.Place] = struct{}{}
	}
	return nil
}

// Encode serializes the table for storage.
func (t PointsTable) Encode() (string, error) {
	data, err := json.Marshal([]PointsEntry(t))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// PointsFor resolves the points awarded for a place using the threshold rule:
// the smallest configured place tier that is >= the actual place wins.
// Placing worse than every tier yields 0 points.
func (t PointsTable) PointsFor(place int) int {
	best := -1
	points := 0
	for _, e := range t {
		if e.Place >= place && (best == -1 || e.Place < best) {
			best = e.Place
			points = e.Points
		}
	}
	return points
}
