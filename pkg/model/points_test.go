package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePointsTable(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{name: "valid", data: `[{"place":1,"points":100},{"place":4,"points":10}]`},
		{name: "empty list", data: `[]`},
		{name: "unsorted input", data: `[{"place":4,"points":10},{"place":1,"points":100}]`},
		{name: "garbage", data: `{`, wantErr: true},
		{name: "zero place", data: `[{"place":0,"points":10}]`, wantErr: true},
		{name: "negative points", data: `[{"place":1,"points":-1}]`, wantErr: true},
		{name: "duplicate place", data: `[{"place":1,"points":10},{"place":1,"points":20}]`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePointsTable(tt.data)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			for i := 1; i < len(got); i++ {
				assert.Less(t, got[i-1].Place, got[i].Place)
			}
		})
	}
}

func TestPointsTableRoundTrip(t *testing.T) {
	table := PointsTable{{Place: 1, Points: 100}, {Place: 4, Points: 10}}
	encoded, err := table.Encode()
	require.NoError(t, err)
	decoded, err := ParsePointsTable(encoded)
	require.NoError(t, err)
	assert.Equal(t, table, decoded)
}

func TestPointsForThresholdRule(t *testing.T) {
	table := PointsTable{{Place: 1, Points: 100}, {Place: 4, Points: 10}}
	tests := []struct {
		place int
		want  int
	}{
		{place: 1, want: 100},
		{place: 2, want: 10},
		{place: 4, want: 10},
		{place: 5, want: 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, table.PointsFor(tt.place), "place %d", tt.place)
	}
}

func TestPointsForEmptyTable(t *testing.T) {
	assert.Equal(t, 0, PointsTable{}.PointsFor(1))
}
