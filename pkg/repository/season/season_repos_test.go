//nolint:errcheck //ok for this test code
package season

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velologic/cycling-season-manager-go/pkg/model"
	"github.com/velologic/cycling-season-manager-go/testsupport/testdb"
)

func sampleSeason(name string, start time.Time) *model.Season {
	return &model.Season{
		Name:  name,
		Start: start,
		End:   start.AddDate(0, 8, 0),
	}
}

func TestCreateLoad(t *testing.T) {
	pool := testdb.InitTestDB()
	ctx := context.Background()
	start, _ := time.Parse(time.RFC3339, "2024-03-01T00:00:00Z")

	season := sampleSeason("Sezon 2024", start)
	require.NoError(t, Create(ctx, pool, season))
	assert.Positive(t, season.ID)

	loaded, err := LoadByID(ctx, pool, season.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sezon 2024", loaded.Name)
	assert.True(t, loaded.Start.Equal(start))
}

func TestLoadActive(t *testing.T) {
	pool := testdb.InitTestDB()
	ctx := context.Background()
	start2023, _ := time.Parse(time.RFC3339, "2023-03-01T00:00:00Z")
	start2024, _ := time.Parse(time.RFC3339, "2024-03-01T00:00:00Z")

	old := sampleSeason("Sezon 2023", start2023)
	current := sampleSeason("Sezon 2024", start2024)
	require.NoError(t, Create(ctx, pool, old))
	require.NoError(t, Create(ctx, pool, current))

	tests := []struct {
		name    string
		ts      string
		want    string
		wantErr bool
	}{
		{name: "mid 2024 season", ts: "2024-05-01T12:00:00Z", want: "Sezon 2024"},
		{name: "mid 2023 season", ts: "2023-05-01T12:00:00Z", want: "Sezon 2023"},
		{name: "between seasons", ts: "2024-01-01T12:00:00Z", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, _ := time.Parse(time.RFC3339, tt.ts)
			got, err := LoadActive(ctx, pool, ts)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestLoadAllAndDelete(t *testing.T) {
	pool := testdb.InitTestDB()
	ctx := context.Background()
	start, _ := time.Parse(time.RFC3339, "2024-03-01T00:00:00Z")

	season := sampleSeason("Sezon 2024", start)
	require.NoError(t, Create(ctx, pool, season))

	all, err := LoadAll(ctx, pool)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	deleted, err := DeleteByID(ctx, pool, season.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	_, err = LoadByID(ctx, pool, season.ID)
	assert.Error(t, err)
}
