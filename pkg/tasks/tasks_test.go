package tasks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobRoundTrip(t *testing.T) {
	job := NewRaceJob(KindCloseRace, 42)

	data, err := job.Encode()
	require.NoError(t, err)
	decoded, err := DecodeJob(data)
	require.NoError(t, err)

	assert.Equal(t, job.ID, decoded.ID)
	assert.Equal(t, job.Kind, decoded.Kind)
	assert.Equal(t, job.RaceID, decoded.RaceID)
	assert.True(t, job.EnqueuedAt.Equal(decoded.EnqueuedAt))
}

func TestDecodeJobGarbage(t *testing.T) {
	_, err := DecodeJob([]byte("{"))
	assert.Error(t, err)
}

func TestSubjects(t *testing.T) {
	assert.Equal(t, "csm.race.start", NewRaceJob(KindStartRace, 1).Subject())
	assert.Equal(t, "csm.race.close", NewRaceJob(KindCloseRace, 1).Subject())
	assert.Equal(t, "csm.season.recalc", NewSeasonJob(1).Subject())
	assert.Equal(t, "csm.>", SubscribeSubject())
}

func TestSerializationKeys(t *testing.T) {
	// start and close of the same race must share a key, season recalcs
	// must not collide with race jobs
	start := NewRaceJob(KindStartRace, 7)
	closeJob := NewRaceJob(KindCloseRace, 7)
	otherRace := NewRaceJob(KindCloseRace, 8)
	recalc := NewSeasonJob(7)

	assert.Equal(t, start.SerializationKey(), closeJob.SerializationKey())
	assert.NotEqual(t, closeJob.SerializationKey(), otherRace.SerializationKey())
	assert.NotEqual(t, closeJob.SerializationKey(), recalc.SerializationKey())
}
