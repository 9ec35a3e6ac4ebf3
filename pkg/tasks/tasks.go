// Package tasks implements the asynchronous job pipeline connecting result
// submission, race closure, placement assignment and score recalculation.
// Jobs are fire-and-forget messages on NATS, chained by explicit triggering;
// every stage's entry point is idempotent and guarded by preconditions in
// the service layer.
package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	// KindStartRace moves a pending race to in_progress at its start time.
	KindStartRace Kind = "race.start"
	// KindCloseRace ends a race and generates the provisional places.
	KindCloseRace Kind = "race.close"
	// KindRecalculateSeason rebuilds the season's classification scores.
	KindRecalculateSeason Kind = "season.recalc"
)

const subjectPrefix = "csm"

// Job identifies one unit of pipeline work. Payloads carry identifiers only;
// each stage reloads its state from the database.
type Job struct {
	ID         uuid.UUID `json:"id"`
	Kind       Kind      `json:"kind"`
	RaceID     int       `json:"raceId,omitempty"`
	SeasonID   int       `json:"seasonId,omitempty"`
	EnqueuedAt time.Time `json:"enqueuedAt"`
}

func NewRaceJob(kind Kind, raceID int) Job {
	return Job{ID: uuid.New(), Kind: kind, RaceID: raceID, EnqueuedAt: time.Now()}
}

func NewSeasonJob(seasonID int) Job {
	return Job{
		ID: uuid.New(), Kind: KindRecalculateSeason,
		SeasonID: seasonID, EnqueuedAt: time.Now(),
	}
}

// Subject is the NATS subject the job is published on.
func (j Job) Subject() string {
	return fmt.Sprintf("%s.%s", subjectPrefix, j.Kind)
}

// SerializationKey groups jobs that must not run concurrently.
func (j Job) SerializationKey() string {
	switch j.Kind {
	case KindStartRace, KindCloseRace:
		return fmt.Sprintf("race/%d", j.RaceID)
	case KindRecalculateSeason:
		return fmt.Sprintf("season/%d", j.SeasonID)
	default:
		return string(j.Kind)
	}
}

func (j Job) Encode() ([]byte, error) {
	return json.Marshal(j)
}

func DecodeJob(data []byte) (Job, error) {
	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return Job{}, fmt.Errorf("decoding job: %w", err)
	}
	return job, nil
}

// SubscribeSubject matches every pipeline subject.
func SubscribeSubject() string {
	return subjectPrefix + ".>"
}

// Dispatcher queues a job for asynchronous execution.
type Dispatcher interface {
	Dispatch(ctx context.Context, job Job) error
}
