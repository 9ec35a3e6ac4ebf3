package tasks

import (
	"context"

	"github.com/nats-io/nats.go"

	"github.com/velologic/cycling-season-manager-go/log"
	"github.com/velologic/cycling-season-manager-go/pkg/utils"
)

// Handler executes one decoded job.
type Handler interface {
	Handle(ctx context.Context, job Job) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, job Job) error

func (f HandlerFunc) Handle(ctx context.Context, job Job) error { return f(ctx, job) }

// Worker consumes pipeline jobs from NATS. A queue group subscription gives
// single-consumer delivery across worker processes; within the process a
// keyed mutex serializes jobs sharing a race or season.
type Worker struct {
	conn    *nats.Conn
	handler Handler
	queue   string
	l       *log.Logger
	locks   *utils.KeyedMutex
	sub     *nats.Subscription
}

type WorkerOption func(*Worker)

func WithQueue(queue string) WorkerOption {
	return func(w *Worker) {
		w.queue = queue
	}
}

func WithWorkerLogger(l *log.Logger) WorkerOption {
	return func(w *Worker) {
		w.l = l
	}
}

func NewWorker(conn *nats.Conn, handler Handler, opts ...WorkerOption) *Worker {
	ret := &Worker{
		conn:    conn,
		handler: handler,
		queue:   "csm-worker",
		l:       log.Default().Named("worker"),
		locks:   utils.NewKeyedMutex(),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Start subscribes to the pipeline subjects. Jobs run on the subscription's
// dispatch goroutines; Start itself does not block.
func (w *Worker) Start(ctx context.Context) error {
	sub, err := w.conn.QueueSubscribe(SubscribeSubject(), w.queue,
		func(msg *nats.Msg) {
			w.process(ctx, msg)
		})
	if err != nil {
		return err
	}
	w.sub = sub
	w.l.Info("worker started",
		log.String("subject", SubscribeSubject()),
		log.String("queue", w.queue))
	return nil
}

func (w *Worker) Stop() error {
	if w.sub == nil {
		return nil
	}
	return w.sub.Drain()
}

func (w *Worker) process(ctx context.Context, msg *nats.Msg) {
	job, err := DecodeJob(msg.Data)
	if err != nil {
		w.l.Error("dropping undecodable job",
			log.String("subject", msg.Subject), log.ErrorField(err))
		return
	}
	key := job.SerializationKey()
	w.locks.Lock(key)
	defer w.locks.Unlock(key)

	w.l.Debug("processing job",
		log.String("id", job.ID.String()),
		log.String("kind", string(job.Kind)),
		log.String("key", key))
	if err := w.handler.Handle(ctx, job); err != nil {
		// pipeline jobs are fire-and-forget: failures are logged, not retried
		w.l.Error("job failed",
			log.String("id", job.ID.String()),
			log.String("kind", string(job.Kind)),
			log.ErrorField(err))
	}
}
