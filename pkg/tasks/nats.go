package tasks

import (
	"context"

	"github.com/nats-io/nats.go"

	"github.com/velologic/cycling-season-manager-go/log"
)

type NatsDispatcher struct {
	conn *nats.Conn
	l    *log.Logger
}

type NatsDispatcherOption func(*NatsDispatcher)

func WithDispatcherLogger(l *log.Logger) NatsDispatcherOption {
	return func(d *NatsDispatcher) {
		d.l = l
	}
}

func NewNatsDispatcher(conn *nats.Conn, opts ...NatsDispatcherOption) *NatsDispatcher {
	ret := &NatsDispatcher{conn: conn, l: log.Default().Named("tasks")}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func (d *NatsDispatcher) Dispatch(_ context.Context, job Job) error {
	payload, err := job.Encode()
	if err != nil {
		return err
	}
	d.l.Debug("dispatching job",
		log.String("id", job.ID.String()),
		log.String("kind", string(job.Kind)),
		log.String("subject", job.Subject()))
	return d.conn.Publish(job.Subject(), payload)
}

var _ Dispatcher = (*NatsDispatcher)(nil)
