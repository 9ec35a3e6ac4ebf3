// Package admin provides the coordinator CLI: race lifecycle control,
// place confirmation, season management and result submission.
package admin

import (
	"os"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/velologic/cycling-season-manager-go/log"
	"github.com/velologic/cycling-season-manager-go/pkg/config"
	"github.com/velologic/cycling-season-manager-go/pkg/db/postgres"
	"github.com/velologic/cycling-season-manager-go/pkg/service"
	"github.com/velologic/cycling-season-manager-go/pkg/tasks"
	"github.com/velologic/cycling-season-manager-go/pkg/utils"
)

// setupManager wires logger, database pool and job dispatcher for one
// short-lived CLI invocation. The returned cleanup closes the connections.
func setupManager() (*service.Manager, func(), error) {
	logger := log.DevLogger(
		os.Stderr,
		parseLogLevel(config.LogLevel, log.InfoLevel),
		log.WithCaller(true),
		log.AddCallerSkip(1))
	log.ResetDefault(logger)

	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		timeout = 60 * time.Second
	}
	if err := utils.WaitForTCP(utils.ExtractFromDBURL(config.DB), timeout); err != nil {
		return nil, nil, err
	}

	pool, err := postgres.InitWithURL(config.DB)
	if err != nil {
		return nil, nil, err
	}

	opts := []service.Option{
		service.WithLogger(log.Default().Named("service")),
	}
	cleanup := pool.Close
	// job queueing is best effort for CLI use, operations that need a
	// followup job can be triggered manually as well
	conn, err := nats.Connect(config.NatsURL, nats.Name("csm-admin"))
	if err != nil {
		log.Warn("could not connect to nats, jobs will not be queued",
			log.String("url", config.NatsURL), log.ErrorField(err))
	} else {
		opts = append(opts, service.WithDispatcher(tasks.NewNatsDispatcher(conn)))
		cleanup = func() {
			conn.Close()
			pool.Close()
		}
	}

	return service.NewManager(pool, opts...), cleanup, nil
}

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}
