package worker

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof" //nolint:gosec // by design
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/velologic/cycling-season-manager-go/log"
	"github.com/velologic/cycling-season-manager-go/pkg/config"
	"github.com/velologic/cycling-season-manager-go/pkg/db/postgres"
	"github.com/velologic/cycling-season-manager-go/pkg/repository"
	raceRepos "github.com/velologic/cycling-season-manager-go/pkg/repository/race"
	"github.com/velologic/cycling-season-manager-go/pkg/service"
	"github.com/velologic/cycling-season-manager-go/pkg/tasks"
	"github.com/velologic/cycling-season-manager-go/pkg/utils"
)

var startCheckInterval string

func NewWorkerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "starts the job pipeline worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startWorker()
		},
	}
	cmd.Flags().StringVar(&config.LogLevel,
		"log-level",
		"info",
		"controls the log level (debug, info, warn, error, fatal)")
	cmd.Flags().StringVar(&config.SQLLogLevel,
		"sql-log-level",
		"debug",
		"controls the log level for sql methods")
	cmd.Flags().StringVar(&config.LogFormat,
		"log-format",
		"json",
		"controls the log output format")
	cmd.Flags().StringVar(&config.WorkerQueue,
		"queue",
		"csm-worker",
		"queue group name for the pipeline subscription")
	cmd.Flags().StringVar(&startCheckInterval,
		"start-check-interval",
		"30s",
		"how often pending races are checked against their start time")
	cmd.Flags().IntVar(&config.ProfilingPort,
		"profiling-port",
		0,
		"port to use for providing profiling data")
	return cmd
}

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

//nolint:funlen // by design
func startWorker() error {
	var logger *log.Logger
	var sqlLogger *log.Logger
	switch config.LogFormat {
	case "json":
		logger = log.New(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
		sqlLogger = log.New(
			os.Stderr,
			parseLogLevel(config.SQLLogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	default:
		logger = log.DevLogger(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.DebugLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
		sqlLogger = log.DevLogger(
			os.Stderr,
			parseLogLevel(config.SQLLogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	}
	log.ResetDefault(logger)

	if config.ProfilingPort > 0 {
		log.Info("Starting profiling server on port",
			log.Int("port", config.ProfilingPort))
		go func() {
			//nolint:gosec // by design
			err := http.ListenAndServe(
				fmt.Sprintf("localhost:%d", config.ProfilingPort),
				nil)
			if err != nil {
				log.Error("Profiling server stopped", log.ErrorField(err))
			}
		}()
	}

	waitForRequiredServices()

	pool, err := postgres.InitWithURL(config.DB, postgres.WithTracer(sqlLogger))
	if err != nil {
		return err
	}
	defer pool.Close()

	conn, err := nats.Connect(config.NatsURL, nats.Name("csm-worker"))
	if err != nil {
		return err
	}
	defer conn.Close()

	dispatcher := tasks.NewNatsDispatcher(conn)
	manager := service.NewManager(pool,
		service.WithDispatcher(dispatcher),
		service.WithLogger(log.Default().Named("service")))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	worker := tasks.NewWorker(conn, manager.JobHandler(),
		tasks.WithQueue(config.WorkerQueue))
	if err := worker.Start(ctx); err != nil {
		return err
	}

	interval, err := time.ParseDuration(startCheckInterval)
	if err != nil {
		log.Warn("Invalid duration value. Setting default 30s", log.ErrorField(err))
		interval = 30 * time.Second
	}
	go scheduleRaceStarts(ctx, pool, dispatcher, interval)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	v := <-sigChan
	log.Debug("Got signal ", log.Any("signal", v))
	cancel()
	if err := worker.Stop(); err != nil {
		log.Warn("worker did not drain cleanly", log.ErrorField(err))
	}
	log.Info("Worker terminated")
	return nil
}

// scheduleRaceStarts periodically queues start jobs for pending races whose
// scheduled start time has passed. Starting a race twice is harmless, the
// second transition is rejected.
func scheduleRaceStarts(
	ctx context.Context,
	querier repository.Querier,
	dispatcher tasks.Dispatcher,
	interval time.Duration,
) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			races, err := raceRepos.LoadPendingToStart(ctx, querier)
			if err != nil {
				log.Error("could not load pending races", log.ErrorField(err))
				continue
			}
			for _, race := range races {
				job := tasks.NewRaceJob(tasks.KindStartRace, race.ID)
				if err := dispatcher.Dispatch(ctx, job); err != nil {
					log.Error("could not queue race start",
						log.Int("race", race.ID), log.ErrorField(err))
				}
			}
		}
	}
}

func waitForRequiredServices() {
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		log.Warn("Invalid duration value. Setting default 60s", log.ErrorField(err))
		timeout = 60 * time.Second
	}
	if err := utils.WaitForTCP(utils.ExtractFromDBURL(config.DB), timeout); err != nil {
		log.Fatal("database not ready", log.ErrorField(err))
	}
	if err := utils.WaitForTCP(utils.ExtractFromNatsURL(config.NatsURL),
		timeout); err != nil {
		log.Fatal("nats not ready", log.ErrorField(err))
	}
}
