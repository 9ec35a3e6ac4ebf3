package config

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	DB                 string // connection string for the database
	NatsURL            string // URL of the NATS server used for the job pipeline
	WaitForServices    string // duration to wait for other services to be ready
	LogLevel           string // sets the log level (zap log level values)
	SQLLogLevel        string // sets the log level for sql subsystem
	LogFormat          string // text vs json
	LogFilter          string // zapfilter rules applied to the logger
	MigrationSourceURL string // location of migration files
	ProfilingPort      int    // port for profiling
	RideFileDir        string // directory containing uploaded ride recordings
	WorkerQueue        string // queue group name for the job worker
)
