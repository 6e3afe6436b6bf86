package config

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	DB                string // connection string for the database
	URL               string // URL of the track asset index
	AssetTimeout      string // timeout for asset downloads
	WaitForServices   string // duration to wait for other services to be ready
	LogLevel          string // sets the log level (zap log level values)
	SQLLogLevel       string // sets the log level for sql subsystem
	LogFormat         string // text vs json
	LogConfig         string // path to log config file
	EnableTelemetry   bool   // enable telemetry
	TelemetryEndpoint string // endpoint for telemetry
	ProfilingPort     int    // port for profiling
	ListenAddr        string // listen addr for the read api server
	CacheTTL          string // TTL for the read side caches
	NatsURL           string // NATS server url for processed-track events
)

// Config holds the configuration values which are used by the application
type Config struct {
	PauseBetweenTracks string // delay between tracks when processing a batch
	DryRun             bool   // if true, results are not persisted
}
