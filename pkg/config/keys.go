package config

// Environment variable names double as resolver keys. Config files use the
// same names lower-cased without the MONITOR_ prefix (server_url, max_points).
const (
	KeyServerURL             = "MONITOR_SERVER_URL"
	KeyMaxPoints             = "MONITOR_MAX_POINTS"
	KeyRetryDelayMS          = "MONITOR_RETRY_DELAY_MS"
	KeyDialTimeoutSeconds    = "MONITOR_DIAL_TIMEOUT_SECONDS"
	KeyUIMode                = "MONITOR_UI_MODE"
	KeyLogFile               = "MONITOR_LOG_FILE"
	KeyMetricsAddr           = "MONITOR_METRICS_ADDR"
	KeyStatusIntervalSeconds = "MONITOR_STATUS_INTERVAL_SECONDS"
	KeyConfigFile            = "MONITOR_CONFIG_FILE"
)

// UI modes
const (
	UIModeTUI   = "tui"
	UIModeQuiet = "quiet"
)

const (
	DefaultMaxPoints             = 20
	DefaultRetryDelayMS          = 5000
	DefaultDialTimeoutSeconds    = 10
	DefaultUIMode                = UIModeTUI
	DefaultLogFile               = "load-monitor.log"
	DefaultStatusIntervalSeconds = 10
)

const (
	FlagServerURL             = "server-url"
	FlagMaxPoints             = "max-points"
	FlagRetryDelayMS          = "retry-delay-ms"
	FlagDialTimeoutSeconds    = "dial-timeout-seconds"
	FlagUIMode                = "ui-mode"
	FlagLogFile               = "log-file"
	FlagMetricsAddr           = "metrics-addr"
	FlagStatusIntervalSeconds = "status-interval-seconds"
	FlagConfigFile            = "config"
	FlagHelp                  = "help"
)

const (
	AppName        = "Load Monitor"
	AppCommand     = "load-monitor"
	AppDescription = "Live dashboard of actual versus predicted load"
	UsageFormat    = "load-monitor [OPTIONS]"

	HelpServerURL             = "Base URL of the server hosting the feed (required)"
	HelpMaxPoints             = "Samples kept on the chart"
	HelpRetryDelayMS          = "Wait before reconnecting, in milliseconds"
	HelpDialTimeoutSeconds    = "Connection attempt timeout in seconds"
	HelpUIMode                = "Display mode: tui or quiet"
	HelpLogFile               = "Log file used in tui mode"
	HelpMetricsAddr           = "Serve Prometheus metrics on this address (disabled when empty)"
	HelpStatusIntervalSeconds = "Status line interval in quiet mode, in seconds"
	HelpConfigFile            = "Path to a YAML config file"
	HelpShowHelp              = "Show this help message"

	HelpOptions         = "Options:"
	HelpEnvironmentVars = "Environment Variables:"
	HelpUsage           = "Usage:"
	HelpNote            = "Note: CLI options override environment variables, which override the config file"
)
