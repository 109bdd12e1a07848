package telemetry

type Snapshot struct {
	// Core counters
	MessagesReceived uint64
	SamplesApplied   uint64
	ErrorsTotal      uint64
	Reconnects       uint64

	// Connection
	Endpoint        string
	ConnectionState string
	Connected       bool

	// Latest sample
	LastLabel         string
	LastActualLoad    float64
	LastPredictedLoad float64
	LastInsight       string
	WindowSize        int

	// Rate metrics
	MessagesPerSecond float64

	// System metrics
	UptimeSeconds      float64
	ChannelUtilization float64

	// Error breakdown
	ErrorsByType     map[string]uint64
	ErrorsBySeverity map[ErrorSeverity]uint64
	RecentErrors     []string
}

type TelemetryReader interface {
	Snapshot() Snapshot
}
