package telemetry

import (
	"context"
	"sync"
	"time"
)

// Clock interface allows for deterministic testing
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// Config for telemetry settings
type Config struct {
	BufferSize        int
	MaxRecentErrors   int
	RateWindowSeconds int
}

func DefaultConfig() Config {
	return Config{
		BufferSize:        1000,
		MaxRecentErrors:   50,
		RateWindowSeconds: 10,
	}
}

// Aggregator is the core stateful component that processes telemetry events
type Aggregator struct {
	mu    sync.RWMutex
	clock Clock
	cfg   Config

	// Core counters
	messagesReceived uint64
	samplesApplied   uint64
	errorsTotal      uint64
	reconnects       uint64

	// Error breakdown
	errorsByType     map[string]uint64
	errorsBySeverity map[ErrorSeverity]uint64

	// Arrival times inside the rate window
	messageTimes []time.Time

	// Current state
	endpoint          string
	connectionState   string
	connected         bool
	lastLabel         string
	lastActualLoad    float64
	lastPredictedLoad float64
	lastInsight       string
	windowSize        int

	// Recent errors (ring buffer)
	recentErrors []string
	errorIndex   int

	// Control channels
	eventCh chan TelemetryEvent
	done    chan struct{}
	wg      sync.WaitGroup

	startTime time.Time
}

// NewAggregator creates a new telemetry aggregator
func NewAggregator(clock Clock, cfg Config) *Aggregator {
	if clock == nil {
		clock = RealClock{}
	}
	if cfg.MaxRecentErrors <= 0 {
		cfg.MaxRecentErrors = DefaultConfig().MaxRecentErrors
	}
	if cfg.RateWindowSeconds <= 0 {
		cfg.RateWindowSeconds = DefaultConfig().RateWindowSeconds
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultConfig().BufferSize
	}

	return &Aggregator{
		clock:            clock,
		cfg:              cfg,
		connectionState:  "connecting",
		errorsByType:     make(map[string]uint64),
		errorsBySeverity: make(map[ErrorSeverity]uint64),
		messageTimes:     make([]time.Time, 0, cfg.RateWindowSeconds),
		recentErrors:     make([]string, cfg.MaxRecentErrors),
		eventCh:          make(chan TelemetryEvent, cfg.BufferSize),
		done:             make(chan struct{}),
		startTime:        clock.Now(),
	}
}

// Start begins processing telemetry events
func (a *Aggregator) Start(ctx context.Context) {
	a.wg.Add(1)
	go a.processEvents(ctx)
}

// Stop gracefully shuts down the aggregator
func (a *Aggregator) Stop() {
	close(a.done)
	a.wg.Wait()
}

// Publish implements TelemetryPublisher interface
func (a *Aggregator) Publish(event TelemetryEvent) {
	select {
	case a.eventCh <- event:
	default:
		// Non-blocking send - drop if channel is full
	}
}

// Snapshot implements TelemetryReader interface
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()

	now := a.clock.Now()

	errorsByTypeCopy := make(map[string]uint64, len(a.errorsByType))
	for k, v := range a.errorsByType {
		errorsByTypeCopy[k] = v
	}
	errorsBySeverityCopy := make(map[ErrorSeverity]uint64, len(a.errorsBySeverity))
	for k, v := range a.errorsBySeverity {
		errorsBySeverityCopy[k] = v
	}

	// newest first
	recentErrors := make([]string, 0)
	for i := 0; i < len(a.recentErrors); i++ {
		idx := (a.errorIndex - i - 1 + len(a.recentErrors)) % len(a.recentErrors)
		if a.recentErrors[idx] != "" {
			recentErrors = append(recentErrors, a.recentErrors[idx])
		}
	}

	return Snapshot{
		MessagesReceived:   a.messagesReceived,
		SamplesApplied:     a.samplesApplied,
		ErrorsTotal:        a.errorsTotal,
		Reconnects:         a.reconnects,
		Endpoint:           a.endpoint,
		ConnectionState:    a.connectionState,
		Connected:          a.connected,
		LastLabel:          a.lastLabel,
		LastActualLoad:     a.lastActualLoad,
		LastPredictedLoad:  a.lastPredictedLoad,
		LastInsight:        a.lastInsight,
		WindowSize:         a.windowSize,
		MessagesPerSecond:  a.calculateRate(a.messageTimes, now),
		UptimeSeconds:      now.Sub(a.startTime).Seconds(),
		ChannelUtilization: float64(len(a.eventCh)) / float64(cap(a.eventCh)) * 100,
		ErrorsByType:       errorsByTypeCopy,
		ErrorsBySeverity:   errorsBySeverityCopy,
		RecentErrors:       recentErrors,
	}
}

func (a *Aggregator) processEvents(ctx context.Context) {
	defer a.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-a.done:
			return
		case event := <-a.eventCh:
			a.handleEvent(event)
		}
	}
}

func (a *Aggregator) handleEvent(event TelemetryEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.clock.Now()

	switch e := event.(type) {
	case MessageReceived:
		a.messagesReceived++
		a.addMessageTime(now)

	case SampleApplied:
		a.samplesApplied++
		a.lastLabel = e.Label
		a.lastActualLoad = e.ActualLoad
		a.lastPredictedLoad = e.PredictedLoad
		a.lastInsight = e.Insight
		a.windowSize = e.WindowSize

	case ConnectionStateChanged:
		a.endpoint = e.Endpoint
		a.connectionState = e.State
		a.connected = e.Connected()

	case ReconnectScheduled:
		a.reconnects++

	case StreamError:
		a.errorsTotal++
		a.errorsByType[e.Context]++
		a.errorsBySeverity[e.Severity]++
		if e.Err != nil {
			a.addRecentError(e.Err.Error())
		}
	}
}

func (a *Aggregator) addMessageTime(t time.Time) {
	cutoff := t.Add(-time.Duration(a.cfg.RateWindowSeconds) * time.Second)

	for len(a.messageTimes) > 0 && a.messageTimes[0].Before(cutoff) {
		a.messageTimes = a.messageTimes[1:]
	}

	a.messageTimes = append(a.messageTimes, t)
}

func (a *Aggregator) addRecentError(err string) {
	a.recentErrors[a.errorIndex] = err
	a.errorIndex = (a.errorIndex + 1) % len(a.recentErrors)
}

func (a *Aggregator) calculateRate(times []time.Time, now time.Time) float64 {
	if len(times) == 0 {
		return 0.0
	}

	cutoff := now.Add(-time.Duration(a.cfg.RateWindowSeconds) * time.Second)
	count := 0
	for _, t := range times {
		if t.After(cutoff) {
			count++
		}
	}

	return float64(count) / float64(a.cfg.RateWindowSeconds)
}
