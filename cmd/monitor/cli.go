package main

import (
	"context"
	"log"
	"time"

	"load-monitor/pkg/config"
	"load-monitor/pkg/readout"
	"load-monitor/pkg/telemetry"
	"load-monitor/pkg/window"
)

// CLI is the quiet-mode runner: periodic status lines instead of a dashboard.
type CLI struct {
	telemetry telemetry.TelemetryReader
	config    *config.Config
	logger    *log.Logger

	lastSnapshot telemetry.Snapshot
	printed      bool
}

func NewCLI(telemetryReader telemetry.TelemetryReader, cfg *config.Config, logger *log.Logger) *CLI {
	return &CLI{
		telemetry: telemetryReader,
		config:    cfg,
		logger:    logger,
	}
}

// Run blocks until ctx is done.
func (c *CLI) Run(ctx context.Context) error {
	c.logger.Printf("Starting Load Monitor in quiet mode")
	c.logger.Printf("Server: %s", c.config.ServerURL)
	c.logger.Printf("Window: %d points, retry delay: %s", c.config.Stream.MaxPoints, c.config.Stream.RetryDelay())

	ticker := time.NewTicker(c.config.UI.StatusInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Printf("Shutting down...")
			return nil
		case <-ticker.C:
			c.printStatus()
		}
	}
}

func (c *CLI) printStatus() {
	snapshot := c.telemetry.Snapshot()

	if c.shouldPrintStatus(snapshot) {
		c.logger.Printf("Status - messages: received=%d, applied=%d, rate=%.1f/s, errors=%d, reconnects=%d",
			snapshot.MessagesReceived,
			snapshot.SamplesApplied,
			snapshot.MessagesPerSecond,
			snapshot.ErrorsTotal,
			snapshot.Reconnects)

		c.logger.Printf("Connection - %s (%s)", snapshot.ConnectionState, snapshot.Endpoint)

		if snapshot.SamplesApplied > 0 {
			c.logger.Printf("Latest - %s actual=%s predicted=%s insight=%s window=%d",
				snapshot.LastLabel,
				readout.FormatNumber(snapshot.LastActualLoad),
				readout.FormatNumber(snapshot.LastPredictedLoad),
				snapshot.LastInsight,
				snapshot.WindowSize)
		}
		if len(snapshot.RecentErrors) > 0 && snapshot.ErrorsTotal > c.lastSnapshot.ErrorsTotal {
			c.logger.Printf("Last error - %s", snapshot.RecentErrors[0])
		}
	}

	c.lastSnapshot = snapshot
	c.printed = true
}

// shouldPrintStatus skips status lines when nothing moved since the last one.
func (c *CLI) shouldPrintStatus(snapshot telemetry.Snapshot) bool {
	if !c.printed {
		return true
	}
	if snapshot.MessagesReceived != c.lastSnapshot.MessagesReceived ||
		snapshot.SamplesApplied != c.lastSnapshot.SamplesApplied {
		return true
	}
	if snapshot.ErrorsTotal > c.lastSnapshot.ErrorsTotal {
		return true
	}
	if snapshot.ConnectionState != c.lastSnapshot.ConnectionState {
		return true
	}
	return false
}

// logView is the monitor.View used in quiet mode. It logs status messages and
// insight changes; the chart is not drawn.
type logView struct {
	logger *log.Logger
	last   readout.Insight
}

func newLogView(logger *log.Logger) *logView {
	return &logView{logger: logger}
}

func (v *logView) SetStatus(text string) {
	v.logger.Print(text)
	v.last = ""
}

func (v *logView) SetReadout(r readout.Readout) {
	if r.Insight == v.last {
		return
	}
	v.last = r.Insight
	v.logger.Printf("%s (actual %s, predicted %s)", r.InsightText(), r.ActualLoad, r.PredictedLoad)
}

func (v *logView) Redraw(window.Snapshot) {}
