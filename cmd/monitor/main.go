package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"load-monitor/pkg/config"
	"load-monitor/pkg/monitor"
	"load-monitor/pkg/stream"
	"load-monitor/pkg/telemetry"
	"load-monitor/pkg/transport"
	"load-monitor/pkg/tui"
	"load-monitor/pkg/version"
)

const logPrefix = "[load-monitor] "

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 && args[0] == "--version" {
		fmt.Fprintln(stdout, version.Info().String())
		return 0
	}

	cfg, err := config.Load(args, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading configuration: %v\n", err)
		return 1
	}
	if cfg == nil {
		return 0 // help was shown
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := start(ctx, cfg, stderr); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// start wires the stream, telemetry and display together and blocks until
// ctx is done or the user quits the dashboard.
func start(ctx context.Context, cfg *config.Config, stderr io.Writer) error {
	logger, closeLog, err := newLogger(cfg, stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	agg := telemetry.NewAggregator(nil, telemetry.DefaultConfig())
	agg.Start(ctx)
	defer agg.Stop()

	publishers := telemetry.FanOut{agg}
	if cfg.MetricsAddr != "" {
		prom := telemetry.NewPrometheusPublisher()
		publishers = append(publishers, prom)
		srv := serveMetrics(cfg.MetricsAddr, prom.Handler(), logger)
		defer shutdownMetrics(srv, logger)
	}

	sink := monitor.NewSink(publishers, 0)
	sink.Start()
	defer sink.Stop()

	mgr := stream.NewManager(cfg.Endpoint, transport.WSDialer{}, stream.Options{
		RetryDelay:  cfg.Stream.RetryDelay(),
		DialTimeout: cfg.Stream.DialTimeout(),
		Logger:      logger,
		Emit:        sink.Emit,
	})

	if cfg.ConfigFile != "" {
		logger.Printf("Using config file: %s", cfg.ConfigFile)
	}
	logger.Printf("Streaming from %s", mgr.Endpoint())

	var view monitor.View
	var dash *tui.Dashboard
	if cfg.UI.Mode == config.UIModeTUI {
		dash = tui.New(mgr.Endpoint())
		view = dash
	} else {
		view = newLogView(logger)
	}
	mon := monitor.New(view, cfg.Stream.MaxPoints, logger, sink.Emit)

	streamDone := make(chan error, 1)
	go func() { streamDone <- mgr.Run(ctx, mon) }()

	var uiErr error
	if dash != nil {
		uiErr = dash.Run(ctx)
		if errors.Is(uiErr, context.Canceled) {
			uiErr = nil
		}
	} else {
		uiErr = NewCLI(agg, cfg, logger).Run(ctx)
	}

	cancel()
	if err := <-streamDone; err != nil && !errors.Is(err, context.Canceled) {
		logger.Printf("stream stopped: %v", err)
	}
	logger.Printf("Shut down")
	return uiErr
}

// newLogger logs to stderr in quiet mode and to the configured file in tui
// mode so the dashboard is not overwritten.
func newLogger(cfg *config.Config, stderr io.Writer) (*log.Logger, func(), error) {
	if cfg.UI.Mode != config.UIModeTUI {
		return log.New(stderr, logPrefix, log.LstdFlags), func() {}, nil
	}
	f, err := os.OpenFile(cfg.UI.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return log.New(f, logPrefix, log.LstdFlags), func() { f.Close() }, nil
}

func serveMetrics(addr string, handler http.Handler, logger *log.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Printf("Serving metrics on %s/metrics", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf("metrics server: %v", err)
		}
	}()
	return srv
}

func shutdownMetrics(srv *http.Server, logger *log.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("metrics server shutdown: %v", err)
	}
}
