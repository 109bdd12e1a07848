package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "load_monitor"

// PrometheusPublisher mirrors telemetry events into Prometheus collectors.
// Collector updates are atomic, so Publish is safe from any goroutine.
type PrometheusPublisher struct {
	gatherer prometheus.Gatherer

	messagesReceived prometheus.Counter
	samplesApplied   prometheus.Counter
	reconnects       prometheus.Counter
	errors           *prometheus.CounterVec
	connected        prometheus.Gauge
	actualLoad       prometheus.Gauge
	predictedLoad    prometheus.Gauge
	windowSize       prometheus.Gauge
}

// NewPrometheusPublisher registers the monitor's collectors on a fresh registry.
func NewPrometheusPublisher() *PrometheusPublisher {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &PrometheusPublisher{
		gatherer: reg,
		messagesReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "messages_received_total",
			Help:      "Stream messages read from the feed.",
		}),
		samplesApplied: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "samples_applied_total",
			Help:      "Messages applied to the readouts and chart window.",
		}),
		reconnects: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "reconnects_total",
			Help:      "Reconnection attempts scheduled after the stream closed.",
		}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "errors_total",
			Help:      "Stream errors by context and severity.",
		}, []string{"context", "severity"}),
		connected: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "connected",
			Help:      "1 while the stream connection is open.",
		}),
		actualLoad: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "actual_load",
			Help:      "Most recent actual load reading.",
		}),
		predictedLoad: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "predicted_load",
			Help:      "Most recent predicted load.",
		}),
		windowSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "window_points",
			Help:      "Samples currently held in the chart window.",
		}),
	}
}

func (p *PrometheusPublisher) Publish(event TelemetryEvent) {
	switch e := event.(type) {
	case MessageReceived:
		p.messagesReceived.Inc()
	case SampleApplied:
		p.samplesApplied.Inc()
		p.actualLoad.Set(e.ActualLoad)
		p.predictedLoad.Set(e.PredictedLoad)
		p.windowSize.Set(float64(e.WindowSize))
	case ConnectionStateChanged:
		if e.Connected() {
			p.connected.Set(1)
		} else {
			p.connected.Set(0)
		}
	case ReconnectScheduled:
		p.reconnects.Inc()
	case StreamError:
		p.errors.WithLabelValues(e.Context, e.Severity.String()).Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (p *PrometheusPublisher) Handler() http.Handler {
	return promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{})
}
