// Package metrics exports background animation counters over Prometheus
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/promptforge/backdrop/component"
	"github.com/promptforge/backdrop/parameter"
)

// Collector owns a private registry and implements layer.Observer
// Safe for concurrent use
type Collector struct {
	registry *prometheus.Registry

	framesTotal    *prometheus.CounterVec
	glitchesTotal  prometheus.Counter
	glitchesActive prometheus.Gauge
	quotePhases    *prometheus.CounterVec
	tickDuration   prometheus.Histogram
	pendingWork    prometheus.Gauge
	tokens         prometheus.Gauge
	layersMounted  *prometheus.GaugeVec
	reloadsTotal   *prometheus.CounterVec
}

// New creates a collector with Go runtime collectors registered alongside
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		framesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: parameter.MetricsNamespace,
				Subsystem: "layer",
				Name:      "frames_total",
				Help:      "Animation frames processed per layer",
			},
			[]string{"layer"},
		),
		glitchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: parameter.MetricsNamespace,
			Subsystem: "matrix",
			Name:      "glitches_total",
			Help:      "Glitch bursts started",
		}),
		glitchesActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: parameter.MetricsNamespace,
			Subsystem: "matrix",
			Name:      "glitches_active",
			Help:      "Tokens currently glitching",
		}),
		quotePhases: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: parameter.MetricsNamespace,
				Subsystem: "narrative",
				Name:      "phase_transitions_total",
				Help:      "Quote lifecycle transitions by phase entered",
			},
			[]string{"phase"},
		),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: parameter.MetricsNamespace,
			Subsystem: "scheduler",
			Name:      "tick_duration_seconds",
			Help:      "Time spent running due timers and frame callbacks",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 12),
		}),
		pendingWork: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: parameter.MetricsNamespace,
			Subsystem: "scheduler",
			Name:      "pending_callbacks",
			Help:      "Frame callbacks and timers waiting to run",
		}),
		tokens: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: parameter.MetricsNamespace,
			Subsystem: "matrix",
			Name:      "tokens",
			Help:      "Size of the token pool",
		}),
		layersMounted: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: parameter.MetricsNamespace,
				Subsystem: "layer",
				Name:      "mounted",
				Help:      "1 when the layer is mounted",
			},
			[]string{"layer"},
		),
		reloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: parameter.MetricsNamespace,
				Subsystem: "config",
				Name:      "reloads_total",
				Help:      "Configuration reloads by outcome",
			},
			[]string{"result"},
		),
	}

	c.registry.MustRegister(
		c.framesTotal, c.glitchesTotal, c.glitchesActive, c.quotePhases,
		c.tickDuration, c.pendingWork, c.tokens, c.layersMounted, c.reloadsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry exposes the private registry for scraping
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Frame(layer string, _ time.Time) {
	c.framesTotal.WithLabelValues(layer).Inc()
}

func (c *Collector) GlitchStarted(int, time.Time) {
	c.glitchesTotal.Inc()
	c.glitchesActive.Inc()
}

func (c *Collector) GlitchEnded(int, time.Time) {
	c.glitchesActive.Dec()
}

func (c *Collector) QuotePhase(_, _ string, phase component.QuotePhase, _ time.Time) {
	c.quotePhases.WithLabelValues(phase.String()).Inc()
}

// ObserveTick records one scheduler tick and the work left behind it
func (c *Collector) ObserveTick(d time.Duration, pending int) {
	c.tickDuration.Observe(d.Seconds())
	c.pendingWork.Set(float64(pending))
}

// ObserveLayers records the pool size and which layers are mounted
func (c *Collector) ObserveLayers(tokens int, mounted map[string]bool) {
	c.tokens.Set(float64(tokens))
	for name, on := range mounted {
		v := 0.0
		if on {
			v = 1
		}
		c.layersMounted.WithLabelValues(name).Set(v)
	}
}

// ConfigReloaded counts a reload attempt
func (c *Collector) ConfigReloaded(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.reloadsTotal.WithLabelValues(result).Inc()
}
