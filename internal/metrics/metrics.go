// Package metrics exports loader activity as Prometheus collectors.
package metrics

import (
	"context"
	"net/http"

	"github.com/aretw0/cartridge/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records stage counts and durations for every track load.
type Collector struct {
	registry *prometheus.Registry
	stages   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New creates a Collector with its own registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		stages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cartridge_load_stages_total",
				Help: "Total number of load stages by outcome",
			},
			[]string{"stage", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cartridge_load_stage_duration_seconds",
				Help:    "Duration of load stages",
				Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
			},
			[]string{"stage"},
		),
	}
	c.registry.MustRegister(c.stages, c.duration)
	return c
}

// Hooks returns loader hooks that feed the collector. extra, when set, runs first.
func (c *Collector) Hooks(extra domain.LifecycleHooks) domain.LifecycleHooks {
	wrap := func(next func(context.Context, *domain.LoadEvent)) func(context.Context, *domain.LoadEvent) {
		return func(ctx context.Context, e *domain.LoadEvent) {
			if next != nil {
				next(ctx, e)
			}
			c.Observe(e)
		}
	}
	return domain.LifecycleHooks{
		OnFetch:   wrap(extra.OnFetch),
		OnExecute: wrap(extra.OnExecute),
		OnLoad:    wrap(extra.OnLoad),
	}
}

// Observe records one event.
func (c *Collector) Observe(e *domain.LoadEvent) {
	stage := string(e.Type)
	c.stages.WithLabelValues(stage, e.Outcome()).Inc()
	c.duration.WithLabelValues(stage).Observe(e.Duration.Seconds())
}

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, e.g. for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
