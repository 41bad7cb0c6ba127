package observability

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aretw0/botbridge/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "botbridge"

// Metrics holds the collectors fed by the lifecycle hooks.
type Metrics struct {
	loads       *prometheus.CounterVec
	loadTime    prometheus.Histogram
	invocations *prometheus.CounterVec
	actions     *prometheus.CounterVec
	completions *prometheus.CounterVec
	duration    prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
// It panics if they are already registered there.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		loads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "plugin",
				Name:      "loads_total",
				Help:      "Plugin unit loads by outcome.",
			},
			[]string{"outcome"},
		),
		loadTime: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "plugin",
				Name:      "load_duration_seconds",
				Help:      "Time spent resolving and initializing a plugin unit.",
				Buckets:   prometheus.DefBuckets,
			},
		),
		invocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "handler",
				Name:      "invocations_total",
				Help:      "Entry point calls by call shape.",
			},
			[]string{"shape"},
		),
		actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "handler",
				Name:      "actions_total",
				Help:      "Actions emitted by type.",
			},
			[]string{"type"},
		),
		completions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "invocations_total",
				Help:      "Finished invocations by outcome.",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "invocation_duration_seconds",
				Help:      "End-to-end time of an invocation, load included.",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}
	reg.MustRegister(m.loads, m.loadTime, m.invocations, m.actions, m.completions, m.duration)
	return m
}

// Hooks returns lifecycle hooks that update the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnLoad: func(_ context.Context, ev *domain.LoadEvent) {
			m.loads.WithLabelValues(Outcome(ev.Err)).Inc()
			m.loadTime.Observe(ev.Duration.Seconds())
		},
		OnInvoke: func(_ context.Context, ev *domain.InvokeEvent) {
			shape := "update"
			if ev.WithAPI {
				shape = "update_api"
			}
			m.invocations.WithLabelValues(shape).Inc()
		},
		OnAction: func(_ context.Context, ev *domain.ActionEvent) {
			m.actions.WithLabelValues(string(ev.Action.Type)).Inc()
		},
		OnComplete: func(_ context.Context, ev *domain.CompleteEvent) {
			m.completions.WithLabelValues(Outcome(ev.Err)).Inc()
			m.duration.Observe(ev.Duration.Seconds())
		},
	}
}

// Outcome names the error class of err for use as a label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrUsage):
		return "usage"
	case errors.Is(err, domain.ErrParse):
		return "parse"
	case errors.Is(err, domain.ErrLoad):
		return "load"
	case errors.Is(err, domain.ErrContract):
		return "contract"
	case errors.Is(err, domain.ErrHandler):
		return "handler"
	default:
		return "internal"
	}
}

// Log gathers every metric from g and writes one record per sample.
// Histograms are reported by count and sum.
func Log(ctx context.Context, logger *slog.Logger, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			attrs := []any{"metric", mf.GetName()}
			for _, lp := range metric.GetLabel() {
				attrs = append(attrs, lp.GetName(), lp.GetValue())
			}
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				attrs = append(attrs, "value", metric.GetCounter().GetValue())
			case dto.MetricType_GAUGE:
				attrs = append(attrs, "value", metric.GetGauge().GetValue())
			case dto.MetricType_HISTOGRAM:
				h := metric.GetHistogram()
				attrs = append(attrs, "count", h.GetSampleCount(), "sum", h.GetSampleSum())
			default:
				continue
			}
			logger.InfoContext(ctx, "metric", attrs...)
		}
	}
	return nil
}
