// Package observe provides the OpenTelemetry metric instruments recorded by the
// targeting engine and the provider wiring that exposes them to Prometheus.
//
// Tests should build their own [Metrics] with [NewMetrics] and a private
// [metric.MeterProvider] to avoid cross-test pollution.
package observe

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/pixil98/go-summoners"

// Metrics holds all metric instruments. The OTel types are safe for
// concurrent use.
type Metrics struct {
	// TargetsAdded counts visible-target edges inserted by the maintainer.
	TargetsAdded metric.Int64Counter

	// TargetsRejected counts refused insertions. Use with attribute:
	//   attribute.String("reason", ...)
	TargetsRejected metric.Int64Counter

	// ClassificationErrors counts relation evaluations that failed and were
	// treated as a rejection.
	ClassificationErrors metric.Int64Counter

	// Kills counts resolved player deaths. Use with attribute:
	//   attribute.String("kind", ...)
	Kills metric.Int64Counter

	// Activations counts pet device checks. Use with attribute:
	//   attribute.Bool("success", ...)
	Activations metric.Int64Counter

	// Entities tracks the number of entities in the world.
	Entities metric.Int64UpDownCounter

	// TickDuration tracks how long one world proximity pass takes.
	TickDuration metric.Float64Histogram
}

// NewMetrics creates every instrument on the given provider.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.TargetsAdded, err = m.Int64Counter("summoners.visibility.targets_added",
		metric.WithDescription("Visible target edges inserted."),
	); err != nil {
		return nil, err
	}
	if met.TargetsRejected, err = m.Int64Counter("summoners.visibility.targets_rejected",
		metric.WithDescription("Visible target insertions refused, by reason."),
	); err != nil {
		return nil, err
	}
	if met.ClassificationErrors, err = m.Int64Counter("summoners.visibility.classification_errors",
		metric.WithDescription("Relation evaluations that failed and were treated as rejection."),
	); err != nil {
		return nil, err
	}
	if met.Kills, err = m.Int64Counter("summoners.pvp.kills",
		metric.WithDescription("Player deaths by outcome kind."),
	); err != nil {
		return nil, err
	}
	if met.Activations, err = m.Int64Counter("summoners.pets.activations",
		metric.WithDescription("Pet device activation checks by result."),
	); err != nil {
		return nil, err
	}
	if met.Entities, err = m.Int64UpDownCounter("summoners.world.entities",
		metric.WithDescription("Entities currently in the world."),
	); err != nil {
		return nil, err
	}
	if met.TickDuration, err = m.Float64Histogram("summoners.world.tick.duration",
		metric.WithDescription("Duration of a world proximity pass."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns a package-level instance built on the global
// provider. Panics if instrument creation fails.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}
