package utils

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.uber.org/zap"
)

// Counter names a booking counter.
type Counter string

const (
	ReservationsCreated   Counter = "courtbook.reservations.created"
	ReservationsRejected  Counter = "courtbook.reservations.rejected"
	ReservationsCancelled Counter = "courtbook.reservations.cancelled"
	SlotsGenerated        Counter = "courtbook.slots.generated"
	NotificationsDropped  Counter = "courtbook.notifications.dropped"
)

var counterDescriptions = map[Counter]string{
	ReservationsCreated:   "Reservations committed",
	ReservationsRejected:  "Booking attempts rejected, by reason",
	ReservationsCancelled: "Reservations cancelled or deleted",
	SlotsGenerated:        "Slots inserted by the generator",
	NotificationsDropped:  "Slot updates not delivered to a subscriber",
}

// MetricsConfig controls the meter provider installed by InitMetrics.
type MetricsConfig struct {
	ServiceName    string
	Environment    string
	CollectorAddr  string // OTLP/gRPC endpoint; empty disables push export
	ExportInterval time.Duration
}

var (
	metricsMu   sync.RWMutex
	instruments map[Counter]metric.Int64Counter
	snapshot    *sdkmetric.ManualReader
)

// InitMetrics installs the SDK meter provider as the global provider. Counters
// are always readable through MetricsSnapshot and are additionally pushed to
// cfg.CollectorAddr when one is set. The returned provider must be shut down
// to flush the last export.
func InitMetrics(ctx context.Context, cfg MetricsConfig) (*sdkmetric.MeterProvider, error) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "courtbook"
	}
	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			attribute.String("service.name", cfg.ServiceName),
			attribute.String("deployment.environment", cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	manual := sdkmetric.NewManualReader()
	opts := []sdkmetric.Option{sdkmetric.WithResource(res), sdkmetric.WithReader(manual)}
	if cfg.CollectorAddr != "" {
		exporter, err := otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(cfg.CollectorAddr),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create metric exporter: %w", err)
		}
		var readerOpts []sdkmetric.PeriodicReaderOption
		if cfg.ExportInterval > 0 {
			readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.ExportInterval))
		}
		opts = append(opts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)))
	}

	mp := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(mp)
	useMeterProvider(mp, manual)

	GetLogger().Info("metrics initialized",
		zap.String("service", cfg.ServiceName),
		zap.String("collector", cfg.CollectorAddr),
	)
	return mp, nil
}

// useMeterProvider rebuilds the counters on mp. reader, when set, backs MetricsSnapshot.
func useMeterProvider(mp metric.MeterProvider, reader *sdkmetric.ManualReader) {
	meter := mp.Meter("courtbook")
	built := make(map[Counter]metric.Int64Counter, len(counterDescriptions))
	for name, desc := range counterDescriptions {
		c, err := meter.Int64Counter(string(name), metric.WithDescription(desc))
		if err != nil {
			GetLogger().Warn("metric init failed", zap.String("counter", string(name)), zap.Error(err))
			continue
		}
		built[name] = c
	}

	metricsMu.Lock()
	instruments = built
	snapshot = reader
	metricsMu.Unlock()
}

// Count adds n to counter, tagging it with reason when non-empty. Before
// InitMetrics runs, counts go to whatever global provider is set.
func Count(ctx context.Context, counter Counter, n int64, reason string) {
	metricsMu.RLock()
	built := instruments
	metricsMu.RUnlock()
	if built == nil {
		useMeterProvider(otel.GetMeterProvider(), nil)
		metricsMu.RLock()
		built = instruments
		metricsMu.RUnlock()
	}

	c, ok := built[counter]
	if !ok {
		return
	}
	if reason == "" {
		c.Add(ctx, n)
		return
	}
	c.Add(ctx, n, metric.WithAttributes(attribute.String("reason", reason)))
}

// CounterValue is one series in a metrics snapshot.
type CounterValue struct {
	Name   string `json:"name"`
	Reason string `json:"reason,omitempty"`
	Value  int64  `json:"value"`
}

// MetricsSnapshot collects the current counter totals, sorted by name and
// reason. It returns nothing before InitMetrics.
func MetricsSnapshot(ctx context.Context) ([]CounterValue, error) {
	metricsMu.RLock()
	reader := snapshot
	metricsMu.RUnlock()
	if reader == nil {
		return nil, nil
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		return nil, fmt.Errorf("failed to collect metrics: %w", err)
	}

	var out []CounterValue
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				v := CounterValue{Name: m.Name, Value: dp.Value}
				if reason, ok := dp.Attributes.Value("reason"); ok {
					v.Reason = reason.AsString()
				}
				out = append(out, v)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Reason < out[j].Reason
	})
	return out, nil
}
