package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsSnapshot_RecordsCounts(t *testing.T) {
	ctx := context.Background()
	mp, err := InitMetrics(ctx, MetricsConfig{Environment: "test"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = mp.Shutdown(ctx) })

	Count(ctx, ReservationsCreated, 1, "")
	Count(ctx, ReservationsCreated, 2, "")
	Count(ctx, ReservationsRejected, 1, "capacity_exceeded")
	Count(ctx, ReservationsRejected, 1, "slot_unavailable")
	Count(ctx, ReservationsRejected, 1, "capacity_exceeded")

	got, err := MetricsSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, []CounterValue{
		{Name: string(ReservationsCreated), Value: 3},
		{Name: string(ReservationsRejected), Reason: "capacity_exceeded", Value: 2},
		{Name: string(ReservationsRejected), Reason: "slot_unavailable", Value: 1},
	}, got)
}

func TestCount_UnknownCounterIsIgnored(t *testing.T) {
	ctx := context.Background()
	mp, err := InitMetrics(ctx, MetricsConfig{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = mp.Shutdown(ctx) })

	Count(ctx, Counter("courtbook.unknown"), 1, "")

	got, err := MetricsSnapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}
