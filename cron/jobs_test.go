package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"courtbook/database/repository/memory"
	"courtbook/models"
	"courtbook/services/booking"
	"courtbook/utils"
)

type nopPublisher struct{}

func (nopPublisher) PublishSlotUpdate(models.TimeSlot) {}

type jobsFixture struct {
	store *memory.Store
	clock *utils.ManualClock
	jobs  *Jobs
}

// newJobsFixture seeds one facility (08:00-10:00, 60 min) with two courts.
func newJobsFixture(t *testing.T, now time.Time) *jobsFixture {
	t.Helper()
	store := memory.New()
	clock := utils.NewManualClock(now)
	stack := booking.NewStack(booking.Stores{
		Facilities:   store.Facilities(),
		Slots:        store.Slots(),
		Reservations: store.Reservations(),
		Tx:           store,
	}, nopPublisher{}, clock, booking.RetryPolicy{MaxTries: 3, Initial: time.Millisecond, MaxInterval: time.Millisecond}, 2, nil)

	ctx := context.Background()
	facility := models.Facility{ID: "fac", Name: "Riverside", OpeningTime: 480, ClosingTime: 600, SlotDuration: 60}
	require.NoError(t, store.Facilities().CreateFacility(ctx, &facility))
	for _, id := range []string{"c1", "c2"} {
		require.NoError(t, store.Facilities().CreateCourt(ctx, &models.Court{ID: id, FacilityID: "fac", Name: id}))
	}

	return &jobsFixture{
		store: store,
		clock: clock,
		jobs: &Jobs{
			Facilities: store.Facilities(),
			Slots:      store.Slots(),
			Generator:  stack.Generator,
			Engine:     stack.Engine,
			Clock:      clock,
			Logger:     zap.NewNop(),
		},
	}
}

func TestPregenerateSlots(t *testing.T) {
	f := newJobsFixture(t, time.Date(2030, 1, 10, 7, 0, 0, 0, time.UTC))
	ctx := context.Background()

	n, err := f.jobs.PregenerateSlots(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 2*2*3, n)

	again, err := f.jobs.PregenerateSlots(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, n, again)

	slots, err := f.store.Slots().GetByCourtAndDate(ctx, "c2", "2030-01-12")
	require.NoError(t, err)
	assert.Len(t, slots, 2)
}

func TestPruneElapsedSlots(t *testing.T) {
	f := newJobsFixture(t, time.Date(2030, 1, 10, 7, 0, 0, 0, time.UTC))
	ctx := context.Background()
	_, err := f.jobs.PregenerateSlots(ctx, 2)
	require.NoError(t, err)

	f.clock.Set(time.Date(2030, 1, 10, 9, 0, 0, 0, time.UTC))
	n, err := f.jobs.PruneElapsedSlots(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	left, err := f.store.Slots().ListByDate(ctx, "2030-01-10")
	require.NoError(t, err)
	require.Len(t, left, 2)
	for _, s := range left {
		assert.Equal(t, 540, s.Start)
	}
}

func TestPruneElapsedSlots_KeepsSlotInItsLastMinute(t *testing.T) {
	f := newJobsFixture(t, time.Date(2030, 1, 10, 7, 0, 0, 0, time.UTC))
	ctx := context.Background()
	_, err := f.jobs.PregenerateSlots(ctx, 1)
	require.NoError(t, err)

	f.clock.Set(time.Date(2030, 1, 10, 9, 59, 30, 0, time.UTC))
	n, err := f.jobs.PruneElapsedSlots(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n, "only the 08:00 slots have ended")

	left, err := f.store.Slots().ListByDate(ctx, "2030-01-10")
	require.NoError(t, err)
	require.Len(t, left, 2)
	for _, s := range left {
		assert.Equal(t, 540, s.Start)
	}
}

func TestRefreshAvailability(t *testing.T) {
	f := newJobsFixture(t, time.Date(2030, 1, 10, 7, 0, 0, 0, time.UTC))
	ctx := context.Background()
	_, err := f.jobs.PregenerateSlots(ctx, 1)
	require.NoError(t, err)

	f.clock.Set(time.Date(2030, 1, 10, 9, 30, 0, 0, time.UTC))
	changed, err := f.jobs.RefreshAvailability(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, changed)

	f.clock.Set(time.Date(2030, 1, 10, 10, 0, 0, 0, time.UTC))
	changed, err = f.jobs.RefreshAvailability(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, changed)

	court, err := f.store.Facilities().GetCourtByID(ctx, "c1")
	require.NoError(t, err)
	assert.False(t, court.IsAvailable)
}

func TestServeMux(t *testing.T) {
	f := newJobsFixture(t, time.Date(2030, 1, 10, 7, 0, 0, 0, time.UTC))
	mux := NewServeMux(f.jobs, zap.NewNop())
	ctx := context.Background()

	task, err := NewPregenerateTask(2)
	require.NoError(t, err)
	require.NoError(t, mux.ProcessTask(ctx, task))
	slots, err := f.store.Slots().ListByDate(ctx, "2030-01-11")
	require.NoError(t, err)
	assert.Len(t, slots, 4)

	require.NoError(t, mux.ProcessTask(ctx, asynq.NewTask(TypeRefreshAvailability, nil)))
	require.NoError(t, mux.ProcessTask(ctx, asynq.NewTask(TypePruneElapsedSlots, nil)))

	err = mux.ProcessTask(ctx, asynq.NewTask(TypePregenerateSlots, []byte("{")))
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}
