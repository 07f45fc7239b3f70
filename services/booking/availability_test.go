package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecompute_AvailableIffNotReservedAndNotEnded(t *testing.T) {
	f := newFixture(t, at(7, 0), 480, 720, 60)
	ctx := context.Background()

	slots := f.slots(t, 0, today)
	require.Len(t, slots, 4)
	_, err := f.manager.Create(ctx, user("u1"), slots[0].ID)
	require.NoError(t, err)
	_, err = f.manager.Create(ctx, user("u2"), slots[2].ID)
	require.NoError(t, err)
	reserved := map[string]bool{slots[0].ID: true, slots[2].ID: true}

	for _, clock := range []struct{ hh, mm int }{{7, 0}, {8, 59}, {9, 0}, {10, 30}, {11, 0}, {12, 0}} {
		f.clock.Set(at(clock.hh, clock.mm))
		now := f.clock.Now()
		for _, ts := range slots {
			got, _, err := f.engine.Recompute(ctx, ts.ID)
			require.NoError(t, err)
			ended := !at(0, 0).Add(time.Duration(ts.End) * time.Minute).After(now)
			assert.Equal(t, !reserved[ts.ID] && !ended, got.IsAvailable,
				"slot %d-%d at %02d:%02d", ts.Start, ts.End, clock.hh, clock.mm)
			assert.Equal(t, got.IsAvailable, f.slot(t, ts.ID).IsAvailable)
		}
	}
}

func TestRecompute_PublishesOnlyOnChange(t *testing.T) {
	f := newFixture(t, at(7, 0), 480, 600, 60)
	ctx := context.Background()
	slots := f.slots(t, 0, tomorrow)

	_, changed, err := f.engine.Recompute(ctx, slots[0].ID)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Empty(t, f.publisher.Published())

	f.clock.Set(time.Date(2030, 1, 11, 9, 0, 0, 0, time.UTC))
	got, changed, err := f.engine.Recompute(ctx, slots[0].ID)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.False(t, got.IsAvailable)

	published := f.publisher.Published()
	require.Len(t, published, 1)
	assert.Equal(t, slots[0].ID, published[0].ID)
	assert.False(t, published[0].IsAvailable)
}

func TestRecompute_UnknownSlot(t *testing.T) {
	f := newFixture(t, at(7, 0), 480, 600, 60)
	_, _, err := f.engine.Recompute(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSlotNotFound)
	assert.True(t, IsNotFound(err))
}

func TestRollupCourt_FollowsUpcomingSlots(t *testing.T) {
	f := newFixture(t, at(7, 0), 480, 600, 60)
	ctx := context.Background()
	slots := f.slots(t, 0, tomorrow)
	court := func() bool {
		c, err := f.store.Facilities().GetCourtByID(ctx, f.courts[0].ID)
		require.NoError(t, err)
		return c.IsAvailable
	}
	require.True(t, court())

	_, err := f.manager.Create(ctx, user("u1"), slots[0].ID)
	require.NoError(t, err)
	assert.True(t, court())

	r, err := f.manager.Create(ctx, user("u2"), slots[1].ID)
	require.NoError(t, err)
	assert.False(t, court(), "no upcoming slot left")

	_, err = f.manager.Cancel(ctx, user("u2"), r.ID)
	require.NoError(t, err)
	assert.True(t, court())
}

func TestRollupCourt_RunningSlotKeepsCourtAvailable(t *testing.T) {
	f := newFixture(t, at(7, 0), 480, 600, 60)
	ctx := context.Background()
	slots := f.slots(t, 0, today)
	require.Len(t, slots, 2)
	_, err := f.manager.Create(ctx, user("u1"), slots[0].ID)
	require.NoError(t, err)

	court := func() bool {
		c, err := f.store.Facilities().GetCourtByID(ctx, f.courts[0].ID)
		require.NoError(t, err)
		return c.IsAvailable
	}

	f.clock.Set(at(9, 59).Add(30 * time.Second))
	require.NoError(t, f.engine.RollupCourt(ctx, f.courts[0].ID))
	assert.True(t, court(), "the 09:00 slot has not ended")

	f.clock.Set(at(10, 0))
	require.NoError(t, f.engine.RollupCourt(ctx, f.courts[0].ID))
	assert.False(t, court())
}

func TestNormalize_FixesStaleFlags(t *testing.T) {
	f := newFixture(t, at(7, 0), 480, 600, 60)
	ctx := context.Background()
	slots := f.slots(t, 0, today)
	require.Len(t, slots, 2)

	f.clock.Set(at(9, 30))
	normalized, err := f.engine.Normalize(ctx, slots)
	require.NoError(t, err)
	require.Len(t, normalized, 2)
	assert.False(t, normalized[0].IsAvailable, "ended slot")
	assert.True(t, normalized[1].IsAvailable, "in-progress slot stays bookable")
	assert.False(t, f.slot(t, slots[0].ID).IsAvailable)
}

func TestNormalize_ReleasesUnreservedSlotCreatedAtItsStart(t *testing.T) {
	f := newFixture(t, at(9, 0), 480, 600, 60)
	ctx := context.Background()

	generated, err := f.generator.Generate(ctx, f.facility, f.courts[0], today)
	require.NoError(t, err)
	require.Len(t, generated, 1)
	require.False(t, generated[0].IsAvailable)

	normalized, err := f.engine.Normalize(ctx, generated)
	require.NoError(t, err)
	require.Len(t, normalized, 1)
	assert.True(t, normalized[0].IsAvailable)
}
