package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtbook/models"
)

func TestGenerate_IsIdempotent(t *testing.T) {
	f := newFixture(t, at(7, 0), 480, 720, 60)
	ctx := context.Background()

	first, err := f.generator.Generate(ctx, f.facility, f.courts[0], tomorrow)
	require.NoError(t, err)
	require.Len(t, first, 4)

	second, err := f.generator.Generate(ctx, f.facility, f.courts[0], tomorrow)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	for i, ts := range first {
		assert.Equal(t, 480+60*i, ts.Start)
		assert.Equal(t, ts.Start+60, ts.End)
		assert.Equal(t, f.courts[0].ID, ts.CourtID)
		assert.Equal(t, f.facility.ID, ts.FacilityID)
		assert.True(t, ts.IsAvailable)
	}
}

func TestGenerate_NeverResetsExistingSlots(t *testing.T) {
	f := newFixture(t, at(7, 0), 480, 720, 60)
	ctx := context.Background()

	slots, err := f.generator.Generate(ctx, f.facility, f.courts[0], tomorrow)
	require.NoError(t, err)
	_, err = f.manager.Create(ctx, user("u1"), slots[1].ID)
	require.NoError(t, err)

	again, err := f.generator.Generate(ctx, f.facility, f.courts[0], tomorrow)
	require.NoError(t, err)
	require.Len(t, again, 4)
	assert.Equal(t, slots[1].ID, again[1].ID)
	assert.False(t, again[1].IsAvailable)
}

func TestGenerate_TodayStartsAtNextBoundary(t *testing.T) {
	f := newFixture(t, at(8, 30), 480, 600, 60)

	slots, err := f.generator.Generate(context.Background(), f.facility, f.courts[0], today)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, 540, slots[0].Start)
	assert.Equal(t, 600, slots[0].End)
	assert.True(t, slots[0].IsAvailable)
}

func TestGenerate_SlotStartingNowIsCreatedUnavailable(t *testing.T) {
	f := newFixture(t, at(9, 0), 480, 600, 60)

	slots, err := f.generator.Generate(context.Background(), f.facility, f.courts[0], today)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, 540, slots[0].Start)
	assert.False(t, slots[0].IsAvailable)
}

func TestGenerate_ReservedKeyIsCreatedUnavailable(t *testing.T) {
	f := newFixture(t, at(7, 0), 480, 600, 60)
	ctx := context.Background()

	// A reservation left over from a slot that has since been removed.
	require.NoError(t, f.store.Reservations().Create(ctx, &models.Reservation{
		ID: "r-old", UserID: "u1", TimeSlotID: "gone", CourtID: f.courts[0].ID,
		FacilityID: f.facility.ID, Date: tomorrow, Start: 540, End: 600,
	}))

	slots, err := f.generator.Generate(ctx, f.facility, f.courts[0], tomorrow)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.True(t, slots[0].IsAvailable)
	assert.False(t, slots[1].IsAvailable)
}

func TestGenerate_PastDateIsEmpty(t *testing.T) {
	f := newFixture(t, at(7, 0), 480, 600, 60)

	slots, err := f.generator.Generate(context.Background(), f.facility, f.courts[0], "2030-01-09")
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerate_RollsUpCourtAvailability(t *testing.T) {
	f := newFixture(t, at(7, 0), 480, 600, 60)
	ctx := context.Background()

	_, err := f.generator.Generate(ctx, f.facility, f.courts[0], tomorrow)
	require.NoError(t, err)

	court, err := f.store.Facilities().GetCourtByID(ctx, f.courts[0].ID)
	require.NoError(t, err)
	assert.True(t, court.IsAvailable)

	other, err := f.store.Facilities().GetCourtByID(ctx, f.courts[1].ID)
	require.NoError(t, err)
	assert.False(t, other.IsAvailable)
}
