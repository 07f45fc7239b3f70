package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtbook/models"
	"courtbook/services/notification"
)

func TestListSlots_MidMorningShowsOnlyNextSlot(t *testing.T) {
	f := newFixture(t, at(8, 30), 480, 600, 60)

	slots := f.slots(t, 0, today)
	require.Len(t, slots, 1)
	assert.Equal(t, 540, slots[0].Start)
	assert.Equal(t, 600, slots[0].End)
	assert.True(t, slots[0].IsAvailable)
}

func TestListSlots_HidesStartedSlotsLaterInTheDay(t *testing.T) {
	f := newFixture(t, at(7, 0), 480, 720, 60)
	require.Len(t, f.slots(t, 0, today), 4)

	f.clock.Set(at(9, 10))
	slots := f.slots(t, 0, today)
	require.Len(t, slots, 2)
	assert.Equal(t, 600, slots[0].Start)
	assert.Equal(t, 660, slots[1].Start)
}

func TestListSlots_Errors(t *testing.T) {
	f := newFixture(t, at(7, 0), 480, 600, 60)
	ctx := context.Background()

	_, err := f.service.ListSlots(ctx, f.courts[0].ID, "10-01-2030")
	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.True(t, IsValidation(err))

	_, err = f.service.ListSlots(ctx, "no-such-court", tomorrow)
	assert.ErrorIs(t, err, ErrCourtNotFound)

	orphan := models.Court{ID: "orphan", FacilityID: "gone", Name: "Orphan"}
	require.NoError(t, f.store.Facilities().CreateCourt(ctx, &orphan))
	_, err = f.service.ListSlots(ctx, orphan.ID, tomorrow)
	assert.ErrorIs(t, err, ErrFacilityNotFound)
}

func TestListSlots_PastDateIsEmpty(t *testing.T) {
	f := newFixture(t, at(7, 0), 480, 600, 60)
	slots := f.slots(t, 0, "2030-01-01")
	assert.Empty(t, slots)
}

func TestBookingFlow_SubscribersSeeRelease(t *testing.T) {
	f := newFixture(t, at(7, 0), 480, 600, 60)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := notification.NewHub(nil)
	go hub.Run(ctx)
	f.engine.Publisher = hub

	slot := f.slots(t, 0, tomorrow)[0]
	ch := hub.Open(ctx)
	require.NoError(t, ch.Subscribe(notification.CourtTopic(slot.CourtID, slot.Date)))

	res, err := f.service.Create(ctx, user("a"), slot.ID)
	require.NoError(t, err)
	_, err = f.service.Create(ctx, user("b"), slot.ID)
	require.ErrorIs(t, err, ErrSlotUnavailable)

	_, err = f.service.Cancel(ctx, user("a"), res.ID)
	require.NoError(t, err)
	assert.True(t, f.slot(t, slot.ID).IsAvailable)

	var got []models.SlotEvent
	for len(got) < 2 {
		select {
		case ev := <-ch.Events():
			got = append(got, ev)
		case <-time.After(time.Second):
			t.Fatalf("received %d of 2 events", len(got))
		}
	}
	assert.Equal(t, models.SlotEvent{Type: models.SlotEventType, SlotID: slot.ID, IsAvailable: false}, got[0])
	assert.Equal(t, models.SlotEvent{Type: models.SlotEventType, SlotID: slot.ID, IsAvailable: true}, got[1])
}
