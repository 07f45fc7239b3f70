package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"courtbook/database/repository/memory"
	"courtbook/models"
	"courtbook/utils"
)

type recordingPublisher struct {
	mu    sync.Mutex
	slots []models.TimeSlot
}

func (p *recordingPublisher) PublishSlotUpdate(slot models.TimeSlot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.slots = append(p.slots, slot)
}

func (p *recordingPublisher) Published() []models.TimeSlot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.TimeSlot(nil), p.slots...)
}

type fixture struct {
	store     *memory.Store
	clock     *utils.ManualClock
	publisher *recordingPublisher
	engine    *DefaultAvailabilityEngine
	generator *DefaultSlotGenerator
	manager   *DefaultReservationManager
	service   *DefaultBookingService

	facility models.Facility
	courts   []models.Court
}

var testRetry = RetryPolicy{MaxTries: 5, Initial: time.Millisecond, MaxInterval: 2 * time.Millisecond}

// at returns the instant of hh:mm on 2030-01-10 in UTC.
func at(hh, mm int) time.Time {
	return time.Date(2030, 1, 10, hh, mm, 0, 0, time.UTC)
}

const (
	today    = "2030-01-10"
	tomorrow = "2030-01-11"
)

// newFixture builds the booking stack over an in-memory store with one
// facility open opening..closing and two courts.
func newFixture(t *testing.T, now time.Time, opening, closing, duration int) *fixture {
	t.Helper()
	store := memory.New()
	clock := utils.NewManualClock(now)
	pub := &recordingPublisher{}

	stack := NewStack(Stores{
		Facilities:   store.Facilities(),
		Slots:        store.Slots(),
		Reservations: store.Reservations(),
		Tx:           store,
	}, pub, clock, testRetry, 2, nil)

	ctx := context.Background()
	facility := models.Facility{ID: "fac-1", Name: "Riverside", OpeningTime: opening, ClosingTime: closing, SlotDuration: duration}
	require.NoError(t, store.Facilities().CreateFacility(ctx, &facility))
	courts := []models.Court{
		{ID: "court-a", FacilityID: facility.ID, Name: "Court A"},
		{ID: "court-b", FacilityID: facility.ID, Name: "Court B"},
	}
	for i := range courts {
		require.NoError(t, store.Facilities().CreateCourt(ctx, &courts[i]))
	}

	return &fixture{
		store:     store,
		clock:     clock,
		publisher: pub,
		engine:    stack.Engine,
		generator: stack.Generator,
		manager:   stack.Manager,
		service:   stack.Service,
		facility:  facility,
		courts:    courts,
	}
}

// slots lists (and generates) the slots of court i on date.
func (f *fixture) slots(t *testing.T, i int, date string) []models.TimeSlot {
	t.Helper()
	slots, err := f.service.ListSlots(context.Background(), f.courts[i].ID, date)
	require.NoError(t, err)
	return slots
}

func (f *fixture) slot(t *testing.T, id string) models.TimeSlot {
	t.Helper()
	slot, err := f.store.Slots().GetByID(context.Background(), id)
	require.NoError(t, err)
	return *slot
}

func user(id string) models.Actor {
	return models.Actor{UserID: id}
}

var staff = models.Actor{UserID: "staff-1", Staff: true}
