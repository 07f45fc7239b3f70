package booking

import (
	"context"

	"courtbook/models"
)

// SlotGenerator lays out and persists the slots of one court on one date.
type SlotGenerator interface {
	Generate(ctx context.Context, facility models.Facility, court models.Court, date string) ([]models.TimeSlot, error)
}

// AvailabilityEngine owns every write to slot and court availability.
type AvailabilityEngine interface {
	// Recompute derives the slot's availability from the clock and its
	// reservations, persists it on change and returns the stored slot and
	// whether it changed.
	Recompute(ctx context.Context, slotID string) (*models.TimeSlot, bool, error)
	// Propagate rolls up and publishes a change already committed elsewhere.
	Propagate(ctx context.Context, slot models.TimeSlot)
	RollupCourt(ctx context.Context, courtID string) error
	// Normalize recomputes any slot whose stored flag is stale.
	Normalize(ctx context.Context, slots []models.TimeSlot) ([]models.TimeSlot, error)
}

type ReservationManager interface {
	Create(ctx context.Context, actor models.Actor, slotID string) (*models.Reservation, error)
	Cancel(ctx context.Context, actor models.Actor, reservationID string) (*models.Reservation, error)
	Delete(ctx context.Context, actor models.Actor, reservationID string) error
	Get(ctx context.Context, actor models.Actor, reservationID string) (*models.Reservation, error)
	ListForActor(ctx context.Context, actor models.Actor) ([]models.Reservation, error)
}

// BookingService is the surface the HTTP handlers use.
type BookingService interface {
	ListSlots(ctx context.Context, courtID, date string) ([]models.TimeSlot, error)
	ReservationManager
}

// SlotPublisher receives every committed availability change.
type SlotPublisher interface {
	PublishSlotUpdate(slot models.TimeSlot)
}
