// File: database/repository/timeslot/interface.go
package timeslotRepo

import (
	"context"

	"courtbook/database"
	"courtbook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type TimeSlotRepository interface {
	// Upsert inserts slot unless one already exists for its court, date and
	// start, and reports whether it inserted.
	Upsert(ctx context.Context, slot models.TimeSlot) (bool, error)
	GetByID(ctx context.Context, id string) (*models.TimeSlot, error)
	// GetByCourtAndDate returns the court's slots on date ordered by start.
	GetByCourtAndDate(ctx context.Context, courtID, date string) ([]models.TimeSlot, error)
	ListByDate(ctx context.Context, date string) ([]models.TimeSlot, error)
	// SetAvailability flips isAvailable from one value to the other and
	// reports whether the stored value matched from.
	SetAvailability(ctx context.Context, id string, from, to bool) (bool, error)
	// HasUpcomingAvailable reports whether the court has an available slot
	// that has not ended by nowMinute on today. nowMinute is floored, see
	// utils.WholeMinuteOfDay.
	HasUpcomingAvailable(ctx context.Context, courtID, today string, nowMinute int) (bool, error)
	// DeleteElapsed removes slots that ended at or before nowMinute on today.
	DeleteElapsed(ctx context.Context, today string, nowMinute int) (int64, error)

	EnsureIndexes(ctx context.Context) error
}

type mongoTimeSlotRepo struct {
	coll *mongo.Collection
}

// NewMongoTimeSlotRepo constructs a new MongoDB TimeSlotRepository.
func NewMongoTimeSlotRepo() TimeSlotRepository {
	return &mongoTimeSlotRepo{
		coll: database.DB().Collection("timeslots"),
	}
}
