// File: database/repository/reservation/interface.go
package reservationRepo

import (
	"context"
	"time"

	"courtbook/database"
	"courtbook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type ReservationRepository interface {
	Create(ctx context.Context, reservation *models.Reservation) error
	GetByID(ctx context.Context, id string) (*models.Reservation, error)
	ListByUser(ctx context.Context, userID string) ([]models.Reservation, error)
	ListAll(ctx context.Context) ([]models.Reservation, error)

	// ExistsActiveForSlot reports whether an uncancelled reservation holds the slot.
	ExistsActiveForSlot(ctx context.Context, slotID string) (bool, error)
	// ExistsActiveAt reports whether an uncancelled reservation holds the
	// court at start on date.
	ExistsActiveAt(ctx context.Context, courtID, date string, start int) (bool, error)
	// ExistsActiveForUserAt reports whether the user holds an uncancelled
	// reservation starting at start on date, on any court.
	ExistsActiveForUserAt(ctx context.Context, userID, date string, start int) (bool, error)
	// CountUpcomingActiveByUser counts the user's uncancelled reservations
	// that have not ended by nowMinute (floored) on today.
	CountUpcomingActiveByUser(ctx context.Context, userID, today string, nowMinute int) (int, error)

	// MarkCancelled soft-cancels an active reservation and reports whether it
	// was active.
	MarkCancelled(ctx context.Context, id, cancelledBy string, at time.Time) (bool, error)
	Delete(ctx context.Context, id string) error

	// LockUser writes the user's booking lock document so that concurrent
	// transactions for the same user conflict.
	LockUser(ctx context.Context, userID string) error

	EnsureIndexes(ctx context.Context) error
}

type mongoReservationRepo struct {
	coll  *mongo.Collection
	locks *mongo.Collection
}

// NewMongoReservationRepo constructs a new MongoDB ReservationRepository.
func NewMongoReservationRepo() ReservationRepository {
	db := database.DB()
	return &mongoReservationRepo{
		coll:  db.Collection("reservations"),
		locks: db.Collection("reservation_locks"),
	}
}
