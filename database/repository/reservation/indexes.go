// FILE: database/repository/reservation/indexes.go
package reservationRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the reservations and
// reservation_locks collections.
func (r *mongoReservationRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	active := bson.M{"isCancelled": false}
	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// At most one active reservation per slot
		{
			Keys:    bson.D{{Key: "timeSlotId", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(active).SetName("active_slot_unique"),
		},
		// A user cannot hold two active reservations at the same start
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}, {Key: "start", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(active).SetName("active_user_time_unique"),
		},
		{
			Keys:    bson.D{{Key: "courtId", Value: 1}, {Key: "date", Value: 1}, {Key: "start", Value: 1}},
			Options: options.Index().SetPartialFilterExpression(active).SetName("active_court_time_idx"),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "isCancelled", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetName("user_active_date_idx"),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create reservation indexes: %w", err)
	}

	if _, err := r.locks.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_user"),
	}); err != nil {
		return fmt.Errorf("failed to create reservation lock indexes: %w", err)
	}
	return nil
}
