// FILE: database/repository/timeslot/indexes.go
package timeslotRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the timeslots collection.
func (r *mongoTimeSlotRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		// Unique index on TimeSlot ID
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// One slot per court per start minute per date
		{
			Keys:    bson.D{{Key: "courtId", Value: 1}, {Key: "date", Value: 1}, {Key: "start", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("court_date_start_unique"),
		},
		// Rollup and pruning scans
		{
			Keys:    bson.D{{Key: "courtId", Value: 1}, {Key: "isAvailable", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetName("court_available_date_idx"),
		},
		{
			Keys:    bson.D{{Key: "date", Value: 1}, {Key: "end", Value: 1}},
			Options: options.Index().SetName("date_end_idx"),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create timeslot indexes: %w", err)
	}
	return nil
}
