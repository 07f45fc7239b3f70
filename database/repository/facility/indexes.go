// FILE: database/repository/facility/indexes.go
package facilityRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the facilities and courts collections.
func (r *mongoFacilityRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := r.facilities.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_id"),
	}); err != nil {
		return fmt.Errorf("failed to create facility indexes: %w", err)
	}

	courtIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Courts are listed per facility, ordered by name
		{
			Keys:    bson.D{{Key: "facilityId", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetName("facility_name_idx"),
		},
	}
	if _, err := r.courts.Indexes().CreateMany(ctx, courtIndexes); err != nil {
		return fmt.Errorf("failed to create court indexes: %w", err)
	}
	return nil
}
