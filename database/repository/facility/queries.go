// File: database/repository/facility/queries.go
package facilityRepo

import (
	"context"
	"time"

	"courtbook/database"
	"courtbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoFacilityRepo) GetFacilityByID(ctx context.Context, id string) (*models.Facility, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var facility models.Facility
	if err := r.facilities.FindOne(ctx, bson.M{"id": id}).Decode(&facility); err != nil {
		return nil, database.Classify(err)
	}
	return &facility, nil
}

func (r *mongoFacilityRepo) ListFacilities(ctx context.Context) ([]models.Facility, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.facilities.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, database.Classify(err)
	}
	defer cursor.Close(ctx)

	facilities := []models.Facility{}
	if err := cursor.All(ctx, &facilities); err != nil {
		return nil, database.Classify(err)
	}
	return facilities, nil
}

func (r *mongoFacilityRepo) GetCourtByID(ctx context.Context, id string) (*models.Court, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var court models.Court
	if err := r.courts.FindOne(ctx, bson.M{"id": id}).Decode(&court); err != nil {
		return nil, database.Classify(err)
	}
	return &court, nil
}

func (r *mongoFacilityRepo) ListCourts(ctx context.Context) ([]models.Court, error) {
	return r.findCourts(ctx, bson.M{})
}

func (r *mongoFacilityRepo) ListCourtsByFacility(ctx context.Context, facilityID string) ([]models.Court, error) {
	return r.findCourts(ctx, bson.M{"facilityId": facilityID})
}

func (r *mongoFacilityRepo) findCourts(ctx context.Context, filter bson.M) ([]models.Court, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.courts.Find(ctx, filter, opts)
	if err != nil {
		return nil, database.Classify(err)
	}
	defer cursor.Close(ctx)

	courts := []models.Court{}
	if err := cursor.All(ctx, &courts); err != nil {
		return nil, database.Classify(err)
	}
	return courts, nil
}
