// File: database/repository/facility/crud.go
package facilityRepo

import (
	"context"
	"time"

	"courtbook/database"
	"courtbook/models"

	"go.mongodb.org/mongo-driver/bson"
)

func (r *mongoFacilityRepo) CreateFacility(ctx context.Context, facility *models.Facility) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.facilities.InsertOne(ctx, facility)
	return database.Classify(err)
}

func (r *mongoFacilityRepo) UpdateFacility(ctx context.Context, facility *models.Facility) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":                facility.Name,
		"description":         facility.Description,
		"facilityType":        facility.FacilityType,
		"openingTime":         facility.OpeningTime,
		"closingTime":         facility.ClosingTime,
		"slotDurationMinutes": facility.SlotDuration,
		"updatedAt":           facility.UpdatedAt,
	}}
	res, err := r.facilities.UpdateOne(ctx, bson.M{"id": facility.ID}, update)
	if err != nil {
		return database.Classify(err)
	}
	if res.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *mongoFacilityRepo) CreateCourt(ctx context.Context, court *models.Court) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.courts.InsertOne(ctx, court)
	return database.Classify(err)
}

func (r *mongoFacilityRepo) SetCourtAvailability(ctx context.Context, courtID string, available bool) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": courtID, "isAvailable": bson.M{"$ne": available}}
	update := bson.M{"$set": bson.M{"isAvailable": available, "updatedAt": time.Now()}}
	res, err := r.courts.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, database.Classify(err)
	}
	return res.ModifiedCount > 0, nil
}
