// File: database/repository/timeslot/queries.go
package timeslotRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"courtbook/database"
	"courtbook/models"
)

func (r *mongoTimeSlotRepo) GetByID(ctx context.Context, id string) (*models.TimeSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var slot models.TimeSlot
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&slot); err != nil {
		return nil, database.Classify(err)
	}
	return &slot, nil
}

func (r *mongoTimeSlotRepo) GetByCourtAndDate(ctx context.Context, courtID, date string) ([]models.TimeSlot, error) {
	return r.find(ctx, bson.M{"courtId": courtID, "date": date})
}

func (r *mongoTimeSlotRepo) ListByDate(ctx context.Context, date string) ([]models.TimeSlot, error) {
	return r.find(ctx, bson.M{"date": date})
}

func (r *mongoTimeSlotRepo) find(ctx context.Context, filter bson.M) ([]models.TimeSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "courtId", Value: 1}, {Key: "start", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, database.Classify(err)
	}
	defer cursor.Close(ctx)

	slots := []models.TimeSlot{}
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, database.Classify(err)
	}
	return slots, nil
}

func (r *mongoTimeSlotRepo) HasUpcomingAvailable(ctx context.Context, courtID, today string, nowMinute int) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"courtId":     courtID,
		"isAvailable": true,
		"$or": []bson.M{
			{"date": bson.M{"$gt": today}},
			{"date": today, "end": bson.M{"$gt": nowMinute}},
		},
	}
	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, database.Classify(err)
	}
	return n > 0, nil
}
