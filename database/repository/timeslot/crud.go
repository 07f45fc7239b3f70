// File: database/repository/timeslot/crud.go
package timeslotRepo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"courtbook/database"
	"courtbook/models"
)

func (r *mongoTimeSlotRepo) Upsert(ctx context.Context, slot models.TimeSlot) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"courtId": slot.CourtID, "date": slot.Date, "start": slot.Start}
	update := bson.M{"$setOnInsert": slot}
	res, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		err = database.Classify(err)
		// A concurrent generator won the insert.
		if errors.Is(err, database.ErrDuplicateKey) {
			return false, nil
		}
		return false, err
	}
	return res.UpsertedCount > 0, nil
}

func (r *mongoTimeSlotRepo) SetAvailability(ctx context.Context, id string, from, to bool) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "isAvailable": from}
	update := bson.M{"$set": bson.M{"isAvailable": to, "updatedAt": time.Now()}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, database.Classify(err)
	}
	return res.MatchedCount > 0, nil
}

func (r *mongoTimeSlotRepo) DeleteElapsed(ctx context.Context, today string, nowMinute int) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"$or": []bson.M{
		{"date": bson.M{"$lt": today}},
		{"date": today, "end": bson.M{"$lte": nowMinute}},
	}}
	res, err := r.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, database.Classify(err)
	}
	return res.DeletedCount, nil
}
