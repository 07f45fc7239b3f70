// File: database/repository/reservation/crud.go
package reservationRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"courtbook/database"
	"courtbook/models"
)

func (r *mongoReservationRepo) Create(ctx context.Context, reservation *models.Reservation) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, reservation)
	return database.Classify(err)
}

func (r *mongoReservationRepo) MarkCancelled(ctx context.Context, id, cancelledBy string, at time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "isCancelled": false}
	update := bson.M{"$set": bson.M{
		"isCancelled": true,
		"cancelledAt": at,
		"cancelledBy": cancelledBy,
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, database.Classify(err)
	}
	return res.MatchedCount > 0, nil
}

func (r *mongoReservationRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return database.Classify(err)
	}
	if res.DeletedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *mongoReservationRepo) LockUser(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"userId": userID}
	update := bson.M{
		"$inc": bson.M{"version": 1},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	_, err := r.locks.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		err = database.Classify(err)
		// Two first-time upserts for the same user race on the unique index.
		if errors.Is(err, database.ErrDuplicateKey) {
			return fmt.Errorf("%w: %v", database.ErrTransient, err)
		}
		return err
	}
	return nil
}
