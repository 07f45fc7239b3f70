// File: database/repository/reservation/queries.go
package reservationRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"courtbook/database"
	"courtbook/models"
)

func (r *mongoReservationRepo) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var reservation models.Reservation
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&reservation); err != nil {
		return nil, database.Classify(err)
	}
	return &reservation, nil
}

func (r *mongoReservationRepo) ListByUser(ctx context.Context, userID string) ([]models.Reservation, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

func (r *mongoReservationRepo) ListAll(ctx context.Context) ([]models.Reservation, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongoReservationRepo) find(ctx context.Context, filter bson.M) ([]models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, database.Classify(err)
	}
	defer cursor.Close(ctx)

	reservations := []models.Reservation{}
	if err := cursor.All(ctx, &reservations); err != nil {
		return nil, database.Classify(err)
	}
	return reservations, nil
}

func (r *mongoReservationRepo) ExistsActiveForSlot(ctx context.Context, slotID string) (bool, error) {
	return r.exists(ctx, bson.M{"timeSlotId": slotID, "isCancelled": false})
}

func (r *mongoReservationRepo) ExistsActiveAt(ctx context.Context, courtID, date string, start int) (bool, error) {
	return r.exists(ctx, bson.M{"courtId": courtID, "date": date, "start": start, "isCancelled": false})
}

func (r *mongoReservationRepo) ExistsActiveForUserAt(ctx context.Context, userID, date string, start int) (bool, error) {
	return r.exists(ctx, bson.M{"userId": userID, "date": date, "start": start, "isCancelled": false})
}

func (r *mongoReservationRepo) exists(ctx context.Context, filter bson.M) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, database.Classify(err)
	}
	return n > 0, nil
}

func (r *mongoReservationRepo) CountUpcomingActiveByUser(ctx context.Context, userID, today string, nowMinute int) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"userId":      userID,
		"isCancelled": false,
		"$or": []bson.M{
			{"date": bson.M{"$gt": today}},
			{"date": today, "end": bson.M{"$gt": nowMinute}},
		},
	}
	n, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, database.Classify(err)
	}
	return int(n), nil
}
