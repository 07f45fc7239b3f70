package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// TxRunner runs fn as one atomic unit of work. Repository calls made with the
// context handed to fn join the transaction. A conflicting concurrent
// transaction surfaces as ErrTransient; callers decide whether to retry.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(txCtx context.Context) error) error
}

// MongoTxRunner runs transactions on a MongoDB replica set.
type MongoTxRunner struct {
	client *mongo.Client
}

func NewMongoTxRunner() *MongoTxRunner {
	return &MongoTxRunner{client: MongoClient}
}

func (r *MongoTxRunner) WithTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	sess, err := r.client.StartSession()
	if err != nil {
		return Classify(fmt.Errorf("could not start mongo session: %w", err))
	}
	defer sess.EndSession(ctx)

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	err = mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(txnOpts); err != nil {
			return err
		}
		if err := fn(sc); err != nil {
			_ = sc.AbortTransaction(context.Background())
			return err
		}
		return sc.CommitTransaction(sc)
	})
	return Classify(err)
}
