package database

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// WithTransaction runs fn inside a MongoDB multi-document transaction.
// Repository calls made with the callback context join the transaction.
func WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := MongoClient.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// IsUnavailable reports whether err indicates the store could not be
// reached within the bounded per-call timeout.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return true
	}
	return errors.Is(err, mongo.ErrClientDisconnected)
}
