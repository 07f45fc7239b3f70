package database

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// Store errors shared by every repository implementation.
var (
	ErrNotFound     = errors.New("document not found")
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrTransient marks a transaction or serialization conflict. The whole
	// operation is safe to retry from scratch.
	ErrTransient = errors.New("transient store error")
)

const (
	labelTransientTransaction = "TransientTransactionError"
	labelUnknownCommitResult  = "UnknownTransactionCommitResult"
	codeWriteConflict         = 112
)

// Classify maps driver errors onto the store errors above, keeping the
// original error in the chain.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicateKey) || errors.Is(err, ErrTransient) {
		return err
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	if IsTransient(err) {
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", ErrDuplicateKey, err)
	}
	return err
}

// IsTransient reports whether err carries a retryable transaction label or
// is a write conflict.
func IsTransient(err error) bool {
	if errors.Is(err, ErrTransient) {
		return true
	}
	var se mongo.ServerError
	if errors.As(err, &se) {
		if se.HasErrorLabel(labelTransientTransaction) || se.HasErrorLabel(labelUnknownCommitResult) {
			return true
		}
		if se.HasErrorCode(codeWriteConflict) {
			return true
		}
	}
	return mongo.IsNetworkError(err)
}
