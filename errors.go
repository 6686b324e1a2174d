package tagcache

import (
	"errors"
	"fmt"
)

// Configuration errors returned by New. They are permanent.
var (
	ErrTagStoreRequired    = errors.New("tagcache: tag store is required")
	ErrEntityStoreRequired = errors.New("tagcache: entity store is required")
	ErrCodecRequired       = errors.New("tagcache: codec is required")
	ErrSharedProvider      = errors.New("tagcache: tag store and entity store share one provider")
	ErrBadNamespace        = errors.New("tagcache: namespace must not contain ':'")
)

// Input errors.
var (
	ErrEmptyTag   = errors.New("tagcache: empty tag name")
	ErrTagTooLong = errors.New("tagcache: tag name longer than 65535 bytes")
	ErrNilTag     = errors.New("tagcache: nil taggable")
)

// StoreError reports a failed backend call. Err is the backend error as the
// store returned it; errors.Is and errors.As see through StoreError.
type StoreError struct {
	Op  string // e.g. "tag.get", "entity.set", "entity.clear"
	Key string // storage key; empty for namespace-wide ops
	Err error
}

func (e *StoreError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("tagcache: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("tagcache: %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func storeErr(op, key string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Key: key, Err: err}
}
