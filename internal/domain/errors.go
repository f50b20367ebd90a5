package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrStoreUnavailable wraps connection and query faults of the document store.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrMissingUserContext means the chat turn carried no account ID.
	ErrMissingUserContext = errors.New("missing user context")
	// ErrUserNotFound means no user record matches the account ID.
	ErrUserNotFound = errors.New("user not found")
	// ErrGenerativeService wraps faults of the generative-text call.
	ErrGenerativeService = errors.New("generative service fault")
)

// DeliveryError is a mail transport failure for a single recipient.
type DeliveryError struct {
	To  string
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver to %s: %v", e.To, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
