package errors

import "errors"

var (
	// ErrDuplicateEvent marks a fingerprint that is already recorded. It is
	// the success path of the idempotency gate, not a failure.
	ErrDuplicateEvent = errors.New("webhook event already recorded")

	ErrInvalidPayload = errors.New("webhook payload is not valid JSON")
)
