package errors

import "errors"

var (
	ErrNotFound = errors.New("reservation not found")

	ErrInvalidDateRange = errors.New("'to' date must not be before 'from' date")

	ErrInvalidMonth = errors.New("month must be in YYYY-MM format")
)
