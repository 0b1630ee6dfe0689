package distributor

import "errors"

var (
	// ErrRoundNotDue indicates the scheduled round predicate is false.
	ErrRoundNotDue = errors.New("distributor: round not due")

	// ErrEmptyRange indicates an item-ID range with no items.
	ErrEmptyRange = errors.New("distributor: empty item range")

	// ErrInvalidRange indicates a range whose start exceeds its end.
	ErrInvalidRange = errors.New("distributor: invalid item range")

	// ErrNoFailures indicates a retry was requested for a result with no
	// failed transfers.
	ErrNoFailures = errors.New("distributor: no failed transfers to retry")

	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("distributor: required parameter is nil")
)
