package async

import "errors"

var (
	// ErrTimeout is returned by AwaitWithTimeout when the computation does
	// not complete within the given duration.
	ErrTimeout = errors.New("async operation timed out")

	// ErrNoFutures is returned by WaitAny when called with no futures.
	ErrNoFutures = errors.New("no futures provided")
)
