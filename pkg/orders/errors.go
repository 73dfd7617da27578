package orders

import (
	"errors"
	"fmt"
)

// ErrMissingProductName is a local precondition failure: submission is never
// attempted without a product name, so no network call is made.
var ErrMissingProductName = errors.New("missing product name")

// RejectedError means the backend answered with a non-success status. The
// detail message comes from the backend error document when available.
type RejectedError struct {
	StatusCode int
	Detail     string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("order submission rejected (status %d): %s", e.StatusCode, e.Detail)
}

// UnreachableError means the request never got an HTTP answer at all.
// Same user-visible treatment as RejectedError but distinguishable in logs.
type UnreachableError struct {
	Err error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("order backend unreachable: %v", e.Err)
}

func (e *UnreachableError) Unwrap() error {
	return e.Err
}
