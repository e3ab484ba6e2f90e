package engine

import "github.com/pkg/errors"

var (
	ErrNoAccount   = errors.New("account not found")
	ErrNoComponent = errors.New("component not found")
	ErrNoMethod    = errors.New("method not found")

	// Authorization failures
	ErrBadSignature   = errors.New("signature does not match the account key")
	ErrPastSequence   = errors.New("sequence already used")
	ErrFutureSequence = errors.New("sequence not reached yet")
)
