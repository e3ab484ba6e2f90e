package oracle

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrInvalidArgument matches every argument an oracle rejects.
var ErrInvalidArgument = errors.New("invalid argument")

// InvalidArgumentError carries the reason an argument was rejected.
type InvalidArgumentError struct {
	Reason string
}

func (e *InvalidArgumentError) Error() string { return e.Reason }

func (e *InvalidArgumentError) Is(target error) bool { return target == ErrInvalidArgument }

func invalidArgument(format string, args ...any) error {
	return errors.WithStack(&InvalidArgumentError{Reason: fmt.Sprintf(format, args...)})
}
