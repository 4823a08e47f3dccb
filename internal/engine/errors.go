package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrArgument matches every ArgumentError.
	ErrArgument = errors.New("invalid arguments")

	// ErrNotInRepo indicates the directory is not in a git repository.
	ErrNotInRepo = errors.New("not in a git repository")
)

// ArgumentError reports an invalid flag or flag combination. It is raised
// before any repository state is read.
type ArgumentError struct {
	Flag   string
	Reason string
}

func (e *ArgumentError) Error() string {
	if e.Flag == "" {
		return fmt.Sprintf("%s: %s", ErrArgument, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrArgument, e.Flag, e.Reason)
}

// Is matches ErrArgument.
func (e *ArgumentError) Is(target error) bool {
	return target == ErrArgument
}
