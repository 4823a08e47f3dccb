package status

import (
	"errors"
	"fmt"
)

var (
	// ErrStateRead matches every StateReadError.
	ErrStateRead = errors.New("cannot read repository state")

	// ErrRender matches every RenderError.
	ErrRender = errors.New("status invariant violated")
)

// StateReadError reports that a record set could not be enumerated. It is
// never retried: a transparent retry could hide a corrupted index.
type StateReadError struct {
	// Op names the failing provider call, e.g. "list index".
	Op   string
	Path string
	Err  error
}

func (e *StateReadError) Error() string {
	msg := e.Op
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrStateRead, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrStateRead, msg)
}

func (e *StateReadError) Unwrap() error {
	return e.Err
}

// Is matches ErrStateRead.
func (e *StateReadError) Is(target error) bool {
	return target == ErrStateRead
}

// RenderError reports an internal invariant violation, such as a duplicate
// path surviving reconciliation. It indicates a bug, not environment state.
type RenderError struct {
	Reason string
	Path   string
}

func (e *RenderError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", ErrRender, e.Reason, e.Path)
	}
	return fmt.Sprintf("%s: %s", ErrRender, e.Reason)
}

// Is matches ErrRender.
func (e *RenderError) Is(target error) bool {
	return target == ErrRender
}
