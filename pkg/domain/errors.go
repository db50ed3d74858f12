package domain

import (
	"errors"
	"fmt"
)

// ErrStorageUnavailable is returned when no candidate storage root exists.
var ErrStorageUnavailable = errors.New("storage unavailable")

// ErrNotFound is returned when a named track is absent at the resolved root or endpoint.
var ErrNotFound = errors.New("track not found")

// ErrTransport is returned when a fetch fails for a reason other than absence.
var ErrTransport = errors.New("transport error")

// ErrEntryPointMissing is returned when evaluated source does not define the entry function.
var ErrEntryPointMissing = errors.New("entry point missing")

// ErrExecution is returned when evaluating a track source throws.
var ErrExecution = errors.New("execution error")

// TransportError describes a failed retrieval. Status is zero when the request
// never produced a response.
type TransportError struct {
	File   string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.File, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.File, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// EntryPointMissingError names the file and the identifier that was expected.
type EntryPointMissingError struct {
	File string
	Name string
}

func (e *EntryPointMissingError) Error() string {
	return fmt.Sprintf("%s: %s is not defined", e.File, e.Name)
}

func (e *EntryPointMissingError) Is(target error) bool { return target == ErrEntryPointMissing }

// ExecutionError wraps whatever the evaluator raised while running a track source.
type ExecutionError struct {
	File string
	Err  error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s: evaluation failed: %v", e.File, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

func (e *ExecutionError) Is(target error) bool { return target == ErrExecution }

// LoadError labels a pipeline failure with the track it belongs to.
type LoadError struct {
	Track string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load track %q: %v", e.Track, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
