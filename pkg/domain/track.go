package domain

import (
	"context"
	"errors"
	"strings"
)

// EntryPoint is a callable handle onto a track's sandboxed playTrack function.
type EntryPoint interface {
	// Play invokes the entry function, waits for the promise it returns to settle
	// and yields the exported audio handle.
	Play(ctx context.Context) (any, error)

	// Stop cancels any callbacks the track scheduled and releases the scope.
	Stop()
}

// Track is the record handed to the caller after a successful load.
// The loader keeps no reference to it.
type Track struct {
	Name      string     `json:"name"`
	Colour    string     `json:"colour,omitempty"`
	HasColour bool       `json:"-"`
	Entry     EntryPoint `json:"-"`
}

// SourceReport is a non-executing view of a track source.
type SourceReport struct {
	Name    string `json:"name"`
	Raw     string `json:"raw"`
	Cleaned string `json:"cleaned"`
	Colour  string `json:"colour,omitempty"`
}

// FileName returns the storage file name for a track, appending SourceExt when missing.
func FileName(name string) string {
	if strings.HasSuffix(name, SourceExt) {
		return name
	}
	return name + SourceExt
}

// TrackName strips SourceExt from a file name.
func TrackName(file string) string {
	return strings.TrimSuffix(file, SourceExt)
}

// IsSource reports whether a file name carries the recognized source extension.
func IsSource(file string) bool {
	return strings.HasSuffix(file, SourceExt) && len(file) > len(SourceExt)
}

// FilterSources keeps only recognized source file names, preserving order.
func FilterSources(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if IsSource(n) {
			out = append(out, n)
		}
	}
	return out
}

// Outcome maps an error to a short label used by logs and metrics.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrTransport):
		return "transport_error"
	case errors.Is(err, ErrEntryPointMissing):
		return "entry_point_missing"
	case errors.Is(err, ErrExecution):
		return "execution_error"
	case errors.Is(err, ErrStorageUnavailable):
		return "storage_unavailable"
	default:
		return "error"
	}
}
