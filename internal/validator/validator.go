package validator

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/cartridge/pkg/domain"
)

// Loader is the part of the track loader the validator exercises.
type Loader interface {
	ListTracks(ctx context.Context) []string
	LoadTrack(ctx context.Context, name string) (*domain.Track, error)
}

// ValidateTracks loads every listed track once and reports the ones that fail.
// Tracks without a colour constant are reported too, since players fall back to a default.
// Loaded tracks are stopped immediately; playTrack is never invoked.
func ValidateTracks(ctx context.Context, loader Loader) error {
	files := loader.ListTracks(ctx)
	if len(files) == 0 {
		return fmt.Errorf("no tracks found")
	}

	var errors []string
	for _, file := range files {
		track, err := loader.LoadTrack(ctx, file)
		if err != nil {
			errors = append(errors, fmt.Sprintf("%s: %s", file, domain.Outcome(err)))
			continue
		}
		if track == nil {
			errors = append(errors, fmt.Sprintf("%s: disappeared while validating", file))
			continue
		}
		track.Entry.Stop()

		if !track.HasColour {
			errors = append(errors, fmt.Sprintf("%s: no %s constant", file, domain.ColourName))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}

	return nil
}
