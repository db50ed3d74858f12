package validator

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/cartridge"
	"github.com/aretw0/cartridge/pkg/adapters/memory"
)

func newLoader(t *testing.T, sources map[string]string) *cartridge.Loader {
	t.Helper()
	loader, err := cartridge.New(cartridge.WithFetcher(memory.NewFetcher(sources)))
	if err != nil {
		t.Fatalf("loader init failed: %v", err)
	}
	return loader
}

func TestValidateTracks(t *testing.T) {
	ctx := context.Background()

	// 1. Scenario A: every track is valid
	loader := newLoader(t, map[string]string{
		"a": `export const colour = "red"; export function playTrack() {}`,
		"b": `export const colour = "blue"; export async function playTrack() {}`,
	})
	if err := ValidateTracks(ctx, loader); err != nil {
		t.Errorf("Scenario A (Valid) failed: %v", err)
	}

	// 2. Scenario B: one broken, one without entry point, one without colour
	loader = newLoader(t, map[string]string{
		"ok":       `export const colour = "red"; export function playTrack() {}`,
		"broken":   `export function playTrack( {`,
		"noentry":  `export const colour = "red";`,
		"nocolour": `export function playTrack() {}`,
	})
	err := ValidateTracks(ctx, loader)
	if err == nil {
		t.Fatal("Scenario B (Broken) expected error, got nil")
	}
	msg := err.Error()
	for _, want := range []string{
		"found 3 errors",
		"broken.ts: execution_error",
		"noentry.ts: entry_point_missing",
		"nocolour.ts: no colour constant",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in error, got:\n%s", want, msg)
		}
	}

	// 3. Scenario C: empty library
	if err := ValidateTracks(ctx, newLoader(t, map[string]string{})); err == nil {
		t.Error("Scenario C (Empty) expected error, got nil")
	}
}
