package cartridge_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/cartridge"
	"github.com/aretw0/cartridge/pkg/adapters/memory"
)

// ExampleLoader_LoadTrack loads a track from an in-memory fetcher and plays it.
// This is useful for tests and embedded scenarios that have no storage device.
func ExampleLoader_LoadTrack() {
	fetcher := memory.NewFetcher(map[string]string{
		"pulse": `import * as Tone from 'tone';

export const colour = "#00ffaa";

export async function playTrack(): Promise<Tone.Analyser> {
  await Tone.start();
  return new Tone.Analyser("waveform", 128);
}`,
	})

	loader, err := cartridge.New(cartridge.WithFetcher(fetcher))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	fmt.Println(loader.ListTracks(ctx))

	track, err := loader.LoadTrack(ctx, "pulse")
	if err != nil {
		log.Fatal(err)
	}
	defer track.Entry.Stop()

	handle, err := track.Entry.Play(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(track.Name, track.Colour, handle.(map[string]any)["kind"])

	// Output:
	// [pulse.ts]
	// pulse #00ffaa Analyser
}
