/*
Package cartridge loads small third-party "track" programs and runs them in a restricted scope.

A track is a TypeScript-flavoured JavaScript file (extension .ts) that defines an async
playTrack function and, optionally, a colour constant. Tracks are read from the first
mounted storage root (a USB stick, a local directory) or, when none is present, from a
server that exposes the same files over HTTP.

# Pipeline

Every load runs the same stages and keeps nothing between calls:

  - Fetch: the SourceFetcher chosen at construction returns the raw text.
  - Clean: module syntax and light type annotations are stripped (package cleaner).
  - Execute: the cleaned text is evaluated in a fresh JavaScript runtime whose only
    free names are the injected host dependencies (packages sandbox and host).
  - Metadata: the colour constant is read from the raw text (package metadata).

# Usage

	loader, err := cartridge.New(
		cartridge.WithBaseURL("http://player.local:8080"),
		cartridge.WithLogger(logger),
	)
	if err != nil {
		log.Fatal(err)
	}

	track, err := loader.LoadTrack(ctx, "drone")
	if err != nil {
		log.Fatal(err) // *domain.LoadError
	}
	if track == nil {
		log.Println("no such track")
		return
	}
	defer track.Entry.Stop()

	handle, err := track.Entry.Play(ctx)

Listing never fails: ListTracks logs storage and transport errors and returns an empty slice.
*/
package cartridge
