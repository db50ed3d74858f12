package domain

// Naming conventions shared between track authors and the host.
const (
	// SourceExt is the only file extension recognized as a track source.
	SourceExt = ".ts"

	// EntryPointName is the function every track must define at top level.
	EntryPointName = "playTrack"

	// ColourName is the optional top-level constant holding the display colour.
	ColourName = "colour"

	// DefaultRemotePath is the base path used to build request URLs when no
	// storage root is mounted. It is never assumed to exist on disk.
	DefaultRemotePath = "/tracks"
)
