package cartridge

// Version is the release of the library and CLI, overridden at build time via -ldflags.
var Version = "dev"
