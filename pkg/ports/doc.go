/*
Package ports defines the driven ports (interfaces) for the Cartridge loader.

These interfaces decouple the track pipeline from storage implementations, allowing
the loader to work with a local mount, a remote endpoint, Redis or memory without
probing its environment at runtime.

# Key Interfaces

  - SourceFetcher: Responsible for fetching raw track sources and listing them.
  - Watchable: Optional capability of fetchers that can signal storage changes.
*/
package ports
