/*
Package domain contains the core models of the Cartridge track pipeline.

It defines what a loaded track looks like to the host, the error taxonomy shared by
every stage of the pipeline, and the naming conventions that form the contract between
authored track sources and the executor. This package is kept free of I/O and of the
scripting engine, following Hexagonal Architecture principles.

# Key Entities

  - Track: The result of a successful load (Name, optional Colour, EntryPoint).
  - EntryPoint: A callable handle onto the sandboxed playTrack function.
  - SourceReport: A non-executing view of a track source (raw, cleaned, metadata).
  - LifecycleHooks: Callbacks fired around fetch, execution and load completion.
*/
package domain
