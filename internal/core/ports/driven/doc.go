// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ModelGateway: Submits a conversation to a language model
//   - TableLocator: Finds significant tables in filing markup
//   - RecordValidator: Deterministic consistency check over extractions
//   - ResultSink: Final output persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - CheckpointStore: Incremental run journal. Without it, interrupted runs
//     start over.
//   - PromptStore: User-editable prompt templates. Without it, embedded
//     defaults are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or locator package
package driven
