// Package domain defines the core business entities for Fintab.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - TableFragment: A significant table located in a filing
//   - Record: An extracted table as field/value pairs
//   - Conversation: The immutable message history driving the model
//   - ValidationOutcome: The verdict of a deterministic consistency check
//   - FileRecord: Ordered per-document extraction output
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
