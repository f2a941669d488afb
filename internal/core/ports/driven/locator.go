package driven

import "github.com/custodia-labs/fintab-cli/internal/core/domain"

// TableLocator finds the significant tables in a filing's markup.
// Fragments are returned in document order; the locator is deterministic
// for identical input.
type TableLocator interface {
	// Locate parses content and returns one fragment per significant
	// table. document is the display name stamped on each fragment.
	Locate(content, document string) ([]domain.TableFragment, error)
}
