package driven

import "github.com/custodia-labs/fintab-cli/internal/core/domain"

// RecordValidator performs the deterministic consistency check over an
// extracted record. Validation is pure: no I/O, no mutation of the record,
// identical outcomes for identical input.
type RecordValidator interface {
	Validate(rec domain.Record) domain.ValidationOutcome
}
