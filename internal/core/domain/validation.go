package domain

// ValidationOutcome is the result of a deterministic consistency check over
// an extracted record. Outcomes carry no identity; they are computed fresh
// on every attempt.
type ValidationOutcome struct {
	// Valid is true when the record is internally consistent.
	Valid bool

	// Reason is the human-readable defect description when invalid.
	// It is worded for direct reuse as corrective model feedback.
	Reason string
}

// Valid returns a passing outcome.
func Valid() ValidationOutcome { return ValidationOutcome{Valid: true} }

// Invalid returns a failing outcome with the given defect description.
func Invalid(reason string) ValidationOutcome { return ValidationOutcome{Reason: reason} }
