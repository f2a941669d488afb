package domain

// Well-known record fields. Schema assumptions about extracted records are
// confined to the validator and the feedback formatter; everything else
// treats a Record as opaque.
const (
	// FieldTableType is the model's free-text classification of a table.
	FieldTableType = "table_type"

	// FieldTotalAssets, FieldTotalLiabilities and FieldNetAssets are the
	// numeric fields required on balance-sheet extractions.
	FieldTotalAssets      = "total_assets"
	FieldTotalLiabilities = "total_liabilities"
	FieldNetAssets        = "net_assets"

	// FieldValidationStatus marks a record that passed validation.
	FieldValidationStatus = "validation_status"

	// FieldAttemptsNeeded is the 1-based attempt on which validation passed.
	FieldAttemptsNeeded = "attempts_needed"

	// FieldInputTruncated marks records whose source markup exceeded the
	// per-request ceiling and was sent truncated.
	FieldInputTruncated = "input_truncated"

	// FieldError marks a failure record.
	FieldError = "error"

	// FieldLastAttempt carries the best-effort record from the final
	// attempt of an exhausted session.
	FieldLastAttempt = "last_attempt"
)

// StatusPassed is the value of FieldValidationStatus on accepted records.
const StatusPassed = "passed"

// Record is a single extracted table: a mapping from field name to value as
// produced by the model, annotated by the session after validation.
type Record map[string]any

// Clone returns a shallow copy of the record. Annotating a clone leaves the
// original attempt untouched.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Failed reports whether the record is a failure marker rather than a
// validated extraction.
func (r Record) Failed() bool {
	_, ok := r[FieldError]
	return ok
}

// FailureRecord builds the degraded record returned when a session cannot
// produce a validated extraction. lastAttempt preserves partial work and may
// be nil when no attempt produced a record at all.
func FailureRecord(reason string, lastAttempt Record) Record {
	rec := Record{FieldError: reason}
	if lastAttempt != nil {
		rec[FieldLastAttempt] = lastAttempt
	}
	return rec
}

// FileRecord is the ordered extraction output for one document: one entry per
// significant table, in fragment order. FileRecords accumulate in memory
// across a run and are serialised exactly once at the end.
type FileRecord struct {
	// Filename is the base name of the processed document.
	Filename string `json:"filename"`

	// ExtractedTables holds one Record (or failure marker) per table.
	ExtractedTables []Record `json:"extracted_tables"`
}
