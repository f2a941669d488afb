package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Returns the prompt content and any error encountered.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptExtractSystem is the system prompt establishing the
	// financial-auditor persona. No format placeholders.
	PromptExtractSystem = "extract_system"

	// PromptExtractTable is the per-table extraction instruction.
	// The template expects %s (filename) and %s (table markup) placeholders.
	PromptExtractTable = "extract_table"

	// PromptAuditFailure is the corrective feedback sent after a rejected
	// attempt. The template expects a %s placeholder for the defect reason.
	PromptAuditFailure = "audit_failure"
)
