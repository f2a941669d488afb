package domain

// TableFragment is a delimited excerpt of a filing judged to contain tabular
// financial data. Fragments are immutable once produced by a TableLocator and
// are consumed exactly once by an extraction session.
type TableFragment struct {
	// Markup is the serialised table markup as it appeared in the filing.
	Markup string

	// Index is the zero-based position of the fragment among the
	// significant tables of its document, in document order.
	Index int

	// Document is the display name of the owning document.
	Document string
}
