package htmltable

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bigCell pads a table cell past the significance threshold.
func bigCell(label string) string {
	return fmt.Sprintf("<td>%s %s</td>", label, strings.Repeat("figures ", 20))
}

// TestLocator_FindsSignificantTables tests that data tables are returned in
// document order with sequential indices
func TestLocator_FindsSignificantTables(t *testing.T) {
	content := fmt.Sprintf(`<html><body>
		<table><tr>%s</tr></table>
		<p>prose between tables</p>
		<table><tr>%s</tr></table>
	</body></html>`, bigCell("first"), bigCell("second"))

	frags, err := New().Locate(content, "filing.html")
	require.NoError(t, err)

	require.Len(t, frags, 2)
	assert.Equal(t, 0, frags[0].Index)
	assert.Equal(t, 1, frags[1].Index)
	assert.Contains(t, frags[0].Markup, "first")
	assert.Contains(t, frags[1].Markup, "second")
	assert.Equal(t, "filing.html", frags[0].Document)
}

// TestLocator_SkipsLayoutTables tests that small tables are dropped
func TestLocator_SkipsLayoutTables(t *testing.T) {
	content := fmt.Sprintf(`<html><body>
		<table><tr><td>nav</td><td>menu</td></tr></table>
		<table><tr>%s</tr></table>
	</body></html>`, bigCell("data"))

	frags, err := New().Locate(content, "filing.html")
	require.NoError(t, err)

	require.Len(t, frags, 1)
	assert.Contains(t, frags[0].Markup, "data")
	assert.Equal(t, 0, frags[0].Index)
}

// TestLocator_ThresholdBoundary tests the exact significance cutoff
func TestLocator_ThresholdBoundary(t *testing.T) {
	at := fmt.Sprintf("<table><tr><td>%s</td></tr></table>", strings.Repeat("x", SignificanceThreshold))
	over := fmt.Sprintf("<table><tr><td>%s</td></tr></table>", strings.Repeat("x", SignificanceThreshold+1))

	frags, err := New().Locate(at, "f")
	require.NoError(t, err)
	assert.Empty(t, frags, "text length equal to the threshold is not significant")

	frags, err = New().Locate(over, "f")
	require.NoError(t, err)
	assert.Len(t, frags, 1)
}

// TestLocator_MeasuresStrippedText tests that markup does not count towards
// significance
func TestLocator_MeasuresStrippedText(t *testing.T) {
	// Lots of attributes and tags, almost no text.
	content := `<table style="width:100%" class="very-long-class-name-for-layout-purposes">
		<tr class="row"><td class="cell" colspan="4" style="padding:10px">hi</td></tr>
	</table>`

	frags, err := New().Locate(content, "f")
	require.NoError(t, err)
	assert.Empty(t, frags)
}

// TestLocator_NestedTables tests that nested tables are measured
// independently
func TestLocator_NestedTables(t *testing.T) {
	content := fmt.Sprintf(`<table><tr><td>
		<table><tr>%s</tr></table>
	</td><td>%s</td></tr></table>`, bigCell("inner"), bigCell("outer"))

	frags, err := New().Locate(content, "f")
	require.NoError(t, err)

	// Outer first (document order), then the nested one.
	require.Len(t, frags, 2)
	assert.Contains(t, frags[0].Markup, "outer")
	assert.Contains(t, frags[1].Markup, "inner")
}

// TestLocator_Deterministic tests that identical input yields identical
// fragments
func TestLocator_Deterministic(t *testing.T) {
	content := fmt.Sprintf("<table><tr>%s</tr></table>", bigCell("stable"))

	first, err := New().Locate(content, "f")
	require.NoError(t, err)
	second, err := New().Locate(content, "f")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// TestLocator_NoTables tests content without any tables
func TestLocator_NoTables(t *testing.T) {
	frags, err := New().Locate("<html><body><p>just prose</p></body></html>", "f")
	require.NoError(t, err)
	assert.Empty(t, frags)
}

// TestLocator_MalformedMarkup tests that sloppy real-world markup still
// parses (the HTML parser is lenient by design)
func TestLocator_MalformedMarkup(t *testing.T) {
	content := fmt.Sprintf("<table><tr>%s", bigCell("unclosed"))

	frags, err := New().Locate(content, "f")
	require.NoError(t, err)
	assert.Len(t, frags, 1)
}
