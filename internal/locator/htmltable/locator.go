// Package htmltable locates significant tables in HTML filings.
//
// Filings routinely wrap prose in small layout tables; only tables with a
// meaningful amount of text are worth a model call. The locator walks the
// parsed tree, measures each table's stripped text, and re-serialises the
// significant ones as standalone fragments.
package htmltable

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/custodia-labs/fintab-cli/internal/core/domain"
	"github.com/custodia-labs/fintab-cli/internal/core/ports/driven"
)

// Ensure Locator implements the interface.
var _ driven.TableLocator = (*Locator)(nil)

// SignificanceThreshold is the minimum stripped-text length for a table to
// be considered a data table rather than layout decoration.
const SignificanceThreshold = 100

// Locator finds significant <table> elements in HTML markup.
type Locator struct{}

// New creates a new HTML table locator.
func New() *Locator {
	return &Locator{}
}

// Locate parses content and returns one fragment per significant table, in
// document order. Nested tables are measured independently: a small table
// inside a large one is still skipped on its own merits.
func (l *Locator) Locate(content, document string) ([]domain.TableFragment, error) {
	root, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var fragments []domain.TableFragment
	var walk func(*html.Node) error
	walk = func(n *html.Node) error {
		if n.Type == html.ElementNode && n.Data == "table" {
			if len(strippedText(n)) > SignificanceThreshold {
				var buf bytes.Buffer
				if err := html.Render(&buf, n); err != nil {
					return fmt.Errorf("render table: %w", err)
				}
				fragments = append(fragments, domain.TableFragment{
					Markup:   buf.String(),
					Index:    len(fragments),
					Document: document,
				})
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(root); err != nil {
		return nil, err
	}

	return fragments, nil
}

// strippedText collects the text content of a node with all markup removed
// and surrounding whitespace collapsed.
func strippedText(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			collect(child)
		}
	}
	collect(n)
	return strings.TrimSpace(sb.String())
}
