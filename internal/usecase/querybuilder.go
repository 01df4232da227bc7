package usecase

import (
	"strings"

	"github.com/labelscan/backend/internal/domain"
)

// searchQueryPrefix is prepended to every derived base string so search
// results lean towards label data instead of storefronts.
const searchQueryPrefix = "nutrition facts, ingredients for "

// maxVisibleTextTokens caps how much raw label text feeds the last-resort query
const maxVisibleTextTokens = 4

// BuildSearchQuery derives the canonical search query from the product
// attributes. Precedence, first non-empty wins:
//  1. brand + product name
//  2. barcode
//  3. first 4 visible-text tokens
//  4. empty string (query degrades to the bare prefix phrase)
//
// Pure function: deterministic, no I/O, never fails.
func BuildSearchQuery(attrs *domain.ProductAttributes) string {
	base := joinNonEmpty(attrs.Brand, attrs.ProductName)

	if base == "" {
		base = strings.TrimSpace(attrs.Barcode)
	}

	if base == "" && len(attrs.VisibleText) > 0 {
		tokens := attrs.VisibleText
		if len(tokens) > maxVisibleTextTokens {
			tokens = tokens[:maxVisibleTextTokens]
		}
		base = strings.TrimSpace(strings.Join(tokens, " "))
	}

	return strings.TrimSpace(searchQueryPrefix + base)
}

// joinNonEmpty joins the trimmed parts with single spaces, skipping empties
func joinNonEmpty(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, " ")
}
