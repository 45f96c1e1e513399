// Package naming normalizes person names entered by school staff.
// Records arrive from hurried data entry: stray whitespace, ALL CAPS,
// all lowercase. Normalization keeps stored names and generated
// documents consistent.
package naming

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalizer cleans up display names.
type Normalizer interface {
	// DisplayName trims and collapses whitespace, and title-cases names
	// typed in a single case. Mixed-case input is preserved as typed so
	// deliberate capitalization (e.g. "van der Berg") survives.
	DisplayName(raw string) string
}

type normalizer struct {
	caser cases.Caser
}

// NewNormalizer creates a Normalizer with the given language's casing
// rules.
func NewNormalizer(tag language.Tag) Normalizer {
	return &normalizer{caser: cases.Title(tag)}
}

func (n *normalizer) DisplayName(raw string) string {
	name := strings.Join(strings.Fields(raw), " ")
	if name == "" {
		return ""
	}

	if name == strings.ToLower(name) || name == strings.ToUpper(name) {
		return n.caser.String(strings.ToLower(name))
	}
	return name
}
