// Package sheet imports company inputs from spreadsheets and pasted text and
// exports enrichment results.
package sheet

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CompanyColumnSynonyms are header names recognized as a company-name column,
// in priority order.
var CompanyColumnSynonyms = []string{
	"company name",
	"companyname",
	"company",
	"entreprise",
	"nom entreprise",
	"nom_entreprise",
	"societe",
	"société",
	"organization",
	"organisation",
}

// fold lower-cases s, trims it and strips diacritics.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// FindCompanyColumn returns the index of the company-name column in header,
// or -1. Synonyms are tried in order; a header matches when it equals or
// contains the synonym. The first column holds the input and is never
// chosen.
func FindCompanyColumn(header []string) int {
	folded := make([]string, len(header))
	for i, h := range header {
		folded[i] = fold(h)
	}

	for _, syn := range CompanyColumnSynonyms {
		syn = fold(syn)
		for i := 1; i < len(folded); i++ {
			if folded[i] == syn || strings.Contains(folded[i], syn) {
				return i
			}
		}
	}
	return -1
}
