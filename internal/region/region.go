// Package region derives a French administrative region from a postal code.
package region

import (
	"strings"
)

// Table maps a postal code prefix (two or three characters) to a region name.
type Table map[string]string

// Resolver looks up regions by postal code prefix.
type Resolver struct {
	table Table
}

// NewResolver wraps table. A nil table falls back to DefaultTable.
func NewResolver(table Table) *Resolver {
	if table == nil {
		table = DefaultTable
	}
	return &Resolver{table: table}
}

// Region returns the region for postalCode, or "" when it is empty or no
// prefix matches. The three-character prefix is tried before the two-character
// department prefix.
func (r *Resolver) Region(postalCode string) string {
	code := normalize(postalCode)
	if len(code) < 2 {
		return ""
	}
	if len(code) >= 3 {
		if name, ok := r.table[code[:3]]; ok {
			return name
		}
	}
	return r.table[code[:2]]
}

// normalize trims the code and restores the leading zero spreadsheets drop
// from codes like "01000".
func normalize(postalCode string) string {
	code := strings.TrimSpace(postalCode)
	if len(code) == 4 && isDigits(code) {
		code = "0" + code
	}
	return code
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

var defaultResolver = NewResolver(DefaultTable)

// FromPostalCode uses DefaultTable.
func FromPostalCode(postalCode string) string {
	return defaultResolver.Region(postalCode)
}
