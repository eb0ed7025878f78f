// Package input classifies raw user entries and derives registry search terms.
package input

import (
	"regexp"
	"strings"

	"github.com/sells-group/company-enrich/internal/model"
)

// emailPattern matches local-part@domain where the domain holds at least one dot.
var emailPattern = regexp.MustCompile(`^[^\s@]+@([^\s@]+\.[^\s@]+)$`)

// Classification is the derived view of a raw entry.
type Classification struct {
	Kind          model.InputKind
	SearchTerm    string
	OriginalInput string
}

// IsEmail reports whether s looks like an email address.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ExtractDomain returns the lower-cased domain of an email, or "" when s is
// not an email.
func ExtractDomain(email string) string {
	m := emailPattern.FindStringSubmatch(email)
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}

// Classify decides whether raw is an email or a company name. Anything that
// is not an email is a company name.
func Classify(raw string) Classification {
	trimmed := strings.TrimSpace(raw)

	if IsEmail(trimmed) {
		term := ExtractDomain(trimmed)
		if term == "" {
			term = trimmed
		}
		return Classification{
			Kind:          model.InputKindEmail,
			SearchTerm:    term,
			OriginalInput: trimmed,
		}
	}

	return Classification{
		Kind:          model.InputKindCompanyName,
		SearchTerm:    trimmed,
		OriginalInput: trimmed,
	}
}
