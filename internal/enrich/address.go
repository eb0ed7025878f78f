package enrich

import (
	"strings"

	"github.com/sells-group/company-enrich/pkg/entreprises"
)

// formatAddress renders the head office as a single postal line:
// "<street>, <postal code> <city>", "<postal code> <city>" or "<street>".
func formatAddress(s entreprises.Siege) string {
	var parts []string
	for _, p := range []string{s.NumeroVoie, s.TypeVoie, s.LibelleVoie, s.ComplementAdresse} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	street := strings.Join(parts, " ")

	postal := strings.TrimSpace(s.CodePostal)
	city := strings.TrimSpace(s.City())
	if postal != "" && city != "" {
		if street != "" {
			return street + ", " + postal + " " + city
		}
		return postal + " " + city
	}
	return street
}
