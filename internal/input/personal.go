package input

import "strings"

// DefaultPersonalDomains lists consumer mail providers. Searching the
// registry by one of these domains is meaningless.
var DefaultPersonalDomains = []string{
	"gmail.com",
	"googlemail.com",
	"outlook.com",
	"outlook.fr",
	"hotmail.com",
	"hotmail.fr",
	"yahoo.com",
	"yahoo.fr",
	"icloud.com",
	"me.com",
	"mac.com",
	"live.com",
	"live.fr",
	"msn.com",
	"aol.com",
	"protonmail.com",
	"protonmail.ch",
	"laposte.net",
	"orange.fr",
	"wanadoo.fr",
	"free.fr",
	"sfr.fr",
}

// PersonalFilter flags consumer email domains.
type PersonalFilter struct {
	domains map[string]struct{}
}

// NewPersonalFilter builds a filter over the given domains. Matching is
// case-insensitive.
func NewPersonalFilter(domains []string) *PersonalFilter {
	f := &PersonalFilter{domains: make(map[string]struct{}, len(domains))}
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			f.domains[d] = struct{}{}
		}
	}
	return f
}

// IsPersonal reports whether domain belongs to a consumer mail provider.
func (f *PersonalFilter) IsPersonal(domain string) bool {
	_, ok := f.domains[strings.ToLower(strings.TrimSpace(domain))]
	return ok
}

var defaultPersonal = NewPersonalFilter(DefaultPersonalDomains)

// IsPersonal checks domain against DefaultPersonalDomains.
func IsPersonal(domain string) bool {
	return defaultPersonal.IsPersonal(domain)
}
