package input

import (
	"sort"
	"strings"
)

// DefaultDomainSuffixes are the TLDs stripped when turning a domain into a
// company name.
var DefaultDomainSuffixes = []string{
	".com", ".fr", ".net", ".org", ".eu", ".co.uk", ".de", ".es", ".it",
	".be", ".nl", ".ch", ".io", ".ai", ".tech", ".app", ".dev", ".pro",
}

var separatorReplacer = strings.NewReplacer("-", " ", "_", " ")

// DomainNamer synthesizes a plausible company name from a web domain.
type DomainNamer struct {
	suffixes []string
}

// NewDomainNamer builds a namer over suffixes. Longer suffixes are tried
// first so compound TLDs like ".co.uk" are stripped whole.
func NewDomainNamer(suffixes []string) *DomainNamer {
	s := make([]string, 0, len(suffixes))
	for _, suf := range suffixes {
		suf = strings.ToLower(strings.TrimSpace(suf))
		if suf == "" {
			continue
		}
		if !strings.HasPrefix(suf, ".") {
			suf = "." + suf
		}
		s = append(s, suf)
	}
	sort.SliceStable(s, func(i, j int) bool { return len(s[i]) > len(s[j]) })
	return &DomainNamer{suffixes: s}
}

// NameFromDomain strips the first matching suffix and turns '-' and '_'
// into spaces. A domain with no known suffix is only separator-normalized.
func (n *DomainNamer) NameFromDomain(domain string) string {
	name := strings.ToLower(strings.TrimSpace(domain))
	for _, suf := range n.suffixes {
		if strings.HasSuffix(name, suf) {
			name = strings.TrimSuffix(name, suf)
			break
		}
	}
	return strings.TrimSpace(separatorReplacer.Replace(name))
}

var defaultNamer = NewDomainNamer(DefaultDomainSuffixes)

// NameFromDomain applies DefaultDomainSuffixes.
func NameFromDomain(domain string) string {
	return defaultNamer.NameFromDomain(domain)
}
