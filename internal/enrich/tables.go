package enrich

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/company-enrich/internal/input"
	"github.com/sells-group/company-enrich/internal/naf"
	"github.com/sells-group/company-enrich/internal/region"
)

// NotReported is the headcount label for a missing tranche code.
const NotReported = "Non renseigné"

// HeadcountTable maps INSEE workforce tranche codes to display labels.
type HeadcountTable map[string]string

// DefaultHeadcount is the INSEE tranche_effectif_salarie nomenclature.
var DefaultHeadcount = HeadcountTable{
	"00": NotReported,
	"01": "1 ou 2 salariés",
	"02": "3 à 5 salariés",
	"03": "6 à 9 salariés",
	"11": "10 à 19 salariés",
	"12": "20 à 49 salariés",
	"21": "50 à 99 salariés",
	"22": "100 à 199 salariés",
	"31": "200 à 249 salariés",
	"32": "250 à 499 salariés",
	"41": "500 à 999 salariés",
	"42": "1000 à 1999 salariés",
	"51": "2000 à 4999 salariés",
	"52": "5000 à 9999 salariés",
	"53": "10000 salariés et plus",
	"NN": NotReported,
}

// Format returns the label for code. Unknown codes are echoed unchanged.
func (h HeadcountTable) Format(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return NotReported
	}
	if label, ok := h[code]; ok {
		return label
	}
	return code
}

// Tables holds every lookup table the enricher consults.
type Tables struct {
	Industries      naf.Table      `yaml:"industries"`
	Regions         region.Table   `yaml:"regions"`
	Headcount       HeadcountTable `yaml:"headcount"`
	PersonalDomains []string       `yaml:"personal_domains"`
	DomainSuffixes  []string       `yaml:"domain_suffixes"`
}

// DefaultTables returns the built-in tables.
func DefaultTables() Tables {
	return Tables{
		Industries:      naf.DefaultTable,
		Regions:         region.DefaultTable,
		Headcount:       DefaultHeadcount,
		PersonalDomains: input.DefaultPersonalDomains,
		DomainSuffixes:  input.DefaultDomainSuffixes,
	}
}

// LoadTables reads a YAML tables file. Each key present in the file replaces
// the corresponding default table wholesale; absent keys keep the defaults.
// An empty path returns DefaultTables.
func LoadTables(path string) (Tables, error) {
	t := DefaultTables()
	if path == "" {
		return t, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return t, eris.Wrapf(err, "enrich: read tables %s", path)
	}

	var override Tables
	if err := yaml.Unmarshal(data, &override); err != nil {
		return t, eris.Wrapf(err, "enrich: parse tables %s", path)
	}

	for div, d := range override.Industries {
		if len(div) != 2 {
			return t, eris.Errorf("enrich: industries: division %q must be two digits", div)
		}
		if d.Industry == "" {
			return t, eris.Errorf("enrich: industries: division %q has no industry", div)
		}
	}

	if override.Industries != nil {
		t.Industries = override.Industries
	}
	if override.Regions != nil {
		t.Regions = override.Regions
	}
	if override.Headcount != nil {
		t.Headcount = override.Headcount
	}
	if override.PersonalDomains != nil {
		t.PersonalDomains = override.PersonalDomains
	}
	if override.DomainSuffixes != nil {
		t.DomainSuffixes = override.DomainSuffixes
	}
	return t, nil
}
