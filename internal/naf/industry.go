// Package naf maps French NAF/APE activity codes to industry categories.
package naf

import "strings"

// Industry is a closed set of industry categories.
type Industry string

const (
	Agriculture          Industry = "Agriculture / Livestock / Seafood"
	Banking              Industry = "Banking"
	Chemicals            Industry = "Chemicals"
	Media                Industry = "Communication / Media & Entertainment / Telecom"
	Construction         Industry = "Construction"
	Consulting           Industry = "Consulting / IT Services"
	CPG                  Industry = "CPG (Consumer Packaged Goods)"
	Education            Industry = "Education"
	Energy               Industry = "Energy / Utilities"
	FinanceRealEstate    Industry = "Finance / Real Estate"
	FoodBeverages        Industry = "Food / Beverages"
	Healthcare           Industry = "Healthcare / Medical Services"
	HotelsRestaurants    Industry = "Hotels / Restaurants"
	Insurance            Industry = "Insurance / Mutual Health Insurance"
	Luxury               Industry = "Luxury"
	Manufacturing        Industry = "Manufacturing / Industry"
	NotForProfit         Industry = "Not For Profit"
	Pharmaceutics        Industry = "Pharmaceutics"
	PublicAdministration Industry = "Public administration & government"
	Retail               Industry = "Retail"
	TechSoftware         Industry = "Tech / Software"
	Transportation       Industry = "Transportation, Logistics & Storage"
	ToBeQualified        Industry = "To be qualified"
)

// Industries lists every category, ToBeQualified last.
var Industries = []Industry{
	Agriculture, Banking, Chemicals, Media, Construction, Consulting, CPG,
	Education, Energy, FinanceRealEstate, FoodBeverages, Healthcare,
	HotelsRestaurants, Insurance, Luxury, Manufacturing, NotForProfit,
	Pharmaceutics, PublicAdministration, Retail, TechSoftware, Transportation,
	ToBeQualified,
}

// Division is one entry of the division table.
type Division struct {
	Industry    Industry `yaml:"industry" json:"industry"`
	Description string   `yaml:"description" json:"description"`
}

// Table maps a two-digit NAF division to its category.
type Table map[string]Division

// Classifier resolves activity codes against a division table.
type Classifier struct {
	table Table
}

// NewClassifier wraps table. A nil table falls back to DefaultTable.
func NewClassifier(table Table) *Classifier {
	if table == nil {
		table = DefaultTable
	}
	return &Classifier{table: table}
}

// division normalizes code ("62.01Z" -> "62") and reports whether it is usable.
func division(code string) (string, bool) {
	clean := strings.ReplaceAll(strings.TrimSpace(code), ".", "")
	if len(clean) < 2 {
		return "", false
	}
	return clean[:2], true
}

// MapActivityCode returns the industry for code, or ToBeQualified when the
// code is blank or its division is not in the table.
func (c *Classifier) MapActivityCode(code string) Industry {
	div, ok := division(code)
	if !ok {
		return ToBeQualified
	}
	d, ok := c.table[div]
	if !ok {
		return ToBeQualified
	}
	return d.Industry
}

// Description returns the French label of the code's division, or "".
func (c *Classifier) Description(code string) string {
	div, ok := division(code)
	if !ok {
		return ""
	}
	return c.table[div].Description
}

var defaultClassifier = NewClassifier(DefaultTable)

// MapActivityCode uses DefaultTable.
func MapActivityCode(code string) Industry {
	return defaultClassifier.MapActivityCode(code)
}
