package sheet

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"

	"github.com/sells-group/company-enrich/internal/model"
)

// Format is an export file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name. An empty name means xlsx.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatXLSX, nil
	case FormatXLSX, FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", eris.Errorf("sheet: unknown export format %q", s)
	}
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatJSON:
		return "application/json"
	default:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
}

// SheetName is the worksheet holding exported results.
const SheetName = "Entreprises"

// DefaultFileName is the export file name without extension.
const DefaultFileName = "entreprises_enrichies"

// Headers are the export columns, in order.
var Headers = []string{
	"Entrée Originale",
	"Type",
	"Domaine",
	"Nom Entreprise",
	"SIREN",
	"SIRET",
	"Code NAF/APE",
	"Industrie",
	"Industrie (Libellé)",
	"Adresse Postale",
	"Ville",
	"Code Postal",
	"Région",
	"Effectif Salarié",
	"Lien Annuaire",
	"Statut",
}

// Row renders r in Headers order.
func Row(r model.EnrichmentResult) []string {
	domain := r.Domain
	if domain == "" {
		domain = "-"
	}
	return []string{
		r.OriginalInput,
		r.InputKind.Label(),
		domain,
		r.CompanyName,
		r.SIREN,
		r.SIRET,
		r.ActivityCode,
		r.Industry,
		r.ActivityLabel,
		r.Address,
		r.City,
		r.PostalCode,
		r.Region,
		r.Headcount,
		r.DirectoryURL,
		r.Status.Label(),
	}
}

// Write exports results to w in format f.
func Write(w io.Writer, f Format, results []model.EnrichmentResult) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, results)
	case FormatJSON:
		return WriteJSON(w, results)
	default:
		return WriteXLSX(w, results)
	}
}

// WriteXLSX writes one "Entreprises" sheet with a styled header row.
func WriteXLSX(w io.Writer, results []model.EnrichmentResult) error {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return eris.Wrap(err, "sheet: rename sheet")
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return eris.Wrap(err, "sheet: header style")
	}

	if err := writeXLSXRow(f, 1, Headers); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(Headers), 1)
	if err := f.SetCellStyle(SheetName, "A1", last, headerStyle); err != nil {
		return eris.Wrap(err, "sheet: apply header style")
	}

	for i, r := range results {
		if err := writeXLSXRow(f, i+2, Row(r)); err != nil {
			return err
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(Headers))
	if err := f.SetColWidth(SheetName, "A", lastCol, 22); err != nil {
		return eris.Wrap(err, "sheet: column width")
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return eris.Wrap(err, "sheet: freeze header")
	}

	if _, err := f.WriteTo(w); err != nil {
		return eris.Wrap(err, "sheet: write xlsx")
	}
	return nil
}

func writeXLSXRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return eris.Wrap(err, "sheet: cell name")
	}
	vals := make([]any, len(values))
	for i, v := range values {
		vals[i] = v
	}
	if err := f.SetSheetRow(SheetName, cell, &vals); err != nil {
		return eris.Wrapf(err, "sheet: write row %d", row)
	}
	return nil
}

// WriteCSV writes a UTF-8 CSV with a BOM so spreadsheet tools detect the
// encoding.
func WriteCSV(w io.Writer, results []model.EnrichmentResult) error {
	if _, err := io.WriteString(w, "\xef\xbb\xbf"); err != nil {
		return eris.Wrap(err, "sheet: write csv")
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Headers); err != nil {
		return eris.Wrap(err, "sheet: write csv header")
	}
	for _, r := range results {
		if err := cw.Write(Row(r)); err != nil {
			return eris.Wrap(err, "sheet: write csv row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "sheet: flush csv")
}

// ReadResultsJSON reads a results array as written by WriteJSON.
func ReadResultsJSON(r io.Reader) ([]model.EnrichmentResult, error) {
	var results []model.EnrichmentResult
	if err := json.NewDecoder(r).Decode(&results); err != nil {
		return nil, eris.Wrap(err, "sheet: read json results")
	}
	return results, nil
}

// WriteJSON writes results as an indented JSON array.
func WriteJSON(w io.Writer, results []model.EnrichmentResult) error {
	if results == nil {
		results = []model.EnrichmentResult{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return eris.Wrap(err, "sheet: write json")
	}
	return nil
}
