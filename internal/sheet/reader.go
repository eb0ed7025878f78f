package sheet

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/sells-group/company-enrich/internal/model"
)

// ReadFile imports inputs from an .xlsx, .csv or .txt file, chosen by
// extension.
func ReadFile(path string) ([]model.CompanyInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "sheet: read %s", path)
	}
	return ReadBytes(filepath.Base(path), data)
}

// ReadBytes is ReadFile for content already in memory, such as an upload.
// name only selects the format.
func ReadBytes(name string, data []byte) ([]model.CompanyInput, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".xlsx":
		rows, err := ReadXLSX(data)
		if err != nil {
			return nil, err
		}
		return ParseRows(rows), nil
	case ".csv":
		return ParseCSV(bytes.NewReader(data))
	case ".txt", "":
		return ParseText(string(data)), nil
	default:
		return nil, eris.Errorf("sheet: unsupported file type %q", ext)
	}
}

// ReadXLSX returns every row of the first sheet as strings.
func ReadXLSX(data []byte) ([][]string, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, eris.Wrap(err, "sheet: open xlsx")
	}
	return sheetRows(f)
}

func sheetRows(f *xlsx.File) ([][]string, error) {
	if len(f.Sheets) == 0 {
		return nil, eris.New("sheet: workbook has no sheets")
	}

	var rows [][]string
	for _, row := range f.Sheets[0].Rows {
		if row == nil {
			continue
		}
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// ParseRows converts a header row plus data rows into inputs. The first
// column is the input; the company-name column, if any, supplies the
// provided name. Rows with a blank first cell are skipped.
func ParseRows(rows [][]string) []model.CompanyInput {
	if len(rows) == 0 {
		return nil
	}

	col := FindCompanyColumn(rows[0])
	var out []model.CompanyInput
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		in := strings.TrimSpace(row[0])
		if in == "" {
			continue
		}
		ci := model.CompanyInput{Input: in}
		if col >= 0 && col < len(row) {
			ci.CompanyName = strings.TrimSpace(row[col])
		}
		out = append(out, ci)
	}

	zap.L().Info("sheet: parsed rows",
		zap.Int("inputs", len(out)),
		zap.Bool("company_column", col >= 0),
	)
	return out
}

// ParseCSV reads a CSV export. The delimiter (',' or ';') is detected from
// the header line and Windows-1252 content is decoded to UTF-8.
func ParseCSV(r io.Reader) ([]model.CompanyInput, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "sheet: read csv")
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
		if err != nil {
			return nil, eris.Wrap(err, "sheet: decode csv")
		}
		data = decoded
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = detectDelimiter(data)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "sheet: parse csv")
	}
	return ParseRows(rows), nil
}

func detectDelimiter(data []byte) rune {
	line, _, _ := bytes.Cut(data, []byte("\n"))
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}

// ParseText splits pasted text into one input per non-blank line.
func ParseText(text string) []model.CompanyInput {
	var out []model.CompanyInput
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, model.CompanyInput{Input: line})
		}
	}
	return out
}
