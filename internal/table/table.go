// internal/table/table.go
// Package table loads delimited text tables and Excel workbooks into a
// header-addressed, string-valued grid.
package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/cardiacqa/eqareport/internal/logging"
)

// Supported encodings. EncodingAuto reads UTF-8 (a BOM is stripped) and falls
// back to EUC-KR when the bytes are not valid UTF-8.
const (
	EncodingAuto  = "auto"
	EncodingUTF8  = "utf-8"
	EncodingUTF8B = "utf-8-sig"
	EncodingEUCKR = "euc-kr"
	EncodingCP949 = "cp949"
)

// ErrEmpty is returned when a table has no header row.
var ErrEmpty = errors.New("table has no header row")

// missingTokens are cell values treated as "no value".
var missingTokens = map[string]bool{
	"nan":  true,
	"na":   true,
	"n/a":  true,
	"none": true,
	"null": true,
	"-":    true,
}

// Options control how a table is read.
type Options struct {
	Encoding string
	// Sheet selects a workbook sheet; empty means the first sheet.
	Sheet string
	// Comma overrides delimiter detection for text tables.
	Comma rune
}

// Table is a header row plus normalised data rows. Every row has exactly
// len(Header) cells.
type Table struct {
	Source string
	Header []string
	Rows   [][]string
	index  map[string]int
}

// Load reads a table from path. The format is chosen by file extension:
// .xlsx/.xlsm are workbooks, everything else is delimited text.
func Load(path string, opts Options) (*Table, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".xlsx", ".xlsm":
		return loadWorkbook(path, opts)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read table %s: %w", path, err)
	}
	if opts.Comma == 0 && ext == ".tsv" {
		opts.Comma = '\t'
	}
	t, err := Parse(data, opts)
	if err != nil {
		return nil, fmt.Errorf("unable to parse table %s: %w", path, err)
	}
	t.Source = path
	logging.Debug("loaded %s: %d rows, %d columns", path, t.Len(), len(t.Header))
	return t, nil
}

// Parse decodes delimited text into a Table.
func Parse(data []byte, opts Options) (*Table, error) {
	text, err := decode(data, opts.Encoding)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmpty
	}

	comma := opts.Comma
	if comma == 0 {
		comma = sniffDelimiter(text)
	}

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("unable to read records: %w", err)
	}
	return FromRecords(records)
}

// FromRecords builds a Table from raw records; the first non-blank record is
// the header.
func FromRecords(records [][]string) (*Table, error) {
	start := -1
	for i, rec := range records {
		if !blankRecord(rec) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, ErrEmpty
	}

	header := make([]string, len(records[start]))
	for i, h := range records[start] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	t := &Table{Header: header, index: make(map[string]int, len(header))}
	for i, h := range header {
		if h == "" {
			continue
		}
		if _, dup := t.index[h]; !dup {
			t.index[h] = i
		}
	}

	for n, rec := range records[start+1:] {
		if blankRecord(rec) {
			continue
		}
		if len(rec) > len(header) {
			logging.Warn("row %d has %d cells, header has %d; extra cells dropped", start+n+2, len(rec), len(header))
		}
		row := make([]string, len(header))
		for i := range row {
			if i < len(rec) {
				row[i] = Normalize(rec[i])
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Normalize trims a cell and maps missing-value tokens to "".
func Normalize(cell string) string {
	s := strings.TrimSpace(cell)
	if missingTokens[strings.ToLower(s)] {
		return ""
	}
	return s
}

// IsMissing reports whether a cell is empty after normalisation.
func IsMissing(cell string) bool {
	return Normalize(cell) == ""
}

// Index returns the position of a column, or -1.
func (t *Table) Index(col string) int {
	if i, ok := t.index[col]; ok {
		return i
	}
	return -1
}

// Has reports whether the header contains col.
func (t *Table) Has(col string) bool {
	return t.Index(col) >= 0
}

// Get returns the cell in row for col, or "" when the column is absent.
func (t *Table) Get(row []string, col string) string {
	i := t.Index(col)
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// Require returns an error naming every missing column.
func (t *Table) Require(cols ...string) error {
	var missing []string
	for _, c := range cols {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	name := t.Source
	if name == "" {
		name = "table"
	}
	return fmt.Errorf("%s is missing required columns: %s", name, strings.Join(missing, ", "))
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

func loadWorkbook(path string, opts Options) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q of %s: %w", sheet, path, err)
	}
	t, err := FromRecords(rows)
	if err != nil {
		return nil, fmt.Errorf("unable to parse workbook %s: %w", path, err)
	}
	t.Source = path
	return t, nil
}

func decode(data []byte, enc string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(enc)) {
	case "", EncodingAuto:
		stripped := bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
		if utf8.Valid(stripped) {
			return string(stripped), nil
		}
		return decodeWith(korean.EUCKR, data)
	case EncodingUTF8, "utf8", EncodingUTF8B:
		return decodeWith(unicode.UTF8, data)
	case EncodingEUCKR, EncodingCP949, "euckr":
		return decodeWith(korean.EUCKR, data)
	default:
		return "", fmt.Errorf("unsupported encoding %q", enc)
	}
}

func decodeWith(e encoding.Encoding, data []byte) (string, error) {
	dec := unicode.BOMOverride(e.NewDecoder())
	out, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), dec))
	if err != nil {
		return "", fmt.Errorf("unable to decode input: %w", err)
	}
	return string(out), nil
}

// sniffDelimiter picks tab when the header line has tabs but no commas.
func sniffDelimiter(text string) rune {
	line := text
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		line = text[:i]
	}
	if strings.Contains(line, "\t") && !strings.Contains(line, ",") {
		return '\t'
	}
	return ','
}

func blankRecord(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
