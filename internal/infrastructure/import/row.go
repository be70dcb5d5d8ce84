package csvimport

import "strings"

// Row is one data row keyed by normalized header name
type Row struct {
	LineNumber int
	Data       map[string]string
	present    map[string]bool
}

func newRow(line int, headers, record []string) *Row {
	row := &Row{
		LineNumber: line,
		Data:       make(map[string]string, len(headers)),
		present:    make(map[string]bool, len(headers)),
	}
	for i, header := range headers {
		if header == "" || row.present[header] {
			continue
		}
		row.present[header] = true
		if i < len(record) {
			row.Data[header] = strings.TrimSpace(record[i])
		} else {
			row.Data[header] = ""
		}
	}
	return row
}

// Get returns the value for a column by header name
func (r *Row) Get(header string) string {
	return r.Data[header]
}

// Has reports whether the file had the column at all
func (r *Row) Has(header string) bool {
	return r.present[header]
}

// IsEmpty returns true if the row has no non-empty values
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// sheet collects the non-blank data rows found under one header row.
// CSV and workbook readers both feed records through it.
type sheet struct {
	headers []string
	rows    []*Row
}

// newSheet returns nil when the header record has no named column. Header
// names are trimmed and lowercased so "Price " and "price" match.
func newSheet(header []string) *sheet {
	headers := make([]string, len(header))
	named := false
	for i, h := range header {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
		named = named || headers[i] != ""
	}
	if !named {
		return nil
	}
	return &sheet{headers: headers}
}

func (s *sheet) add(line int, record []string) {
	if row := newRow(line, s.headers, record); !row.IsEmpty() {
		s.rows = append(s.rows, row)
	}
}
