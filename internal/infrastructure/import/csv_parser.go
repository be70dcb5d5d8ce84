package csvimport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVOption tweaks the underlying csv.Reader
type CSVOption func(*csv.Reader)

// WithDelimiter sets the field delimiter (default is comma)
func WithDelimiter(d rune) CSVOption {
	return func(r *csv.Reader) { r.Comma = d }
}

// ReadCSV decodes a UTF-8 product CSV. The first record is the header and a
// leading BOM, as written by spreadsheet exports, is dropped. Line numbers
// count the header as line 1.
func ReadCSV(data []byte, opts ...CSVOption) ([]*Row, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if !utf8.Valid(data) {
		return nil, ErrInvalidEncoding
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	for _, opt := range opts {
		opt(reader)
	}

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	s := newSheet(header)
	if s == nil {
		return nil, ErrMissingHeader
	}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return s.rows, nil
		}
		if err != nil {
			return s.rows, fmt.Errorf("error reading row %d: %w", line, err)
		}
		s.add(line, record)
	}
}
