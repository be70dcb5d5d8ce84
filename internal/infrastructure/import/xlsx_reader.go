package csvimport

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ReadWorkbook reads rows from the first sheet of an .xlsx workbook. The
// first non-blank row is the header.
func ReadWorkbook(r io.Reader) ([]*Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	var s *sheet
	for i, record := range records {
		if s == nil {
			s = newSheet(record)
			continue
		}
		s.add(i+1, record)
	}
	if s == nil {
		return nil, ErrMissingHeader
	}
	return s.rows, nil
}
