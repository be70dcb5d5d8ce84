package csvimport

import (
	"bytes"

	"github.com/storefront/backoffice/internal/domain/bulk"
)

// ReadRows parses an uploaded file into rows, picking the parser from the
// file extension.
func ReadRows(filename string, data []byte) ([]*Row, error) {
	switch bulk.FormatOf(filename) {
	case bulk.FormatCSV:
		return ReadCSV(data)
	case bulk.FormatExcel:
		if len(data) == 0 {
			return nil, ErrEmptyFile
		}
		return ReadWorkbook(bytes.NewReader(data))
	}
	return nil, ErrUnsupportedFormat
}
