package bulk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateImportFile(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		mimeType string
		wantErr  bool
	}{
		{"csv with csv type", "products.csv", "text/csv", false},
		{"csv with empty type", "products.csv", "", false},
		{"csv with wrong type", "products.csv", "application/octet-stream", false},
		{"upper case extension", "PRODUCTS.XLSX", "", false},
		{"xls with legacy type", "old.xls", "application/vnd.ms-excel", false},
		{"xlsx with openxml type", "sheet.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", false},
		{"unknown extension with csv type", "export.txt", "text/csv", false},
		{"no extension with excel type", "download", "application/vnd.ms-excel", false},
		{"type with parameters", "export", "text/csv; charset=utf-8", false},
		{"pdf", "catalog.pdf", "application/pdf", true},
		{"text file", "notes.txt", "text/plain", true},
		{"extension only in the middle", "products.csv.bak", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImportFile(tt.filename, tt.mimeType)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFileType)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateImportFile_AcceptedExtensionsIgnoreMIME(t *testing.T) {
	mimes := []string{"", "text/csv", "application/pdf", "image/png", "garbage;;"}
	for _, ext := range []string{".csv", ".xlsx", ".xls"} {
		for _, m := range mimes {
			assert.NoError(t, ValidateImportFile("file"+ext, m), "ext %s mime %q", ext, m)
		}
	}
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, FormatCSV, FormatOf("a.csv"))
	assert.Equal(t, FormatExcel, FormatOf("a.XLSX"))
	assert.Equal(t, FormatExcel, FormatOf("a.xls"))
	assert.Equal(t, FormatUnknown, FormatOf("a.json"))
	assert.True(t, HasAcceptedExtension("b.Csv"))
	assert.False(t, HasAcceptedExtension("b"))
}
