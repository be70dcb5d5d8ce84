package bulk

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/storefront/backoffice/internal/domain/shared"
)

// FileFormat is the parser family an upload is routed to
type FileFormat string

const (
	FormatCSV     FileFormat = "csv"
	FormatExcel   FileFormat = "excel"
	FormatUnknown FileFormat = ""
)

// ErrUnsupportedFileType is returned for files that are neither a known
// spreadsheet MIME type nor carry an accepted extension.
var ErrUnsupportedFileType = shared.NewDomainError("INVALID_FILE_TYPE", MsgUnsupportedFormat)

var acceptedMIMETypes = map[string]struct{}{
	"text/csv":                 {},
	"application/vnd.ms-excel": {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {},
}

var acceptedExtensions = map[string]FileFormat{
	".csv":  FormatCSV,
	".xlsx": FormatExcel,
	".xls":  FormatExcel,
}

// ValidateImportFile accepts a file when its declared MIME type is a known
// spreadsheet type OR its name ends with an accepted extension. Browsers
// often report an empty or generic type for csv, so either check suffices.
func ValidateImportFile(name, mimeType string) error {
	if IsAcceptedMIMEType(mimeType) || HasAcceptedExtension(name) {
		return nil
	}
	return ErrUnsupportedFileType
}

// IsAcceptedMIMEType reports whether the media type (parameters ignored) is
// one of the spreadsheet types.
func IsAcceptedMIMEType(mimeType string) bool {
	mediaType := strings.ToLower(strings.TrimSpace(mimeType))
	if parsed, _, err := mime.ParseMediaType(mediaType); err == nil {
		mediaType = parsed
	}
	_, ok := acceptedMIMETypes[mediaType]
	return ok
}

// HasAcceptedExtension reports whether the lowercased name ends with csv, xlsx or xls
func HasAcceptedExtension(name string) bool {
	return FormatOf(name) != FormatUnknown
}

// FormatOf picks the parser family from the file extension
func FormatOf(name string) FileFormat {
	return acceptedExtensions[strings.ToLower(filepath.Ext(name))]
}
