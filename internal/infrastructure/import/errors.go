package csvimport

import (
	"errors"
	"strconv"

	"golang.org/x/text/language"

	"github.com/storefront/backoffice/internal/domain/bulk"
)

// Common import errors
var (
	// ErrEmptyFile is returned when the uploaded file is empty
	ErrEmptyFile = errors.New("import file is empty")

	// ErrInvalidEncoding is returned when a CSV file is not valid UTF-8
	ErrInvalidEncoding = errors.New("invalid file encoding")

	// ErrMissingHeader is returned when the file has no header row
	ErrMissingHeader = errors.New("import file missing header row")

	// ErrInvalidWorkbook is returned when an Excel file cannot be opened
	ErrInvalidWorkbook = errors.New("invalid excel workbook")

	// ErrUnsupportedFormat is returned for files that are neither CSV nor Excel
	ErrUnsupportedFormat = errors.New("unsupported import file format")
)

// Default window sizes of an ErrorCollection
const (
	DefaultHeadSize = bulk.MaxDisplayedErrors
	DefaultTailSize = 10
)

// ErrorCollection gathers localized row errors of one import. Only the
// first headSize and the last tailSize messages are retained; TotalCount
// still counts every error.
type ErrorCollection struct {
	lang       language.Tag
	head       []string
	tail       []string
	headSize   int
	tailSize   int
	totalCount int
}

// NewErrorCollection creates a collection rendering messages in lang
func NewErrorCollection(lang language.Tag, headSize, tailSize int) *ErrorCollection {
	if headSize <= 0 {
		headSize = DefaultHeadSize
	}
	if tailSize <= 0 {
		tailSize = DefaultTailSize
	}
	return &ErrorCollection{
		lang:     lang,
		head:     make([]string, 0, headSize),
		tail:     make([]string, 0, tailSize),
		headSize: headSize,
		tailSize: tailSize,
	}
}

// Add records an already localized message
func (ec *ErrorCollection) Add(msg string) {
	ec.totalCount++
	if len(ec.head) < ec.headSize {
		ec.head = append(ec.head, msg)
	}
	if len(ec.tail) == ec.tailSize {
		copy(ec.tail, ec.tail[1:])
		ec.tail = ec.tail[:ec.tailSize-1]
	}
	ec.tail = append(ec.tail, msg)
}

// AddRowError records "Row N: reason" for a rejected row
func (ec *ErrorCollection) AddRowError(line int, reason string) {
	ec.Add(bulk.Localize(ec.lang, bulk.MsgRowError, strconv.Itoa(line), reason))
}

// AddRowPanic records an unexpected failure while handling a row
func (ec *ErrorCollection) AddRowPanic(line int, cause string) {
	ec.Add(bulk.Localize(ec.lang, bulk.MsgRowPanic, strconv.Itoa(line), cause))
}

// AddGeneral records a failure of the whole file
func (ec *ErrorCollection) AddGeneral(cause string) {
	ec.Add(bulk.Localize(ec.lang, bulk.MsgGeneralError, cause))
}

// First returns the earliest retained messages
func (ec *ErrorCollection) First() []string {
	out := make([]string, len(ec.head))
	copy(out, ec.head)
	return out
}

// Last returns the most recent retained messages, oldest first
func (ec *ErrorCollection) Last() []string {
	out := make([]string, len(ec.tail))
	copy(out, ec.tail)
	return out
}

// TotalCount returns the number of errors including those not retained
func (ec *ErrorCollection) TotalCount() int {
	return ec.totalCount
}

// HasErrors returns true if there are any errors
func (ec *ErrorCollection) HasErrors() bool {
	return ec.totalCount > 0
}

// IsTruncated returns true if some messages were dropped from the tail window
func (ec *ErrorCollection) IsTruncated() bool {
	return ec.totalCount > ec.tailSize
}
