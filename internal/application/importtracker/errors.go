package importtracker

import (
	"errors"

	"github.com/storefront/backoffice/internal/domain/shared"
)

var (
	// ErrNoFileSelected is returned by Upload before SelectFile succeeded
	ErrNoFileSelected = shared.NewDomainError("INVALID_INPUT", "no import file selected")

	// ErrClosed is returned once the tracker has been closed
	ErrClosed = errors.New("import tracker is closed")
)

// UploadError reports a failed upload request. The file selection is kept
// so the caller can retry.
type UploadError struct {
	Message string
	Err     error
}

func (e *UploadError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *UploadError) Unwrap() error {
	return e.Err
}
