package bulk

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backoffice/internal/domain/shared"
)

// ImportLog is the durable record of one product import. It outlives the
// in-flight progress kept while the file is processed and backs both the
// history listing and the status fallback.
type ImportLog struct {
	shared.BaseAggregateRoot
	Filename     string
	FileSize     int64
	Status       ImportStatus
	SuccessCount int
	ErrorCount   int
	ErrorMessage string
	UploadedBy   string
	StorageKey   string
	CompletedAt  *time.Time
}

// NewImportLog creates a processing log for a freshly uploaded file
func NewImportLog(id uuid.UUID, filename string, fileSize int64, uploadedBy string) (*ImportLog, error) {
	if id == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_IMPORT_ID", "Import id cannot be empty")
	}
	if strings.TrimSpace(filename) == "" {
		return nil, shared.NewDomainError("INVALID_FILE_NAME", "File name cannot be empty")
	}
	if fileSize < 0 {
		return nil, shared.NewDomainError("INVALID_FILE_SIZE", "File size cannot be negative")
	}

	root := shared.NewBaseAggregateRoot()
	root.ID = id

	return &ImportLog{
		BaseAggregateRoot: root,
		Filename:          filename,
		FileSize:          fileSize,
		Status:            ImportStatusProcessing,
		UploadedBy:        uploadedBy,
	}, nil
}

// Complete records the final counters. The first MaxDisplayedErrors row
// errors are kept as the log's error message.
func (l *ImportLog) Complete(successCount, errorCount int, rowErrors []string) error {
	if l.Status != ImportStatusProcessing {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete from state: %s", l.Status))
	}
	if successCount < 0 || errorCount < 0 {
		return shared.NewDomainError("INVALID_COUNTS", "Counts cannot be negative")
	}

	l.Status = ImportStatusCompleted
	l.SuccessCount = successCount
	l.ErrorCount = errorCount
	l.ErrorMessage = strings.Join(FirstErrors(rowErrors, MaxDisplayedErrors), "; ")
	l.markFinished()

	return nil
}

// Fail marks the whole import as failed
func (l *ImportLog) Fail(reason string) error {
	if l.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot fail from terminal state: %s", l.Status))
	}

	l.Status = ImportStatusFailed
	l.ErrorMessage = reason
	l.markFinished()

	return nil
}

// AttachStorageKey records where the raw upload was archived
func (l *ImportLog) AttachStorageKey(key string) {
	l.StorageKey = key
	l.UpdatedAt = time.Now()
}

func (l *ImportLog) markFinished() {
	now := time.Now()
	l.CompletedAt = &now
	l.Bump(now)
}

// Duration returns the processing time, or zero while still processing
func (l *ImportLog) Duration() time.Duration {
	if l.CompletedAt == nil {
		return 0
	}
	return l.CompletedAt.Sub(l.CreatedAt)
}

// HistoryEntry projects the log onto its wire representation
func (l *ImportLog) HistoryEntry() ImportHistoryEntry {
	return ImportHistoryEntry{
		ID:           l.ID.String(),
		Filename:     l.Filename,
		FileSize:     l.FileSize,
		Status:       l.Status,
		SuccessCount: l.SuccessCount,
		ErrorCount:   l.ErrorCount,
		CreatedAt:    l.CreatedAt,
		CompletedAt:  l.CompletedAt,
		ErrorMessage: l.ErrorMessage,
	}
}
