package bulk

import (
	"fmt"
	"time"

	"github.com/storefront/backoffice/internal/domain/shared"
)

// MaxDisplayedErrors caps how many row errors are shown for a job and how
// many are folded into a log's error message.
const MaxDisplayedErrors = 5

// ImportJob is the live record of one import as returned by the status
// endpoint. Each successful poll replaces the whole value.
type ImportJob struct {
	ID           string       `json:"import_id"`
	Status       ImportStatus `json:"status"`
	Progress     int          `json:"progress"`
	Total        *int         `json:"total,omitempty"`
	Processed    *int         `json:"processed,omitempty"`
	SuccessCount int          `json:"success_count"`
	ErrorCount   int          `json:"error_count"`
	Errors       []string     `json:"errors,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	Message      string       `json:"message,omitempty"`
}

// Validate checks the numeric invariants of a job record
func (j *ImportJob) Validate() error {
	if j.ID == "" {
		return shared.NewDomainError("INVALID_IMPORT_JOB", "import id is required")
	}
	if j.SuccessCount < 0 || j.ErrorCount < 0 {
		return shared.NewDomainError("INVALID_IMPORT_JOB", "counts cannot be negative")
	}
	if j.Total != nil && j.Processed != nil && *j.Processed > *j.Total {
		return shared.NewDomainError("INVALID_IMPORT_JOB",
			fmt.Sprintf("processed %d exceeds total %d", *j.Processed, *j.Total))
	}
	return nil
}

// Percent returns the progress clamped to 0..100
func (j *ImportJob) Percent() int {
	switch {
	case j.Progress < 0:
		return 0
	case j.Progress > 100:
		return 100
	}
	return j.Progress
}

// DisplayErrors returns at most MaxDisplayedErrors leading errors
func (j *ImportJob) DisplayErrors() []string {
	return FirstErrors(j.Errors, MaxDisplayedErrors)
}

// Clone returns a deep copy so callers can hand snapshots to renderers
func (j *ImportJob) Clone() *ImportJob {
	if j == nil {
		return nil
	}
	c := *j
	if j.Total != nil {
		v := *j.Total
		c.Total = &v
	}
	if j.Processed != nil {
		v := *j.Processed
		c.Processed = &v
	}
	if j.Errors != nil {
		c.Errors = append([]string(nil), j.Errors...)
	}
	return &c
}

// UploadReceipt is the response of the job creation endpoint
type UploadReceipt struct {
	ImportID string       `json:"import_id"`
	Status   ImportStatus `json:"status"`
	Message  string       `json:"message,omitempty"`
}

// ImportHistoryEntry is one past import as listed by the history endpoint
type ImportHistoryEntry struct {
	ID           string       `json:"id"`
	Filename     string       `json:"filename"`
	FileSize     int64        `json:"file_size"`
	Status       ImportStatus `json:"status"`
	SuccessCount int          `json:"success_count"`
	ErrorCount   int          `json:"error_count"`
	CreatedAt    time.Time    `json:"created_at"`
	CompletedAt  *time.Time   `json:"completed_at,omitempty"`
	ErrorMessage string       `json:"error_message,omitempty"`
	Duration     string       `json:"duration,omitempty"`
}

// HistoryPage is a newest-first window of import history
type HistoryPage struct {
	Imports []ImportHistoryEntry `json:"imports"`
	Total   int64                `json:"total"`
	Limit   int                  `json:"limit"`
	Offset  int                  `json:"offset"`
}

// Template is the sample import file offered for download
type Template struct {
	CSVContent string `json:"csv_content"`
	Filename   string `json:"filename"`
}

// FirstErrors returns up to n leading entries of errs
func FirstErrors(errs []string, n int) []string {
	if len(errs) <= n {
		return errs
	}
	return errs[:n]
}

// LastErrors returns up to n trailing entries of errs
func LastErrors(errs []string, n int) []string {
	if len(errs) <= n {
		return errs
	}
	return errs[len(errs)-n:]
}
