package bulk

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backoffice/internal/domain/shared"
)

// ImportLogRepository defines the interface for import log persistence
type ImportLogRepository interface {
	// FindByID finds an import log by ID
	FindByID(ctx context.Context, id uuid.UUID) (*ImportLog, error)

	// List returns logs newest first together with the total count
	List(ctx context.Context, page shared.Page) ([]*ImportLog, int64, error)

	// ListCreatedSince returns logs created at or after since, newest first
	ListCreatedSince(ctx context.Context, since time.Time) ([]*ImportLog, error)

	// FindByStatus finds all logs with a specific status (recovery after restart)
	FindByStatus(ctx context.Context, status ImportStatus) ([]*ImportLog, error)

	// ListFinishedBefore returns up to limit terminal logs created before
	// before, oldest first (retention purge)
	ListFinishedBefore(ctx context.Context, before time.Time, limit int) ([]*ImportLog, error)

	// Save saves an import log (create or update)
	Save(ctx context.Context, log *ImportLog) error

	// Delete deletes an import log by ID
	Delete(ctx context.Context, id uuid.UUID) error
}
