package bulk

import (
	"context"

	"github.com/google/uuid"
)

// UploadArchive keeps a copy of every raw uploaded file. Put returns the key
// the file was stored under.
type UploadArchive interface {
	Put(ctx context.Context, importID uuid.UUID, filename, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
}
