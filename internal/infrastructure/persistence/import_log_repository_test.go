package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backoffice/internal/domain/bulk"
	"github.com/storefront/backoffice/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLog(t *testing.T, name string, createdAt time.Time) *bulk.ImportLog {
	t.Helper()
	log, err := bulk.NewImportLog(uuid.New(), name, 1024, "admin")
	require.NoError(t, err)
	log.CreatedAt = createdAt
	log.UpdatedAt = createdAt
	return log
}

func TestGormImportLogRepository(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	t.Run("save and find by id", func(t *testing.T) {
		repo := NewGormImportLogRepository(newTestDatabase(t))
		log := newLog(t, "products.csv", now)
		log.AttachStorageKey("imports/2026/products.csv")
		require.NoError(t, repo.Save(ctx, log))

		found, err := repo.FindByID(ctx, log.ID)
		require.NoError(t, err)
		assert.Equal(t, "products.csv", found.Filename)
		assert.Equal(t, int64(1024), found.FileSize)
		assert.Equal(t, bulk.ImportStatusProcessing, found.Status)
		assert.Equal(t, "imports/2026/products.csv", found.StorageKey)
		assert.Nil(t, found.CompletedAt)
	})

	t.Run("save updates a completed log", func(t *testing.T) {
		repo := NewGormImportLogRepository(newTestDatabase(t))
		log := newLog(t, "products.csv", now)
		require.NoError(t, repo.Save(ctx, log))

		require.NoError(t, log.Complete(8, 2, []string{"سطر 2: a", "سطر 5: b"}))
		require.NoError(t, repo.Save(ctx, log))

		found, err := repo.FindByID(ctx, log.ID)
		require.NoError(t, err)
		assert.Equal(t, bulk.ImportStatusCompleted, found.Status)
		assert.Equal(t, 8, found.SuccessCount)
		assert.Equal(t, 2, found.ErrorCount)
		assert.Equal(t, "سطر 2: a; سطر 5: b", found.ErrorMessage)
		require.NotNil(t, found.CompletedAt)
		assert.Equal(t, 2, found.Version)
	})

	t.Run("find by id not found", func(t *testing.T) {
		repo := NewGormImportLogRepository(newTestDatabase(t))

		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("list is newest first with total", func(t *testing.T) {
		repo := NewGormImportLogRepository(newTestDatabase(t))
		for i, name := range []string{"a.csv", "b.csv", "c.csv"} {
			require.NoError(t, repo.Save(ctx, newLog(t, name, now.Add(time.Duration(i)*time.Hour))))
		}

		logs, total, err := repo.List(ctx, shared.Page{Offset: 0, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, logs, 2)
		assert.Equal(t, "c.csv", logs[0].Filename)
		assert.Equal(t, "b.csv", logs[1].Filename)

		logs, _, err = repo.List(ctx, shared.Page{Offset: 2, Limit: 2})
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, "a.csv", logs[0].Filename)
	})

	t.Run("list created since", func(t *testing.T) {
		repo := NewGormImportLogRepository(newTestDatabase(t))
		require.NoError(t, repo.Save(ctx, newLog(t, "old.csv", now.AddDate(0, 0, -10))))
		require.NoError(t, repo.Save(ctx, newLog(t, "new.csv", now.AddDate(0, 0, -1))))

		logs, err := repo.ListCreatedSince(ctx, now.AddDate(0, 0, -7))
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, "new.csv", logs[0].Filename)
	})

	t.Run("find by status", func(t *testing.T) {
		repo := NewGormImportLogRepository(newTestDatabase(t))
		running := newLog(t, "running.csv", now)
		done := newLog(t, "done.csv", now)
		require.NoError(t, done.Fail("خطای کلی: bad file"))
		require.NoError(t, repo.Save(ctx, running))
		require.NoError(t, repo.Save(ctx, done))

		logs, err := repo.FindByStatus(ctx, bulk.ImportStatusProcessing)
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, running.ID, logs[0].ID)
	})

	t.Run("list finished before", func(t *testing.T) {
		repo := NewGormImportLogRepository(newTestDatabase(t))
		oldDone := newLog(t, "old-done.csv", now.AddDate(0, 0, -40))
		require.NoError(t, oldDone.Complete(1, 0, nil))
		oldFailed := newLog(t, "old-failed.csv", now.AddDate(0, 0, -35))
		require.NoError(t, oldFailed.Fail("bad file"))
		oldRunning := newLog(t, "old-running.csv", now.AddDate(0, 0, -50))
		recent := newLog(t, "recent.csv", now.AddDate(0, 0, -1))
		require.NoError(t, recent.Complete(1, 0, nil))
		for _, l := range []*bulk.ImportLog{oldDone, oldFailed, oldRunning, recent} {
			require.NoError(t, repo.Save(ctx, l))
		}

		logs, err := repo.ListFinishedBefore(ctx, now.AddDate(0, 0, -30), 10)
		require.NoError(t, err)
		require.Len(t, logs, 2)
		assert.Equal(t, "old-done.csv", logs[0].Filename)
		assert.Equal(t, "old-failed.csv", logs[1].Filename)

		logs, err = repo.ListFinishedBefore(ctx, now.AddDate(0, 0, -30), 1)
		require.NoError(t, err)
		require.Len(t, logs, 1)
	})

	t.Run("delete", func(t *testing.T) {
		repo := NewGormImportLogRepository(newTestDatabase(t))
		log := newLog(t, "products.csv", now)
		require.NoError(t, repo.Save(ctx, log))

		require.NoError(t, repo.Delete(ctx, log.ID))
		assert.ErrorIs(t, repo.Delete(ctx, log.ID), shared.ErrNotFound)
	})
}
