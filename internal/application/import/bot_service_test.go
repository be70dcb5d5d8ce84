package importapp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backoffice/internal/domain/bulk"
	"github.com/storefront/backoffice/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBot struct {
	status bulk.TelegramBotStatus
	err    error
}

func (b stubBot) TelegramStatus(context.Context) (bulk.TelegramBotStatus, error) {
	return b.status, b.err
}

func TestBotService_BotStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("aggregates recent imports", func(t *testing.T) {
		env := newTestEnv(t, Options{})
		env.waitTerminal(t, env.upload(t, "first.csv", productsCSV))
		env.waitTerminal(t, env.upload(t, "second.csv", "name,price\nDesk Lamp,900000\n"))

		old, err := bulk.NewImportLog(uuid.New(), "old.csv", 10, "admin")
		require.NoError(t, err)
		old.CreatedAt = time.Now().UTC().Add(-30 * 24 * time.Hour)
		require.NoError(t, old.Complete(50, 0, nil))
		require.NoError(t, env.logs.Save(ctx, old))

		svc := NewBotService(env.svc, env.products, nil)
		status, err := svc.BotStatus(ctx)
		require.NoError(t, err)

		assert.Equal(t, bulk.BotInactive, status.TelegramBot.Status)
		assert.Equal(t, 2, status.CSVImporter.RecentImports)
		assert.Equal(t, 3, status.CSVImporter.TotalImported)
		require.NotNil(t, status.CSVImporter.LastImport)
		assert.Equal(t, int64(3), status.GeneralStats.TotalProducts)
		assert.Equal(t, int64(3), status.GeneralStats.RecentProducts)
		assert.Zero(t, status.GeneralStats.ActiveImports)
	})

	t.Run("counts processing imports as active", func(t *testing.T) {
		env := newTestEnv(t, Options{})
		pending, err := bulk.NewImportLog(uuid.New(), "pending.csv", 10, "admin")
		require.NoError(t, err)
		require.NoError(t, env.logs.Save(ctx, pending))

		status, err := NewBotService(env.svc, env.products, nil).BotStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, status.GeneralStats.ActiveImports)
		assert.Equal(t, 1, status.CSVImporter.RecentImports)
	})

	t.Run("reports the bot source", func(t *testing.T) {
		env := newTestEnv(t, Options{})
		source := stubBot{status: bulk.TelegramBotStatus{Status: bulk.BotActive, ProductsImported: 7}}

		status, err := NewBotService(env.svc, env.products, source).BotStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, bulk.BotActive, status.TelegramBot.Status)
		assert.Equal(t, 7, status.TelegramBot.ProductsImported)
		assert.Nil(t, status.CSVImporter.LastImport)
	})

	t.Run("an unreachable bot reads as inactive", func(t *testing.T) {
		env := newTestEnv(t, Options{})
		source := stubBot{err: errors.New("dial tcp: connection refused")}

		status, err := NewBotService(env.svc, env.products, source).BotStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, bulk.BotInactive, status.TelegramBot.Status)
	})
}

func TestBotService_BotHistory(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, Options{})

	done := env.upload(t, "done.csv", "name,price\nA,1\n")
	env.waitTerminal(t, done)

	pending, err := bulk.NewImportLog(uuid.New(), "pending.csv", 10, "admin")
	require.NoError(t, err)
	require.NoError(t, env.logs.Save(ctx, pending))

	svc := NewBotService(env.svc, env.products, nil)

	page, err := svc.BotHistory(ctx, shared.Page{})
	require.NoError(t, err)
	require.Len(t, page.Imports, 2)

	byID := map[string]bulk.ImportHistoryEntry{}
	for _, e := range page.Imports {
		byID[e.ID] = e
	}
	assert.Contains(t, byID[done].Duration, "ثانیه")
	assert.Empty(t, byID[pending.ID.String()].Duration)

	require.NoError(t, svc.DeleteBotHistory(ctx, done))
	page, err = svc.BotHistory(ctx, shared.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	err = svc.DeleteBotHistory(ctx, "missing")
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}
