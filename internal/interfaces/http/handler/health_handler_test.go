package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/storefront/backoffice/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	db, sqlMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	h := NewHealthHandler(map[string]HealthCheck{
		"database": db.PingContext,
		"progress": func(context.Context) error { return nil },
	})

	t.Run("healthy", func(t *testing.T) {
		sqlMock.ExpectPing()
		c, w := newTestContext(http.MethodGet, "/health")

		h.Health(c)

		require.Equal(t, http.StatusOK, w.Code)
		var resp dto.HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, map[string]string{"database": "ok", "progress": "ok"}, resp.Checks)
	})

	t.Run("database down", func(t *testing.T) {
		sqlMock.ExpectPing().WillReturnError(errors.New("connection refused"))
		c, w := newTestContext(http.MethodGet, "/health")

		h.Health(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		var resp dto.HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "unhealthy", resp.Status)
		assert.Equal(t, "connection refused", resp.Checks["database"])
		assert.Equal(t, "ok", resp.Checks["progress"])
	})

	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestHealthHandler_NoChecks(t *testing.T) {
	c, w := newTestContext(http.MethodGet, "/health")
	NewHealthHandler(nil).Health(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"healthy"`)
}
