package importclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/storefront/backoffice/internal/domain/bulk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestClient_Upload(t *testing.T) {
	var gotAuth, gotName, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/admin/import/products/upload", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")

		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		gotName, gotBody = header.Filename, string(data)

		writeJSON(w, http.StatusOK, bulk.UploadReceipt{ImportID: "job-1", Status: bulk.ImportStatusProcessing, Message: "queued"})
	}))
	defer srv.Close()

	c := New(srv.URL, StaticCredentials("secret"))
	receipt, err := c.Upload(context.Background(), File{Name: "products.csv", ContentType: "text/csv", Data: []byte("name,price\n")})
	require.NoError(t, err)

	assert.Equal(t, "job-1", receipt.ImportID)
	assert.Equal(t, bulk.ImportStatusProcessing, receipt.Status)
	assert.Equal(t, "queued", receipt.Message)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "products.csv", gotName)
	assert.Equal(t, "name,price\n", gotBody)
}

func TestClient_Errors(t *testing.T) {
	t.Run("decodes the error envelope", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]any{
				"success": false,
				"error":   map[string]string{"code": "ERR_FILE_TOO_LARGE", "message": "too big"},
			})
		}))
		defer srv.Close()

		_, err := New(srv.URL, StaticCredentials("t")).Upload(context.Background(), File{Name: "a.csv"})
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusRequestEntityTooLarge, apiErr.StatusCode)
		assert.Equal(t, "ERR_FILE_TOO_LARGE", apiErr.Code)
		assert.Equal(t, "too big", apiErr.Message)
	})

	t.Run("unauthorized is a plain api error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		_, err := New(srv.URL, StaticCredentials("t")).Status(context.Background(), "job-1")
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
		assert.Equal(t, "Unauthorized", apiErr.Message)
	})

	t.Run("missing credentials fail before any request", func(t *testing.T) {
		called := false
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
		defer srv.Close()

		_, err := New(srv.URL, StaticCredentials("")).History(context.Background(), 20)
		assert.ErrorIs(t, err, ErrNoCredentials)
		assert.False(t, called)
	})

	t.Run("transport failures are wrapped", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		srv.Close()

		err := New(srv.URL, StaticCredentials("t")).DeleteHistory(context.Background(), "job-1")
		require.Error(t, err)
		var apiErr *APIError
		assert.False(t, errors.As(err, &apiErr))
	})
}

func TestClient_Endpoints(t *testing.T) {
	var requests []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.Method+" "+r.URL.RequestURI())
		switch r.URL.Path {
		case "/api/v1/admin/import/products/status/job-1":
			total, processed := 10, 4
			writeJSON(w, http.StatusOK, bulk.ImportJob{ID: "job-1", Status: bulk.ImportStatusProcessing, Progress: 40, Total: &total, Processed: &processed})
		case "/api/v1/admin/import/products/history", "/api/v1/bot/import-history":
			writeJSON(w, http.StatusOK, bulk.HistoryPage{
				Imports: []bulk.ImportHistoryEntry{{ID: "job-1", Filename: "a.csv", Status: bulk.ImportStatusCompleted, Duration: "3 ثانیه"}},
				Total:   1, Limit: 20,
			})
		case "/api/v1/admin/import/products/template":
			writeJSON(w, http.StatusOK, bulk.Template{CSVContent: "name,price\n", Filename: "product_import_template.csv"})
		case "/api/v1/bot/status":
			writeJSON(w, http.StatusOK, bulk.BotStatus{CSVImporter: bulk.CSVImporterStats{RecentImports: 2}})
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	c := New(srv.URL+"/", StaticCredentials("t"))

	job, err := c.Status(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, 40, job.Progress)
	require.NotNil(t, job.Total)
	assert.Equal(t, 10, *job.Total)

	page, err := c.History(ctx, 20)
	require.NoError(t, err)
	require.Len(t, page.Imports, 1)
	assert.Equal(t, "a.csv", page.Imports[0].Filename)

	require.NoError(t, c.DeleteHistory(ctx, "job-1"))

	tmpl, err := c.Template(ctx)
	require.NoError(t, err)
	assert.Equal(t, "product_import_template.csv", tmpl.Filename)

	status, err := c.BotStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, status.CSVImporter.RecentImports)

	botPage, err := c.BotHistory(ctx, 50)
	require.NoError(t, err)
	assert.Equal(t, "3 ثانیه", botPage.Imports[0].Duration)

	require.NoError(t, c.DeleteBotHistory(ctx, "job-1"))

	assert.Equal(t, []string{
		"GET /api/v1/admin/import/products/status/job-1",
		"GET /api/v1/admin/import/products/history?limit=20",
		"DELETE /api/v1/admin/import/products/history/job-1",
		"POST /api/v1/admin/import/products/template",
		"GET /api/v1/bot/status",
		"GET /api/v1/bot/import-history?limit=50",
		"DELETE /api/v1/bot/import-history/job-1",
	}, requests)
}

func TestCredentials(t *testing.T) {
	ctx := context.Background()

	t.Run("env credentials are read on every call", func(t *testing.T) {
		t.Setenv("BACKOFFICE_TEST_TOKEN", "first")
		creds := EnvCredentials{Var: "BACKOFFICE_TEST_TOKEN"}

		token, err := creds.Token(ctx)
		require.NoError(t, err)
		assert.Equal(t, "first", token)

		t.Setenv("BACKOFFICE_TEST_TOKEN", "rotated")
		token, err = creds.Token(ctx)
		require.NoError(t, err)
		assert.Equal(t, "rotated", token)

		t.Setenv("BACKOFFICE_TEST_TOKEN", "")
		_, err = creds.Token(ctx)
		assert.ErrorIs(t, err, ErrNoCredentials)
	})

	t.Run("file credentials are trimmed and re-read", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "token")
		require.NoError(t, os.WriteFile(path, []byte("abc\n"), 0o600))
		creds := FileCredentials{Path: path}

		token, err := creds.Token(ctx)
		require.NoError(t, err)
		assert.Equal(t, "abc", token)

		require.NoError(t, os.WriteFile(path, []byte("def"), 0o600))
		token, err = creds.Token(ctx)
		require.NoError(t, err)
		assert.Equal(t, "def", token)
	})

	t.Run("missing token file", func(t *testing.T) {
		_, err := FileCredentials{Path: filepath.Join(t.TempDir(), "absent")}.Token(ctx)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("provider precedence", func(t *testing.T) {
		assert.Equal(t, StaticCredentials("tok"), CredentialsFor("tok", "/tmp/f", "X"))
		assert.Equal(t, FileCredentials{Path: "/tmp/f"}, CredentialsFor("", "/tmp/f", "X"))
		assert.Equal(t, EnvCredentials{Var: "X"}, CredentialsFor("", "", "X"))
	})
}
