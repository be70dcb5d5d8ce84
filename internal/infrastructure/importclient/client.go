// Package importclient talks to the back office import API over HTTP.
package importclient

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/storefront/backoffice/internal/domain/bulk"
	"go.uber.org/zap"
)

// Default API locations relative to the server base URL
const (
	DefaultImportPath = "/api/v1/admin/import/products"
	DefaultBotPath    = "/api/v1/bot"
	DefaultTimeout    = 30 * time.Second
)

// APIError is any non-2xx answer from the server
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// errorEnvelope is the server's error body
type errorEnvelope struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// File is an upload body
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Client calls the import and bot endpoints
type Client struct {
	http       *resty.Client
	creds      CredentialProvider
	importPath string
	botPath    string
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.SetTimeout(d)
		}
	}
}

// WithLogger routes resty's own diagnostics to zap
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.http.SetLogger(logger.Sugar())
		}
	}
}

// WithImportPath overrides the import API prefix
func WithImportPath(path string) Option {
	return func(c *Client) {
		c.importPath = strings.TrimRight(path, "/")
	}
}

// WithHTTPClient swaps the underlying transport
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = resty.NewWithClient(hc).
			SetBaseURL(c.http.BaseURL).
			SetTimeout(hc.Timeout)
	}
}

// New creates a client for the server at baseURL
func New(baseURL string, creds CredentialProvider, opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(DefaultTimeout).
			SetHeader("Accept", "application/json"),
		creds:      creds,
		importPath: DefaultImportPath,
		botPath:    DefaultBotPath,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// request builds an authenticated request. The token is fetched here so
// every call sees the current credential.
func (c *Client) request(ctx context.Context) (*resty.Request, error) {
	token, err := c.creds.Token(ctx)
	if err != nil {
		return nil, err
	}
	return c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetError(&errorEnvelope{}), nil
}

func (c *Client) do(req *resty.Request, method, url string) error {
	resp, err := req.Execute(method, url)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, url, err)
	}
	if !resp.IsSuccess() {
		return newAPIError(resp)
	}
	return nil
}

func newAPIError(resp *resty.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode()}
	if env, ok := resp.Error().(*errorEnvelope); ok && env.Error.Message != "" {
		apiErr.Code = env.Error.Code
		apiErr.Message = env.Error.Message
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(resp.String())
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode())
	}
	return apiErr
}

// Upload sends the file as the multipart field "file"
func (c *Client) Upload(ctx context.Context, file File) (*bulk.UploadReceipt, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	var receipt bulk.UploadReceipt
	req.SetMultipartField("file", file.Name, contentType, bytes.NewReader(file.Data)).
		SetResult(&receipt)
	if err := c.do(req, http.MethodPost, c.importPath+"/upload"); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// Status fetches the live record of one import
func (c *Client) Status(ctx context.Context, importID string) (*bulk.ImportJob, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	var job bulk.ImportJob
	req.SetPathParam("id", importID).SetResult(&job)
	if err := c.do(req, http.MethodGet, c.importPath+"/status/{id}"); err != nil {
		return nil, err
	}
	return &job, nil
}

// History fetches the newest limit imports
func (c *Client) History(ctx context.Context, limit int) (*bulk.HistoryPage, error) {
	return c.history(ctx, c.importPath+"/history", limit)
}

// DeleteHistory removes one import log
func (c *Client) DeleteHistory(ctx context.Context, importID string) error {
	return c.delete(ctx, c.importPath+"/history/{id}", importID)
}

// Template downloads the sample import file
func (c *Client) Template(ctx context.Context) (*bulk.Template, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	var tmpl bulk.Template
	req.SetResult(&tmpl)
	if err := c.do(req, http.MethodPost, c.importPath+"/template"); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// BotStatus fetches the bot panel counters
func (c *Client) BotStatus(ctx context.Context) (*bulk.BotStatus, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	var status bulk.BotStatus
	req.SetResult(&status)
	if err := c.do(req, http.MethodGet, c.botPath+"/status"); err != nil {
		return nil, err
	}
	return &status, nil
}

// BotHistory fetches import history with durations
func (c *Client) BotHistory(ctx context.Context, limit int) (*bulk.HistoryPage, error) {
	return c.history(ctx, c.botPath+"/import-history", limit)
}

// DeleteBotHistory removes one import log through the bot panel API
func (c *Client) DeleteBotHistory(ctx context.Context, importID string) error {
	return c.delete(ctx, c.botPath+"/import-history/{id}", importID)
}

func (c *Client) history(ctx context.Context, url string, limit int) (*bulk.HistoryPage, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	var page bulk.HistoryPage
	if limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(limit))
	}
	req.SetResult(&page)
	if err := c.do(req, http.MethodGet, url); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) delete(ctx context.Context, url, importID string) error {
	req, err := c.request(ctx)
	if err != nil {
		return err
	}
	req.SetPathParam("id", importID)
	return c.do(req, http.MethodDelete, url)
}
