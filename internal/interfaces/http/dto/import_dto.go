package dto

import (
	"time"

	"github.com/storefront/backoffice/internal/domain/shared"
)

// HistoryQuery is the query string of the history endpoints. Limits above
// the maximum are clamped by the service, not rejected.
type HistoryQuery struct {
	Limit  int `form:"limit" binding:"omitempty,min=1"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// Page converts the query to a service page
func (q HistoryQuery) Page() shared.Page {
	return shared.Page{Offset: q.Offset, Limit: q.Limit}
}

// ImportIDRequest is the :id path parameter of import routes
type ImportIDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// TokenRequest asks the development token endpoint for a signed token
type TokenRequest struct {
	UserID   string   `json:"user_id" binding:"omitempty,uuid"`
	Username string   `json:"username" binding:"required,min=1,max=64"`
	Roles    []string `json:"roles" binding:"omitempty,dive,oneof=admin bot"`
	TTL      string   `json:"ttl" binding:"omitempty"`
}

// TTLDuration parses the requested lifetime; empty means the default
func (r TokenRequest) TTLDuration() (time.Duration, error) {
	if r.TTL == "" {
		return 0, nil
	}
	return time.ParseDuration(r.TTL)
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}
