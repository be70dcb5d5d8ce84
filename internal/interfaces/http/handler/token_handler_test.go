package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backoffice/internal/infrastructure/auth"
	"github.com/storefront/backoffice/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenRouter(issuer TokenIssuer) *gin.Engine {
	router := gin.New()
	router.POST("/api/v1/auth/token", NewTokenHandler(issuer).Mint)
	return router
}

func tokenRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestTokenHandler_Mint(t *testing.T) {
	issuer := &stubIssuer{}
	router := newTokenRouter(issuer)

	w := do(router, tokenRequest(`{"username":"ops","ttl":"30m"}`))

	require.Equal(t, http.StatusOK, w.Code)
	var token auth.Token
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &token))
	assert.Equal(t, "signed", token.AccessToken)
	assert.Equal(t, "ops", issuer.got.Username)
	assert.Equal(t, []string{auth.RoleAdmin}, issuer.got.Roles)
	assert.Equal(t, 30*time.Minute, issuer.got.TTL)
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", issuer.got.UserID.String())
}

func TestTokenHandler_ExplicitUserAndRoles(t *testing.T) {
	issuer := &stubIssuer{}
	w := do(newTokenRouter(issuer), tokenRequest(
		`{"user_id":"`+testImportID+`","username":"telegram","roles":["bot"]}`))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testImportID, issuer.got.UserID.String())
	assert.Equal(t, []string{auth.RoleBot}, issuer.got.Roles)
}

func TestTokenHandler_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		code string
	}{
		{"missing username", `{}`, dto.ErrCodeValidation},
		{"unknown role", `{"username":"x","roles":["root"]}`, dto.ErrCodeValidation},
		{"bad user id", `{"username":"x","user_id":"42"}`, dto.ErrCodeValidation},
		{"bad ttl", `{"username":"x","ttl":"soon"}`, dto.ErrCodeBadRequest},
		{"negative ttl", `{"username":"x","ttl":"-5m"}`, dto.ErrCodeBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(newTokenRouter(&stubIssuer{}), tokenRequest(tt.body))
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.code, decodeError(t, w).Error.Code)
		})
	}
}

func TestTokenHandler_IssuerError(t *testing.T) {
	w := do(newTokenRouter(&stubIssuer{err: auth.ErrMissingSecret}), tokenRequest(`{"username":"ops"}`))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
