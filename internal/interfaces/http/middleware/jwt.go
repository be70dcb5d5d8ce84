package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backoffice/internal/infrastructure/auth"
	"github.com/storefront/backoffice/internal/infrastructure/logger"
	"github.com/storefront/backoffice/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey   = "jwt_claims"
	JWTUsernameKey = "jwt_username"
	AuthHeaderKey  = "Authorization"
	BearerPrefix   = "Bearer "
)

var errMissingBearer = errors.New("missing bearer token")

// RequireRoles authenticates the bearer token and admits callers holding at
// least one of roles. No roles admits any valid token. On success the
// claims and the uploader name are stored on the gin context and the user
// id is attached to the request logger.
func RequireRoles(svc *auth.JWTService, log *zap.Logger, roles ...string) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader(AuthHeaderKey))
		if err == nil {
			var claims *auth.Claims
			if claims, err = svc.ValidateAccessToken(token); err == nil {
				admit(c, log, claims, roles)
				return
			}
		}

		log.Warn("JWT authentication failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
		code, text := authFailure(err)
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(code, text, GetRequestID(c)))
	}
}

// RequireAdmin guards the import and bot panel routes
func RequireAdmin(svc *auth.JWTService, log *zap.Logger) gin.HandlerFunc {
	return RequireRoles(svc, log, auth.RoleAdmin)
}

func admit(c *gin.Context, log *zap.Logger, claims *auth.Claims, roles []string) {
	if len(roles) > 0 && !claims.HasAnyRole(roles...) {
		log.Warn("JWT role check failed",
			zap.String("user_id", claims.UserID),
			zap.Strings("roles", claims.Roles),
			zap.String("path", c.Request.URL.Path),
		)
		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeForbidden, "Insufficient role", GetRequestID(c)))
		return
	}

	c.Set(JWTClaimsKey, claims)
	c.Set(JWTUsernameKey, claims.Username)
	ctx := c.Request.Context()
	ctx, _ = logger.WithUserID(ctx, logger.FromContext(ctx), claims.UserID)
	c.Request = c.Request.WithContext(ctx)
	c.Next()
}

func bearerToken(header string) (string, error) {
	token, ok := strings.CutPrefix(header, BearerPrefix)
	if !ok || strings.TrimSpace(token) == "" {
		return "", errMissingBearer
	}
	return strings.TrimSpace(token), nil
}

func authFailure(err error) (code, message string) {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		return dto.ErrCodeTokenInvalid, "Token is not yet valid"
	case errors.Is(err, errMissingBearer),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrInvalidClaims),
		errors.Is(err, auth.ErrMissingUserID):
		return dto.ErrCodeTokenInvalid, "Invalid token"
	}
	return dto.ErrCodeUnauthorized, "Authentication required"
}

// GetJWTClaims returns the claims of an authenticated request, or nil
func GetJWTClaims(c *gin.Context) *auth.Claims {
	claims, _ := c.Value(JWTClaimsKey).(*auth.Claims)
	return claims
}

// GetJWTUsername returns the authenticated username, recorded as the uploader
func GetJWTUsername(c *gin.Context) string {
	return c.GetString(JWTUsernameKey)
}

// GetJWTUserID returns the authenticated user id, or "" before RequireRoles
func GetJWTUserID(c *gin.Context) string {
	if claims := GetJWTClaims(c); claims != nil {
		return claims.UserID
	}
	return ""
}
