package middleware

import (
	"errors"
	"strings"

	"github.com/waste3d/coursehub/internal/domain"
	"github.com/waste3d/coursehub/internal/infrastructure/repository"
	"github.com/waste3d/coursehub/internal/infrastructure/security"
	"github.com/waste3d/coursehub/internal/platform/logger"
	"github.com/waste3d/coursehub/internal/transport/http/response"

	"github.com/gin-gonic/gin"
)

const (
	principalKey = "principal"
	userIDKey    = "userId"
)

type AuthMiddleware struct {
	log    *logger.Logger
	tokens *security.TokenManager
	users  *repository.UserRepository
}

func NewAuthMiddleware(log *logger.Logger, tokens *security.TokenManager, users *repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), tokens: tokens, users: users}
}

// RequireAuth resolves the bearer token to a local user and stores the
// resulting principal on the context.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			response.Error(c, domain.ErrNoSession)
			return
		}
		externalID, err := am.tokens.Validate(token)
		if err != nil {
			am.log.Debug("token rejected", "error", err)
			response.Error(c, domain.WrapError("auth.Authenticate", domain.ErrUnauthorized, "invalid or expired token", err))
			return
		}
		user, err := am.users.GetByExternalID(c.Request.Context(), externalID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				response.Error(c, domain.ErrUserNotFound)
				return
			}
			response.Error(c, err)
			return
		}

		c.Set(principalKey, domain.Principal{UserID: user.ID, Role: user.Role})
		c.Set(userIDKey, user.ID.String())
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func (am *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			response.Error(c, domain.ErrNoSession)
			return
		}
		if !p.IsAdmin() {
			response.Error(c, domain.ErrAdminOnly)
			return
		}
		c.Next()
	}
}

// PrincipalFrom returns the authenticated caller stored by RequireAuth.
func PrincipalFrom(c *gin.Context) (domain.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return domain.Principal{}, false
	}
	p, ok := v.(domain.Principal)
	return p, ok && p.Valid()
}

func bearerToken(header string) string {
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
