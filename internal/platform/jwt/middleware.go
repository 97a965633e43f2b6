package jwtmw

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	"taskhub_backend/internal/feature/auth/domain/entity"
	"taskhub_backend/internal/platform/http/response"
)

// ContextUser is the gin context key holding the authenticated *entity.User.
const ContextUser = "currentUser"

// IdentityResolver maps a raw credential string to a user.
type IdentityResolver interface {
	Resolve(ctx context.Context, credential string) (*entity.User, error)
}

// AuthRequired authenticates every request with the raw Authorization header.
// The header value is the token itself; no scheme prefix is stripped.
func AuthRequired(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := resolver.Resolve(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			slog.Warn("authentication failed", "error", err, "path", c.FullPath(), "remote_addr", c.ClientIP())
			response.Abort(c, err)
			return
		}
		c.Set(ContextUser, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by AuthRequired.
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*entity.User)
	return user, ok && user != nil
}
