package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"airdrop-tracker/internal/app"
	"airdrop-tracker/internal/model"
	"airdrop-tracker/internal/pkg/jwtutil"
	"airdrop-tracker/internal/transport/http/response"
)

const ContextUserKey = "auth_user"

// UserResolver turns a bearer token into the acting user.
// *app.AuthService satisfies it.
type UserResolver interface {
	ResolveToken(ctx context.Context, token string) (*model.User, error)
}

// Authenticate verifies the bearer token, loads the user behind it, enforces
// the approval gate and stores the resolved user in the request context.
func Authenticate(resolver UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "missing authorization header")
			c.Abort()
			return
		}

		const prefix = "Bearer "
		if !strings.HasPrefix(authHeader, prefix) {
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid authorization scheme")
			c.Abort()
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
		user, err := resolver.ResolveToken(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, jwtutil.ErrInvalidToken):
				response.Error(c, http.StatusUnauthorized, response.CodeInvalidToken, "invalid or expired token")
			case errors.Is(err, app.ErrUserNotFound):
				response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "could not validate credentials")
			case errors.Is(err, app.ErrPendingApproval):
				response.Error(c, http.StatusForbidden, response.CodePendingUser, "your account is pending admin approval")
			default:
				response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "authentication failed")
			}
			c.Abort()
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// RequireAdmin layers the admin gate on top of Authenticate.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "could not validate credentials")
			c.Abort()
			return
		}
		if !user.IsAdmin {
			response.Error(c, http.StatusForbidden, response.CodeAdminOnly, "admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (*model.User, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*model.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}
