package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"todoapi/internal/model"
	"todoapi/internal/pkg/jwtutil"
	"todoapi/internal/transport/http/response"
)

const ContextUserKey = "current_user"

// UserResolver loads the token's subject from the store. A token that
// outlives its user must not pass the gate.
type UserResolver interface {
	GetUserByID(ctx context.Context, id uint) (*model.User, error)
}

func AuthJWT(secret string, users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, "no token")
			c.Abort()
			return
		}

		const prefix = "Bearer "
		if !strings.HasPrefix(authHeader, prefix) {
			response.Error(c, http.StatusUnauthorized, "no token")
			c.Abort()
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
		claims, err := jwtutil.ParseToken(secret, token)
		if err != nil {
			if errors.Is(err, jwtutil.ErrTokenExpired) {
				response.Error(c, http.StatusUnauthorized, "expired token")
			} else {
				response.Error(c, http.StatusUnauthorized, "invalid token")
			}
			c.Abort()
			return
		}

		user, err := users.GetUserByID(c.Request.Context(), claims.UserID)
		if err != nil || user == nil {
			response.Error(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the user attached by AuthJWT.
func CurrentUser(c *gin.Context) (*model.User, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*model.User)
	return user, ok
}
