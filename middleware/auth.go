package middleware

import (
	"net/http"
	"strings"

	"Vine/pkg/context"
	"Vine/pkg/jwt"
	"Vine/pkg/log"
	"Vine/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, http.StatusUnauthorized, "missing Authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Abort(c, http.StatusUnauthorized, "malformed Authorization header")
			return
		}

		claims, err := jwt.ParseToken(secret, "access", parts[1])
		if err != nil {
			log.L.Debug("token rejected", zap.Error(err))
			response.Abort(c, http.StatusUnauthorized, "invalid token")
			return
		}
		c.Set(context.CtxUserID, claims.UserID)
		c.Set(context.CtxEmail, claims.Email)
		c.Set(context.CtxRole, claims.Role)

		c.Next()
	}
}

// RequireAdmin 必须挂在 Auth 之后，只认 token 中的 role
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if context.GetRole(c) != jwt.RoleAdmin {
			response.Abort(c, http.StatusForbidden, "admin role required")
			return
		}
		c.Next()
	}
}
