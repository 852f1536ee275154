package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gearguard/gearguard-api/pkg/helpers"
	"github.com/gearguard/gearguard-api/pkg/response"
)

const CtxUserIDKey = "userID"

// JWTAuth validates the Authorization bearer token and injects the user ID
// into the Gin context. Missing, invalid and expired tokens each get their own
// message so the client can distinguish "sign in" from "sign in again".
func JWTAuth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Error[any](c, http.StatusUnauthorized, "no token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.Parse(token)
		if err != nil {
			msg := "token is invalid"
			if errors.Is(err, helpers.ErrTokenExpired) {
				msg = "token has expired"
			}
			response.Error[any](c, http.StatusUnauthorized, msg, nil)
			c.Abort()
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
