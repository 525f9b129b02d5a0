package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/utils"
)

// WebSocketAuthMiddleware reads the token from ?token= since browsers cannot
// set headers on a websocket upgrade.
func WebSocketAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Set(ctxRole, claims.Role)
		c.Set(ctxEmployeeID, claims.EmployeeID)
		c.Next()
	}
}
