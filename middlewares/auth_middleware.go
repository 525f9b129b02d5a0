package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/utils"
)

const (
	ctxEmployeeID = "employee_id"
	ctxRole       = "role"
	ctxToken      = "token"
)

// EnhancedAuthMiddleware accepts "Authorization: Bearer <jwt>" or ?token=<jwt>.
func EnhancedAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			if q := c.Query("token"); q != "" {
				token = "Bearer " + q
			}
		}

		if token == "" {
			utils.AbortError(c, http.StatusUnauthorized, errors.New("missing token"))
			return
		}
		if !strings.HasPrefix(token, "Bearer ") {
			utils.AbortError(c, http.StatusUnauthorized, errors.New("malformed authorization header"))
			return
		}

		tokenString := strings.TrimPrefix(token, "Bearer ")
		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.AbortError(c, http.StatusUnauthorized, err)
			return
		}

		c.Set(ctxEmployeeID, claims.EmployeeID)
		c.Set(ctxRole, claims.Role)
		c.Set(ctxToken, tokenString)
		c.Next()
	}
}
