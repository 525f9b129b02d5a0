package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/utils"
)

// RequireRole lets the request through only when the token carries one of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		role, exists := c.Get(ctxRole)
		if !exists {
			utils.AbortError(c, http.StatusUnauthorized, fmt.Errorf("unauthorized"))
			return
		}
		if !allowed[role.(string)] {
			utils.AbortError(c, http.StatusForbidden, fmt.Errorf("role %s may not do this", role))
			return
		}
		c.Next()
	}
}

// RoleCheck guards /ws/:role: the path role must match the token role,
// admins may listen on any channel.
func RoleCheck() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.Param("role")
		userRole, exists := c.Get(ctxRole)
		if !exists {
			utils.AbortError(c, http.StatusUnauthorized, fmt.Errorf("unauthorized"))
			return
		}
		if userRole != "admin" && userRole != role {
			utils.AbortError(c, http.StatusForbidden, fmt.Errorf("%s access required", role))
			return
		}
		c.Next()
	}
}
