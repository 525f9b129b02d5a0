package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.Silence()
	utils.SetJWTSecret("middleware-test", time.Hour)
}

func protected(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	handlers := append(mw, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"role": c.GetString(ctxRole), "id": c.GetUint(ctxEmployeeID)})
	})
	r.GET("/p", handlers...)
	r.GET("/ws/:role", handlers...)
	return r
}

func do(r http.Handler, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestEnhancedAuthMiddleware(t *testing.T) {
	r := protected(EnhancedAuthMiddleware())
	token, err := utils.GenerateToken(5, "manager")
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, do(r, "/p", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/p", token).Code, "missing Bearer prefix")
	assert.Equal(t, http.StatusUnauthorized, do(r, "/p", "Bearer nope").Code)

	w := do(r, "/p", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"manager"`)
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))

	assert.Equal(t, http.StatusOK, do(r, "/p?token="+token, "").Code)
}

func TestRequireRole(t *testing.T) {
	r := protected(EnhancedAuthMiddleware(), RequireRole("admin", "manager"))
	waiter, _ := utils.GenerateToken(2, "waiter")
	admin, _ := utils.GenerateToken(1, "admin")

	assert.Equal(t, http.StatusForbidden, do(r, "/p", "Bearer "+waiter).Code)
	assert.Equal(t, http.StatusOK, do(r, "/p", "Bearer "+admin).Code)
}

func TestWebSocketRoleCheck(t *testing.T) {
	r := protected(WebSocketAuthMiddleware(), RoleCheck())
	chef, _ := utils.GenerateToken(4, "chef")

	assert.Equal(t, http.StatusUnauthorized, do(r, "/ws/chef", "").Code)
	assert.Equal(t, http.StatusOK, do(r, "/ws/chef?token="+chef, "").Code)
	assert.Equal(t, http.StatusForbidden, do(r, "/ws/manager?token="+chef, "").Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	r := protected(rl.RateLimit())

	assert.Equal(t, http.StatusOK, do(r, "/p", "").Code)
	assert.Equal(t, http.StatusOK, do(r, "/p", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, "/p", "").Code)

	off := protected(NewRateLimiter(0, 1).RateLimit())
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, do(off, "/p", "").Code)
	}
}
