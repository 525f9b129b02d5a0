package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/kds"
	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// origins are enforced by the CORS middleware and the token check
	CheckOrigin: func(r *http.Request) bool { return true },
}

// KDSHandler -> websocket feed of floor events for /ws/:role
func KDSHandler(c *gin.Context) {
	role := c.Param("role")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.WithError(err).Warn("websocket upgrade")
		return
	}

	kds.RegisterClient(ws, role)
	utils.InfoLogger.WithField("role", role).Debug("websocket client connected")

	// screens only listen; reading keeps control frames flowing until disconnect
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	kds.UnregisterClient(ws)
}
