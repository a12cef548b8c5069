package endpoints

import (
	"net/http"

	"github.com/gin-contrib/graceful"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gorilla "github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"printhub"
	"printhub/internal/api/handler/websocket"
)

var upgrader = gorilla.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Agents connect from arbitrary machines; authentication happens on the
	// socket itself, not at the HTTP layer.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type websocketHandler struct {
	hub       *websocket.Hub
	processor *websocket.MessageProcessor
	config    printhub.AppConfig
	logger    zerolog.Logger
}

// WebsocketHandler upgrades agent connections. The route carries no
// middleware: a fresh connection is anonymous until it authenticates in-band
// or hits the auth timeout.
func WebsocketHandler(router *graceful.Graceful, hub *websocket.Hub, processor *websocket.MessageProcessor) {
	h := &websocketHandler{
		hub:       hub,
		processor: processor,
		config:    printhub.GetConfig(),
		logger:    printhub.Logger,
	}

	router.GET("/api/ws", h.serve)
}

func (slf *websocketHandler) serve(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slf.logger.Error().Err(err).Msg("Websocket upgrade failed")
		return
	}

	client := websocket.NewClient(
		uuid.New().String(),
		slf.hub,
		conn,
		slf.processor,
		slf.config.DispatchConfig.AuthTimeout,
		slf.logger,
	)
	slf.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
