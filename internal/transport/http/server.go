package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/dineshsuthar123/telecare-realtime/internal/auth"
	"github.com/dineshsuthar123/telecare-realtime/internal/config"
	"github.com/dineshsuthar123/telecare-realtime/internal/core"
	"github.com/dineshsuthar123/telecare-realtime/internal/notify"
	"github.com/dineshsuthar123/telecare-realtime/internal/store"
)

// NewServer builds the HTTP server: the signaling relay at /ws, the
// notification stream under /api, and the REST surface around them.
func NewServer(hub *core.Hub, authService *auth.Service, st store.Store, streamer *notify.Streamer, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))

	router.GET("/healthz", func(c *gin.Context) {
		c.String(stdhttp.StatusOK, "ok")
	})

	apiHandlers := NewAPIHandlers(authService, logger)
	router.POST("/api/register", apiHandlers.Register)
	router.POST("/api/login", apiHandlers.Login)

	authorized := router.Group("/api", AuthMiddleware(authService, logger))

	activityHandlers := NewActivityHandlers(st, logger)
	authorized.POST("/activities", activityHandlers.CreateActivity)
	authorized.GET("/activities", activityHandlers.ListActivities)

	sseHandler := NewSSEHandler(streamer, logger)
	authorized.GET("/notifications/stream", sseHandler.Stream)

	wsHandler := NewWSHandler(hub, logger)
	router.GET("/ws", gin.WrapH(wsHandler))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
