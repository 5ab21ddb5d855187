package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"roomcast/internal/config"
	"roomcast/internal/core"
	"roomcast/internal/media"
	"roomcast/internal/metrics"
)

// NewServer builds the HTTP server: the WebSocket relay endpoint plus the
// synchronous management and upload surfaces.
func NewServer(reg *core.Registry, mediaStore *media.Store, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(LoggerMiddleware(logger), gin.Recovery())

	wsHandler := NewWSHandler(reg, cfg, logger)
	roomHandlers := NewRoomHandlers(reg, logger)
	uploadHandlers := NewUploadHandlers(mediaStore, logger)

	router.GET("/health", healthHandler)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/ws", func(c *gin.Context) {
		wsHandler.ServeHTTP(c.Writer, c.Request)
	})

	router.GET("/rooms", roomHandlers.ListRooms)
	router.GET("/rooms/:room/users", roomHandlers.ListRoomUsers)
	router.DELETE("/rooms/:room", roomHandlers.DeleteRoom)

	router.POST("/uploads", uploadHandlers.Upload)
	router.GET("/uploads/:id", uploadHandlers.Download)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
