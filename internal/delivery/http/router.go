package http

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	ginprometheus "github.com/zsais/go-gin-prometheus"

	"hekayat-server/internal/delivery/websocket"
)

// RouterConfig - настройки HTTP-слоя.
type RouterConfig struct {
	AllowOrigins []string
}

// NewRouter собирает gin-движок: CORS, prometheus-метрики (/metrics),
// health-проба, API и апгрейд чата.
func NewRouter(cfg RouterConfig, handler *Handler, hub *websocket.Hub) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowOrigins
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	p := ginprometheus.NewPrometheus("hekayat")
	p.Use(r)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ws/chat", gin.WrapH(hub.Handler()))

	handler.RegisterRoutes(r)
	return r
}
