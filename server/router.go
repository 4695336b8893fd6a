package server

import (
	"time"

	httpHandler "github.com/elliekim312/youtube-dashboard/interfaces/http"
	"github.com/elliekim312/youtube-dashboard/interfaces/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouterConfig holds the transport settings the router needs
type RouterConfig struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
}

func InitiateRouter(config RouterConfig, searchHandler httpHandler.ISearchHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())

	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Requested-With"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(config.AllowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = config.AllowedOrigins
	}
	router.Use(cors.New(corsConfig))

	router.GET("/healthz", searchHandler.Healthz)

	api := router.Group("api")
	api.Use(middleware.Timeout(config.RequestTimeout))
	api.GET("/videos/search", searchHandler.Search)

	return router
}
