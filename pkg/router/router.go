package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/medreza/giftcard-validation-service/pkg/auth"
	"github.com/medreza/giftcard-validation-service/pkg/handlers"
	"github.com/medreza/giftcard-validation-service/pkg/middleware"
	"github.com/medreza/giftcard-validation-service/pkg/repository"
)

type Options struct {
	PublicDir      string
	AllowedOrigins []string
}

func New(repo *repository.GiftCardRepository, guard auth.Guard, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	cardHandler := handlers.NewGiftCardHandler(repo)
	adminAuth := middleware.AdminAuth(guard)

	router.GET("/health", handlers.HealthCheck)
	if opts.PublicDir != "" {
		router.GET("/", handlers.Page(opts.PublicDir, "index.html"))
		router.GET("/admin", handlers.Page(opts.PublicDir, "admin.html"))
	}

	api := router.Group("/api")
	{
		api.GET("/price", cardHandler.GetPrice)
		api.POST("/validate", cardHandler.ValidateCard)
	}

	admin := api.Group("/admin", adminAuth)
	{
		admin.POST("/login", cardHandler.Login)
		admin.POST("/price", cardHandler.SetGlobalPrice)
		admin.POST("/cards", cardHandler.ListCards)
		admin.POST("/cards/status", cardHandler.UpdateCardStatus)
		admin.POST("/cards/price", cardHandler.UpdateCardPrice)
		admin.POST("/stats", cardHandler.GetStats)
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = []string{"Origin", "Content-Type", middleware.RequestIDHeader}
	cfg.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	cfg.MaxAge = 12 * time.Hour

	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
