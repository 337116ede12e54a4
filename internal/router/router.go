package router

import (
	"fmt"
	"strings"

	"github.com/alphadeveloper12/dosta-backend/internal/cache"
	"github.com/alphadeveloper12/dosta-backend/internal/config"
	publichandlers "github.com/alphadeveloper12/dosta-backend/internal/http/handlers/public"
	"github.com/alphadeveloper12/dosta-backend/internal/logger"
	"github.com/alphadeveloper12/dosta-backend/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "dosta"
	}
	redisClient := cache.Client()
	confirmRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:order_confirm", redisPrefix),
		WindowSeconds: cfg.Security.ConfirmRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.ConfirmRateLimit.MaxAttempts,
		Message:       "too many order attempts",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/locations", publicHandler.ListLocations)
			public.GET("/locations/:id/slots", publicHandler.ListTimeSlots)
			public.GET("/locations/:id/stock", publicHandler.ListMachineStock)
		}

		// 用户接口（JWT）
		user := apiV1.Group("/user")
		user.Use(UserJWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo))
		{
			user.POST("/orders/confirm", RateLimitMiddleware(redisClient, confirmRule, KeyByUserID), publicHandler.ConfirmOrder)
			user.GET("/orders", publicHandler.ListOrders)
			user.GET("/orders/:order_no/progress", publicHandler.GetOrderProgress)
			user.PATCH("/orders/:order_no/progress", publicHandler.AdvanceOrderProgress)
			user.POST("/orders/:order_no/pickup-code", publicHandler.IssuePickupCode)

			user.GET("/cart", publicHandler.GetCart)
			user.PUT("/cart", publicHandler.SyncCart)
			user.DELETE("/cart", publicHandler.ClearCart)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
