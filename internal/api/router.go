package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	chatHandler "recipe-chatbot/internal/api/handlers/chat"
	"recipe-chatbot/internal/api/handlers/health"
	recipesHandler "recipe-chatbot/internal/api/handlers/recipes"
	"recipe-chatbot/internal/api/middleware"
	chatEngine "recipe-chatbot/internal/core/chat"
	recipeCore "recipe-chatbot/internal/core/recipe"
	"recipe-chatbot/internal/core/session"
	"recipe-chatbot/internal/infrastructure/config"
	"recipe-chatbot/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 30 * time.Second
	// 請求體大小限制 (64KB，純文字對話不需要更大)
	maxBodySize = 64 << 10
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, corpus recipeCore.Corpus, store session.Store) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 限流與請求去重
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	router.Use(middleware.Deduplication(cfg))

	// 初始化服務
	matcher := recipeCore.NewMatcher(corpus, cfg.Search.RetrievalMultiplier)
	engine := chatEngine.NewEngine(matcher, store, cfg.Search)
	if engine == nil {
		common.LogError("Failed to initialize chat engine")
		return nil, fmt.Errorf("failed to initialize chat engine")
	}

	common.LogInfo("Chat services initialized successfully",
		zap.String("session_store", cfg.Session.Store),
		zap.Int("max_results", cfg.Search.MaxResults),
		zap.Int("retrieval_multiplier", cfg.Search.RetrievalMultiplier),
	)

	// 全局中間件：設置超時和服務
	router.Use(func(c *gin.Context) {
		// 設置請求超時
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		// 設置配置與服務，供處理器和健康檢查取用
		c.Set("config", cfg)
		c.Set("corpus", corpus)
		c.Set("session_store", store)

		// 處理請求
		c.Next()

		// 檢查是否超時
		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  "REQUEST_TIMEOUT",
				"details": gin.H{
					"timeout": timeoutDuration.String(),
				},
			})
			c.Abort()
			return
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	{
		chatHandlerInstance := chatHandler.NewHandler(engine, store)
		recipesHandlerInstance := recipesHandler.NewHandler(corpus)

		// 對話入口
		api.POST("/chat", chatHandlerInstance.HandleChat)

		// 會話管理
		api.DELETE("/session/:key", chatHandlerInstance.HandleClearSession)

		// 食譜查詢
		api.GET("/recipe/:id", recipesHandlerInstance.HandleGetByID)
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
