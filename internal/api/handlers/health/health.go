package health

import (
	"net/http"
	"runtime"
	"time"

	"recipe-chatbot/internal/core/recipe"
	"recipe-chatbot/internal/core/session"
	"recipe-chatbot/internal/infrastructure/config"
	"recipe-chatbot/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Corpus    *CorpusStatus          `json:"corpus,omitempty"`
	Sessions  *SessionStatus         `json:"sessions,omitempty"`
}

// CorpusStatus 食譜庫狀態
type CorpusStatus struct {
	Recipes int `json:"recipes"`
}

// SessionStatus 會話儲存狀態
type SessionStatus struct {
	Active int `json:"active"`
}

// HealthCheck 健康檢查處理器
func HealthCheck(c *gin.Context) {
	// 獲取配置
	cfg, exists := c.Get("config")
	if !exists {
		common.LogError("Configuration not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Configuration not found",
		})
		return
	}
	config, ok := cfg.(*config.Config)
	if !ok {
		common.LogError("Invalid configuration type in context")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Invalid configuration type",
		})
		return
	}

	// 獲取運行時信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	// 構建響應
	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   config.App.Version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}

	// 食譜庫狀態（資訊性，失敗不影響整體健康）
	if v, exists := c.Get("corpus"); exists {
		if corpus, ok := v.(recipe.Corpus); ok {
			if count, err := corpus.Count(c.Request.Context()); err == nil {
				response.Corpus = &CorpusStatus{Recipes: count}
			}
		}
	}

	// 會話儲存狀態
	if v, exists := c.Get("session_store"); exists {
		if store, ok := v.(session.Store); ok {
			if n, err := store.Len(c.Request.Context()); err == nil {
				response.Sessions = &SessionStatus{Active: n}
			}
		}
	}

	// 記錄請求
	common.LogInfo("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查處理器
func ReadinessCheck(c *gin.Context) {
	// 食譜庫可查詢即視為就緒
	if v, exists := c.Get("corpus"); exists {
		if corpus, ok := v.(recipe.Corpus); ok {
			if _, err := corpus.Count(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status": "not ready",
				})
				return
			}
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
