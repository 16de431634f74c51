package chat

import (
	"context"
	"errors"
	"net/http"

	chatEngine "recipe-chatbot/internal/core/chat"
	"recipe-chatbot/internal/core/recipe"
	"recipe-chatbot/internal/core/session"
	"recipe-chatbot/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChatRequest 對話請求
type ChatRequest struct {
	Message string `json:"message"`
	// SessionID 省略時由伺服器生成，回應會帶回同一個 ID
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse 對話響應
type ChatResponse struct {
	Response  string                `json:"response"`
	Intent    string                `json:"intent"`
	SessionID string                `json:"session_id"`
	Recipes   []recipe.ScoredRecipe `json:"recipes,omitempty"`
	Recipe    *recipe.Recipe        `json:"recipe,omitempty"`
}

// Handler 對話處理器
type Handler struct {
	engine *chatEngine.Engine
	store  session.Store
}

// NewHandler 創建對話處理器
func NewHandler(engine *chatEngine.Engine, store session.Store) *Handler {
	return &Handler{
		engine: engine,
		store:  store,
	}
}

// HandleChat 處理對話請求
func (h *Handler) HandleChat(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")

	// 解析請求
	var req ChatRequest
	if err := common.DecodeJSON(c.Request.Body, &req); err != nil {
		common.LogError("Invalid request format",
			zap.Error(err),
			zap.String("request_id", requestID))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}

	// 會話鍵由傳輸層提供；省略時生成一個並帶回給用戶端
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = common.GenerateUUID()
	}

	// 交給對話引擎
	reply, err := h.engine.HandleMessage(c.Request.Context(), sessionID, req.Message)
	if err != nil {
		h.writeEngineError(c, err, requestID)
		return
	}

	c.JSON(http.StatusOK, ChatResponse{
		Response:  reply.Text,
		Intent:    reply.Intent,
		SessionID: sessionID,
		Recipes:   reply.Recipes,
		Recipe:    reply.Recipe,
	})

	common.LogInfo("對話處理完成",
		zap.String("request_id", requestID),
		zap.String("intent", reply.Intent),
		zap.Int("recipes", len(reply.Recipes)),
	)
}

// HandleClearSession 刪除指定會話
func (h *Handler) HandleClearSession(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Session key is required",
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}

	if err := h.store.Clear(c.Request.Context(), key); err != nil {
		h.writeEngineError(c, err, c.GetHeader("X-Request-ID"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

// writeEngineError 將引擎錯誤映射為 HTTP 響應。
// 食譜庫／會話儲存失敗回 503（可重試），與「查無結果」嚴格區分。
func (h *Handler) writeEngineError(c *gin.Context, err error, requestID string) {
	switch {
	case errors.Is(err, common.ErrCorpusUnavailable), errors.Is(err, common.ErrSessionStoreUnavailable):
		common.LogError("後端協作者暫時不可用",
			zap.Error(err),
			zap.String("request_id", requestID))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Service temporarily unavailable, please retry",
			"code":  common.ErrCodeServiceUnavailable,
		})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{
			"error": "Request timeout",
			"code":  common.ErrCodeGatewayTimeout,
		})
	default:
		common.LogError("對話處理失敗",
			zap.Error(err),
			zap.String("request_id", requestID))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
			"code":  common.ErrCodeInternalError,
		})
	}
}
