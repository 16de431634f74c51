package recipes

import (
	"errors"
	"net/http"
	"strconv"

	"recipe-chatbot/internal/core/recipe"
	"recipe-chatbot/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 食譜查詢處理器
type Handler struct {
	corpus recipe.Corpus
}

// NewHandler 創建食譜查詢處理器
func NewHandler(corpus recipe.Corpus) *Handler {
	return &Handler{corpus: corpus}
}

// HandleGetByID 以 ID 取得單筆食譜
func (h *Handler) HandleGetByID(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Recipe id must be a positive integer",
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}

	r, err := h.corpus.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrRecipeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Recipe not found",
				"code":  common.ErrCodeNotFound,
			})
			return
		}
		common.LogError("食譜查詢失敗",
			zap.Error(err),
			zap.Int("id", id),
			zap.String("request_id", requestID))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Service temporarily unavailable, please retry",
			"code":  common.ErrCodeServiceUnavailable,
		})
		return
	}

	c.JSON(http.StatusOK, r)
}
