package session

import (
	"context"

	"recipe-chatbot/internal/core/intent"
	"recipe-chatbot/internal/core/recipe"
)

// State 單一會話的可變狀態。
// PendingDiet 由下一次食材搜尋一次性消費；
// LastResults 在每次新搜尋時整批替換，對用戶以 1 起算的序號取回。
type State struct {
	PendingDiet []intent.Diet         `json:"pending_diet,omitempty"`
	LastResults []recipe.ScoredRecipe `json:"last_results,omitempty"`
}

// Store 會話儲存介面。鍵由傳輸層提供，核心視為不透明字串。
// 同一鍵的併發訊息必須得到原子的讀-改-寫；不同鍵的狀態彼此完全獨立。
type Store interface {
	// Get 讀取會話狀態；不存在時回傳零值與 false
	Get(ctx context.Context, key string) (State, bool, error)
	// Update 原子地讀-改-寫指定鍵的狀態；不存在時以零值建立
	Update(ctx context.Context, key string, fn func(*State) error) error
	// Clear 移除指定鍵的會話
	Clear(ctx context.Context, key string) error
	// Len 回傳當前會話數量，僅供狀態報告
	Len(ctx context.Context) (int, error)
	// Close 關閉儲存
	Close() error
}
