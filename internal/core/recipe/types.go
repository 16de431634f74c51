package recipe

import "context"

// Recipe 食譜庫中的一筆食譜。ID 由食譜庫指派且穩定；核心只讀不寫。
type Recipe struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	Ingredients  string `json:"ingredients"`
	Instructions string `json:"instructions"`
}

// ScoredRecipe 附帶匹配計數的食譜。每次查詢重新計算，不做持久化。
type ScoredRecipe struct {
	Recipe
	// MatchCount 查詢詞在食材文字中出現的數量（大小寫不敏感的子字串）
	MatchCount int `json:"match_count"`
}

// Corpus 食譜庫協作者的查詢介面。
// 檢索層對食材文字做大小寫不敏感的子字串 OR 匹配；
// 對固定的庫快照必須是確定性的。
type Corpus interface {
	// FindByAnyIngredient 回傳食材文字包含任一查詢詞的食譜
	FindByAnyIngredient(ctx context.Context, terms []string, retrievalLimit int) ([]Recipe, error)
	// GetByID 以 ID 取得單筆食譜
	GetByID(ctx context.Context, id int) (*Recipe, error)
	// Count 回傳食譜總數，僅供啟動時的資訊性報告
	Count(ctx context.Context) (int, error)
}
