package recipe

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"recipe-chatbot/internal/pkg/common"
)

// Matcher 依食材詞檢索並排序食譜
type Matcher struct {
	corpus Corpus
	// retrievalMultiplier 檢索上限相對最終結果數的放大倍數，
	// 補償下游飲食過濾會刪除候選；引擎本身不知道過濾是否會執行
	retrievalMultiplier int
}

// NewMatcher 創建食譜匹配器
func NewMatcher(corpus Corpus, retrievalMultiplier int) *Matcher {
	if retrievalMultiplier < 1 {
		retrievalMultiplier = 1
	}
	return &Matcher{
		corpus:              corpus,
		retrievalMultiplier: retrievalMultiplier,
	}
}

// Search 回傳食材文字包含任一查詢詞的食譜，依匹配計數降序排列並截斷到 limit。
// 計數相同時保留檢索順序（確定性的平手處理，並非語義上的排名）。
// 查詢詞為空時回傳空結果；食譜庫失敗以 ErrCorpusUnavailable 包裝向上傳播，
// 絕不與「查無結果」混同。
func (m *Matcher) Search(ctx context.Context, terms []string, limit int) ([]ScoredRecipe, error) {
	if len(terms) == 0 || limit <= 0 {
		return nil, nil
	}

	retrieved, err := m.corpus.FindByAnyIngredient(ctx, terms, limit*m.retrievalMultiplier)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCorpusUnavailable, err)
	}

	// 逐筆計算匹配計數
	scored := make([]ScoredRecipe, 0, len(retrieved))
	for _, r := range retrieved {
		ingredientsLower := strings.ToLower(r.Ingredients)
		count := 0
		for _, term := range terms {
			if strings.Contains(ingredientsLower, strings.ToLower(term)) {
				count++
			}
		}
		scored = append(scored, ScoredRecipe{Recipe: r, MatchCount: count})
	}

	// 穩定排序：匹配計數降序，平手保留檢索順序
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].MatchCount > scored[j].MatchCount
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}
