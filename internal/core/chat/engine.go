package chat

import (
	"context"

	"recipe-chatbot/internal/core/intent"
	"recipe-chatbot/internal/core/recipe"
	"recipe-chatbot/internal/core/session"
	"recipe-chatbot/internal/infrastructure/config"
	"recipe-chatbot/internal/pkg/common"

	"go.uber.org/zap"
)

// Reply 引擎對一則訊息的結構化回覆。
// Text 是渲染後的回應；其餘欄位保留結構化資料，讓傳輸層能確定性地輸出。
type Reply struct {
	Intent      string                `json:"intent"`
	Text        string                `json:"text"`
	Ingredients []string              `json:"ingredients,omitempty"`
	DietTags    []string              `json:"diet_tags,omitempty"`
	Recipes     []recipe.ScoredRecipe `json:"recipes,omitempty"`
	Recipe      *recipe.Recipe        `json:"recipe,omitempty"`
}

// Engine 對話引擎。分類訊息、對照會話狀態解析槽位、
// 驅動匹配與過濾，並記錄結果列表供序號取回。
// 引擎本身無狀態，所有可變狀態都在會話儲存裡。
type Engine struct {
	matcher   *recipe.Matcher
	store     session.Store
	formatter *Formatter
	search    config.SearchConfig
}

// NewEngine 創建對話引擎
func NewEngine(matcher *recipe.Matcher, store session.Store, search config.SearchConfig) *Engine {
	return &Engine{
		matcher:   matcher,
		store:     store,
		formatter: NewFormatter(),
		search:    search,
	}
}

// HandleMessage 處理一則用戶訊息並產生回覆。
// 整個狀態轉移在會話儲存的 Update 中原子地完成；
// 只有食譜庫／會話儲存失敗會以錯誤回傳，其餘情況一律化為可讀回覆。
func (e *Engine) HandleMessage(ctx context.Context, sessionKey, message string) (*Reply, error) {
	res := intent.Classify(message)

	common.LogDebug("訊息已分類",
		zap.String("intent", res.Intent.String()),
		zap.Int("ingredients", len(res.Ingredients)),
		zap.Int("diet_tags", len(res.DietTags)),
	)

	reply := &Reply{
		Intent:      res.Intent.String(),
		Ingredients: res.Ingredients,
		DietTags:    dietNames(res.DietTags),
	}

	// 每種意圖都經過 Update：會話在首則訊息時惰性建立，
	// 同一鍵的併發訊息被按鍵鎖序列化。
	err := e.store.Update(ctx, sessionKey, func(state *session.State) error {
		switch res.Intent {
		case intent.KindGreeting:
			// 不改狀態，只回報當前待用的飲食限制
			reply.Text = e.formatter.FormatGreeting(state.PendingDiet)
			return nil

		case intent.KindIngredientSearch:
			return e.runSearch(ctx, state, res.Ingredients, res.DietTags, reply)

		case intent.KindDietRestriction:
			// 整組替換，不與既有限制合併
			state.PendingDiet = res.DietTags
			if len(res.Ingredients) > 0 {
				// 同一則訊息帶了食材，立即執行搜尋
				return e.runSearch(ctx, state, res.Ingredients, res.DietTags, reply)
			}
			reply.Text = e.formatter.FormatDietSet(res.DietTags)
			return nil

		case intent.KindRecipeDetail:
			// 序號從 1 起算，對照上一輪結果
			if len(state.LastResults) == 0 {
				reply.Text = e.formatter.FormatNoPriorSearch()
				return nil
			}
			if res.RecipeIndex < 1 || res.RecipeIndex > len(state.LastResults) {
				reply.Text = e.formatter.FormatIndexOutOfRange(res.RecipeIndex, len(state.LastResults))
				return nil
			}
			selected := state.LastResults[res.RecipeIndex-1]
			reply.Recipe = &selected.Recipe
			reply.Text = e.formatter.FormatRecipeDetail(selected.Recipe)
			return nil

		case intent.KindClearDiet:
			removed := state.PendingDiet
			state.PendingDiet = nil
			reply.Text = e.formatter.FormatDietCleared(removed)
			return nil

		case intent.KindMealPlan:
			reply.Text = e.formatter.FormatMealPlan()
			return nil

		default:
			reply.Text = e.formatter.FormatUnknown()
			return nil
		}
	})
	if err != nil {
		return nil, err
	}

	return reply, nil
}

// runSearch 執行一次食材搜尋並更新會話狀態。
// 訊息未帶飲食標籤時，消費會話中待用的限制；
// 不論結果如何，這次搜尋之後待用限制一律清空（一次性語義）。
func (e *Engine) runSearch(ctx context.Context, state *session.State, ingredients []string, tags []intent.Diet, reply *Reply) error {
	resolved := tags
	if len(resolved) == 0 {
		resolved = state.PendingDiet
	}

	// 預期會套用飲食過濾時，放大檢索上限以補償被刪除的候選
	searchLimit := e.search.MaxResults
	if len(resolved) > 0 {
		searchLimit = e.search.MaxResults * e.search.RetrievalMultiplier
	}

	results, err := e.matcher.Search(ctx, ingredients, searchLimit)
	if err != nil {
		// 食譜庫失敗必須向上冒泡，不可與查無結果混同；
		// 狀態在此之前未被修改，失敗不消費待用限制
		return err
	}

	filtered := recipe.FilterByDiet(results, resolved)
	if len(filtered) > e.search.MaxResults {
		filtered = filtered[:e.search.MaxResults]
	}

	state.LastResults = filtered
	state.PendingDiet = nil

	reply.DietTags = dietNames(resolved)
	reply.Recipes = filtered
	reply.Text = e.formatter.FormatResults(filtered, ingredients)
	return nil
}

// dietNames 將標籤轉為字串切片
func dietNames(tags []intent.Diet) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.String())
	}
	return out
}
