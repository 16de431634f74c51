package recipe

import (
	"strings"

	"recipe-chatbot/internal/core/intent"
)

// 關鍵詞排除表。這是啟發式的關鍵詞比對，不是營養計算；
// 誤判在所難免，只要對固定的表結果確定且可重現即可接受。

// meatKeywords 素食排除的肉類與魚類關鍵詞
var meatKeywords = []string{
	"chicken", "beef", "pork", "lamb", "turkey", "duck", "goose",
	"meat", "bacon", "sausage", "ham", "prosciutto", "salami",
	"fish", "salmon", "tuna", "cod", "shrimp", "crab", "lobster",
	"anchovy", "sardine", "trout", "tilapia", "halibut",
	"steak", "ribs", "chop", "cutlet", "ground beef", "ground pork",
	"pepperoni", "chorizo", "veal", "venison", "bison",
}

// animalKeywords 純素額外排除的動物性產品關鍵詞
var animalKeywords = []string{
	"milk", "cheese", "butter", "egg", "cream", "yogurt", "honey",
	"whey", "casein", "lactose", "ghee", "buttermilk", "sour cream",
	"mayonnaise", "mayo", "gelatin", "lard",
}

// highCarbKeywords 生酮／低碳排除的高碳水關鍵詞
var highCarbKeywords = []string{
	"bread", "pasta", "rice", "potato", "flour", "sugar",
	"noodle", "tortilla", "bagel", "cereal", "oat", "quinoa",
	"corn", "wheat", "barley", "couscous",
}

// FilterByDiet 以飲食限制過濾食譜。
// 純子序列：保留相對順序，不重排也不重新計分；標籤為空時原樣返回。
// 多個限制取邏輯 AND（任一限制觸發排除即移除），單一限制內的關鍵詞取 OR。
// 高蛋白沒有定義排除表，作為 no-op 通過（已知限制，刻意保留）。
func FilterByDiet(recipes []ScoredRecipe, tags []intent.Diet) []ScoredRecipe {
	if len(tags) == 0 {
		return recipes
	}

	filtered := make([]ScoredRecipe, 0, len(recipes))
	for _, r := range recipes {
		// 檢查範圍涵蓋食材、標題與作法
		text := strings.ToLower(r.Ingredients + " " + r.Title + " " + r.Instructions)
		if dietAllows(text, tags) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// dietAllows 檢查食譜全文是否通過所有飲食限制
func dietAllows(text string, tags []intent.Diet) bool {
	for _, tag := range tags {
		switch tag {
		case intent.DietVegetarian:
			if containsAny(text, meatKeywords) {
				return false
			}
		case intent.DietVegan:
			// 純素蘊含素食：先排肉類，再排動物性產品
			if containsAny(text, meatKeywords) || containsAny(text, animalKeywords) {
				return false
			}
		case intent.DietKeto, intent.DietLowCarb:
			if containsAny(text, highCarbKeywords) {
				return false
			}
		case intent.DietHighProtein:
			// 無排除表，不過濾
		}
	}
	return true
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
