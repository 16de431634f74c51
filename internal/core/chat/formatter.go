package chat

import (
	"fmt"
	"strings"

	"recipe-chatbot/internal/core/intent"
	"recipe-chatbot/internal/core/recipe"
)

// Formatter 將引擎產出的結構化資料渲染為用戶可讀文字。
// 只消費完整的結構化輸入，渲染因此是確定性的。
type Formatter struct{}

// NewFormatter 創建回應渲染器
func NewFormatter() *Formatter {
	return &Formatter{}
}

// FormatGreeting 渲染問候回應，帶出當前待用的飲食限制
func (f *Formatter) FormatGreeting(pending []intent.Diet) string {
	if len(pending) == 0 {
		return "Hi there! I'm your recipe assistant. Tell me what you have, e.g. \"I have chicken, rice and eggs\", and I'll find recipes for you."
	}
	return fmt.Sprintf(
		"Hi there! I'm your recipe assistant. Your %s preference is still active and will apply to your next search.",
		joinDiets(pending),
	)
}

// FormatResults 渲染搜尋結果列表
func (f *Formatter) FormatResults(results []recipe.ScoredRecipe, searched []string) string {
	if len(results) == 0 {
		return f.FormatNoResults(searched)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d recipe(s) for you:\n", len(results))

	for i, r := range results {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, r.Title)
		fmt.Fprintf(&b, "   Matches %d/%d of your ingredients\n", r.MatchCount, len(searched))
		if preview := ingredientPreview(r.Ingredients); preview != "" {
			fmt.Fprintf(&b, "   Preview: %s...\n", preview)
		}
	}

	b.WriteString("\nReply with the recipe number (e.g. \"1\") to see full details!")
	return b.String()
}

// FormatNoResults 渲染查無結果的引導文案
func (f *Formatter) FormatNoResults(searched []string) string {
	return fmt.Sprintf(
		"Sorry, I couldn't find any recipes matching your criteria with %s.\n\n"+
			"Try:\n"+
			"- Using different ingredients\n"+
			"- Removing diet restrictions\n"+
			"- Being more general (e.g. \"vegetables\" instead of specific veggies)",
		strings.Join(searched, ", "),
	)
}

// FormatRecipeDetail 渲染單筆食譜的完整內容
func (f *Formatter) FormatRecipeDetail(r recipe.Recipe) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\nIngredients:\n", r.Title)

	for _, line := range strings.Split(strings.TrimSpace(r.Ingredients), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fmt.Fprintf(&b, "   - %s\n", line)
	}

	b.WriteString("\nInstructions:\n")
	step := 1
	for _, line := range splitInstructions(r.Instructions) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fmt.Fprintf(&b, "   %d. %s\n", step, line)
		step++
	}

	return strings.TrimRight(b.String(), "\n")
}

// FormatDietSet 渲染飲食限制已記錄的確認訊息
func (f *Formatter) FormatDietSet(tags []intent.Diet) string {
	return fmt.Sprintf(
		"Got it, I'll look for %s recipes. This applies to your next ingredient search — tell me what you have!",
		joinDiets(tags),
	)
}

// FormatDietCleared 渲染清除飲食限制的回應，列出被移除的標籤
func (f *Formatter) FormatDietCleared(removed []intent.Diet) string {
	if len(removed) == 0 {
		return "You had no diet preferences set."
	}
	return fmt.Sprintf("Cleared your %s preference(s).", joinDiets(removed))
}

// FormatNoPriorSearch 渲染「尚未搜尋」的引導訊息
func (f *Formatter) FormatNoPriorSearch() string {
	return "I don't have any search results yet. Tell me what ingredients you have first, e.g. \"I have chicken and rice\"."
}

// FormatIndexOutOfRange 渲染序號超出範圍的訊息，附上有效範圍
func (f *Formatter) FormatIndexOutOfRange(index, max int) string {
	return fmt.Sprintf("Recipe %d is not in your last results. Please pick a number between 1 and %d.", index, max)
}

// FormatMealPlan 渲染餐食規劃的定型引導
func (f *Formatter) FormatMealPlan() string {
	return "Meal planning isn't ready yet, but I can find recipes for the ingredients you already have. Try \"I have chicken, rice and eggs\"."
}

// FormatUnknown 渲染未知意圖的定型引導
func (f *Formatter) FormatUnknown() string {
	return "Sorry, I didn't understand that. You can tell me what you have (\"I have pasta and tomatoes\"), set a diet (\"vegan please\"), or ask for a recipe by number."
}

// ingredientPreview 取食材文字的前三行作為預覽
func ingredientPreview(ingredients string) string {
	lines := strings.Split(ingredients, "\n")
	if len(lines) > 3 {
		lines = lines[:3]
	}
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		parts = append(parts, l)
	}
	return strings.Join(parts, ", ")
}

// splitInstructions 作法有換行時按行切，否則按句號切
func splitInstructions(instructions string) []string {
	trimmed := strings.TrimSpace(instructions)
	if strings.Contains(trimmed, "\n") {
		return strings.Split(trimmed, "\n")
	}
	return strings.Split(trimmed, ". ")
}

// joinDiets 將飲食標籤串成可讀列表
func joinDiets(tags []intent.Diet) string {
	parts := make([]string, 0, len(tags))
	for _, t := range tags {
		parts = append(parts, t.String())
	}
	return strings.Join(parts, ", ")
}
