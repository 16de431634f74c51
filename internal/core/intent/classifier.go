package intent

import (
	"regexp"
	"strconv"
	"strings"
)

// 規則表使用的模式，全部在套件載入時編譯。
// 規則評估順序固定，首個命中的規則決定意圖。
var (
	// 1. 純序號訊息："5"、"recipe 5"、"show me recipe 5"、"show me details for recipe 5"
	recipeIndexPattern = regexp.MustCompile(`(?i)^(?:show\s+me\s+(?:details\s+for\s+)?)?(?:recipe\s+)?(\d+)$`)

	// 2. 複合句："I want a vegan meal with rice"
	compoundDietPattern = regexp.MustCompile(`(?i)\bi\s+want\s+(?:a|an)?\s*(vegetarian|vegan|high protein|low carb|keto)\s*(?:meal|recipe|dish)?\s+with\s+(.+)$`)

	// 3. 食材句："I have chicken, rice and eggs"（"ihave" 的黏字寫法也接受），
	//    以及 "what can I cook with ..." 的等價問法
	haveIngredientsPattern = regexp.MustCompile(`(?i)\bi\s*have\s+(.+)$`)
	cookWithPattern        = regexp.MustCompile(`(?i)\bwhat\s+can\s+i\s+cook\s+with\s+(.+)$`)

	// 4. 問候語：hi / hello / hey 作為獨立單詞出現
	greetingPattern = regexp.MustCompile(`(?i)\b(hi|hello|hey)\b`)

	// 5. 餐食規劃短語
	mealPlanPattern = regexp.MustCompile(`(?i)\b(meal\s+plan|plan\s+my\s+meals?|make\s+a\s+meal\s+plan)\b`)

	// 6. 清除飲食限制："clear my diet preferences" 等
	clearDietPattern = regexp.MustCompile(`(?i)\b(clear|reset|remove)\b.*\bdiet\b`)

	// 7. 裸飲食句中的尾隨食材子句："vegan with tofu and spinach"
	trailingWithPattern = regexp.MustCompile(`(?i)\bwith\s+(.+)$`)
)

// Classify 將一則訊息分類為意圖與槽位。
// 純函數：結果只取決於輸入文字與固定規則表，與會話狀態無關。
// 對任何輸入都不會失敗；空白訊息直接得到 KindUnknown 與空槽位。
func Classify(raw string) Result {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Result{Intent: KindUnknown, RawText: raw}
	}

	// 規則評估前先對全文做一次通用飲食標籤抽取；
	// 不論最終命中哪條規則，標籤都會附在結果上
	// （"hello, I want vegan food" 仍帶有 vegan 標籤）。
	genericTags := ExtractDietTags(trimmed)

	// 1. 純序號訊息。序號是否在有效範圍由會話層對照上一輪結果判定，
	// 這裡連 "0" 也照樣分類，讓用戶得到帶有效範圍的提示。
	if m := recipeIndexPattern.FindStringSubmatch(trimmed); m != nil {
		if idx, err := strconv.Atoi(m[1]); err == nil {
			return Result{
				Intent:      KindRecipeDetail,
				DietTags:    genericTags,
				RecipeIndex: idx,
				RawText:     raw,
			}
		}
	}

	// 2. 複合句：單一飲食短語 + 食材子句。
	// 捕獲到的短語覆蓋通用抽取的結果（單元素集合）。
	if m := compoundDietPattern.FindStringSubmatch(trimmed); m != nil {
		diet, _ := DietFromPhrase(strings.ToLower(m[1]))
		return Result{
			Intent:      KindIngredientSearch,
			Ingredients: ExtractIngredients(m[2]),
			DietTags:    []Diet{diet},
			RawText:     raw,
		}
	}

	// 3. 食材句。飲食標籤沿用通用抽取結果，不保證為空。
	if m := haveIngredientsPattern.FindStringSubmatch(trimmed); m != nil {
		return Result{
			Intent:      KindIngredientSearch,
			Ingredients: ExtractIngredients(m[1]),
			DietTags:    genericTags,
			RawText:     raw,
		}
	}
	if m := cookWithPattern.FindStringSubmatch(trimmed); m != nil {
		return Result{
			Intent:      KindIngredientSearch,
			Ingredients: ExtractIngredients(m[1]),
			DietTags:    genericTags,
			RawText:     raw,
		}
	}

	// 4. 問候語
	if greetingPattern.MatchString(trimmed) {
		return Result{Intent: KindGreeting, DietTags: genericTags, RawText: raw}
	}

	// 5. 餐食規劃
	if mealPlanPattern.MatchString(trimmed) {
		return Result{Intent: KindMealPlan, DietTags: genericTags, RawText: raw}
	}

	// 6. 清除飲食限制
	if clearDietPattern.MatchString(trimmed) {
		return Result{Intent: KindClearDiet, DietTags: genericTags, RawText: raw}
	}

	// 7. 裸飲食句。若帶有 "with ..." 尾句，順帶抽取食材，
	// 讓會話層能在同一則訊息內立即執行搜尋。
	if len(genericTags) > 0 {
		var ingredients []string
		if m := trailingWithPattern.FindStringSubmatch(trimmed); m != nil {
			ingredients = ExtractIngredients(m[1])
		}
		return Result{
			Intent:      KindDietRestriction,
			Ingredients: ingredients,
			DietTags:    genericTags,
			RawText:     raw,
		}
	}

	// 8. 其餘一律視為未知意圖。
	// 注意："I have"（無尾隨子句）也會落到這裡 —— 資訊不足，按未知處理。
	return Result{Intent: KindUnknown, RawText: raw}
}
