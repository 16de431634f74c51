package intent

// Kind 用戶訊息的意圖分類
type Kind int

const (
	KindUnknown Kind = iota
	KindGreeting
	KindIngredientSearch
	KindMealPlan
	KindDietRestriction
	KindRecipeDetail
	KindClearDiet
)

// String 返回意圖的 snake_case 名稱
func (k Kind) String() string {
	switch k {
	case KindGreeting:
		return "greeting"
	case KindIngredientSearch:
		return "ingredient_search"
	case KindMealPlan:
		return "meal_plan"
	case KindDietRestriction:
		return "diet_restrictions"
	case KindRecipeDetail:
		return "recipe_detail"
	case KindClearDiet:
		return "clear_diet"
	default:
		return "unknown_intent"
	}
}

// kindNames 將 snake_case 名稱映射回 Kind
var kindNames = map[string]Kind{
	"greeting":          KindGreeting,
	"ingredient_search": KindIngredientSearch,
	"meal_plan":         KindMealPlan,
	"diet_restrictions": KindDietRestriction,
	"recipe_detail":     KindRecipeDetail,
	"clear_diet":        KindClearDiet,
	"unknown_intent":    KindUnknown,
}

// KindFromString 將 snake_case 名稱轉換為 Kind，無法識別時返回 KindUnknown
func KindFromString(name string) Kind {
	if k, ok := kindNames[name]; ok {
		return k
	}
	return KindUnknown
}

// Diet 飲食限制標籤
type Diet int

const (
	DietVegetarian Diet = iota
	DietVegan
	DietKeto
	DietLowCarb
	DietHighProtein
)

// String 返回飲食標籤對應的關鍵詞短語
func (d Diet) String() string {
	switch d {
	case DietVegetarian:
		return "vegetarian"
	case DietVegan:
		return "vegan"
	case DietKeto:
		return "keto"
	case DietLowCarb:
		return "low carb"
	case DietHighProtein:
		return "high protein"
	default:
		return "unknown"
	}
}

// dietPhrases 五種固定短語與標籤的對應，依 Diet 枚舉順序排列，
// 掃描順序因此是確定性的
var dietPhrases = []struct {
	phrase string
	diet   Diet
}{
	{"vegetarian", DietVegetarian},
	{"vegan", DietVegan},
	{"keto", DietKeto},
	{"low carb", DietLowCarb},
	{"high protein", DietHighProtein},
}

// DietFromPhrase 將關鍵詞短語轉換為飲食標籤
func DietFromPhrase(phrase string) (Diet, bool) {
	for _, dp := range dietPhrases {
		if dp.phrase == phrase {
			return dp.diet, true
		}
	}
	return DietVegetarian, false
}

// Result 一則訊息的分類結果。建立後不再修改。
type Result struct {
	Intent      Kind
	Ingredients []string // 依出現順序的正規化食材詞，不去重
	DietTags    []Diet   // 集合語義，已去重，依枚舉順序
	RecipeIndex int      // 1 起算的食譜序號，0 表示未設置
	RawText     string
}
