package intent

import (
	"reflect"
	"testing"
)

func TestExtractIngredients(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"chicken, rice and eggs", []string{"chicken", "rice", "eggs"}},
		{"tofu & spinach", []string{"tofu", "spinach"}},
		{"  beef  ", []string{"beef"}},
		{"chicken,,rice", []string{"chicken", "rice"}},
		{"Chicken AND Rice", []string{"chicken", "rice"}},
		{"eggs", []string{"eggs"}},
		{"", []string{}},
		// 不去重，保留出現順序
		{"rice and rice", []string{"rice", "rice"}},
		// 多詞食材維持原樣
		{"ground beef, olive oil", []string{"ground beef", "olive oil"}},
	}

	for _, tt := range tests {
		got := ExtractIngredients(tt.input)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ExtractIngredients(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestExtractDietTags(t *testing.T) {
	tests := []struct {
		input string
		want  []Diet
	}{
		{"vegan please", []Diet{DietVegan}},
		{"I'm vegetarian", []Diet{DietVegetarian}},
		{"keto and low carb", []Diet{DietKeto, DietLowCarb}},
		// 結果去重並依枚舉順序排列，與文字中的出現順序無關
		{"keto then vegan", []Diet{DietVegan, DietKeto}},
		{"VEGAN", []Diet{DietVegan}},
		// 子字串比對
		{"veganism is great", []Diet{DietVegan}},
		{"no diet words here", nil},
		{"", nil},
	}

	for _, tt := range tests {
		got := ExtractDietTags(tt.input)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ExtractDietTags(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestDietRoundTrip(t *testing.T) {
	for _, d := range []Diet{DietVegetarian, DietVegan, DietKeto, DietLowCarb, DietHighProtein} {
		got, ok := DietFromPhrase(d.String())
		if !ok || got != d {
			t.Errorf("DietFromPhrase(%q) = %v, %v, want %v, true", d.String(), got, ok, d)
		}
	}
	if _, ok := DietFromPhrase("paleo"); ok {
		t.Error("DietFromPhrase(\"paleo\") should not match")
	}
}

func TestKindRoundTrip(t *testing.T) {
	kinds := []Kind{
		KindUnknown, KindGreeting, KindIngredientSearch,
		KindMealPlan, KindDietRestriction, KindRecipeDetail, KindClearDiet,
	}
	for _, k := range kinds {
		if got := KindFromString(k.String()); got != k {
			t.Errorf("KindFromString(%q) = %v, want %v", k.String(), got, k)
		}
	}
	if got := KindFromString("nonsense"); got != KindUnknown {
		t.Errorf("KindFromString(\"nonsense\") = %v, want %v", got, KindUnknown)
	}
}
