package recipe

import (
	"reflect"
	"testing"

	"recipe-chatbot/internal/core/intent"
)

func scored(id int, title, ingredients string) ScoredRecipe {
	return ScoredRecipe{Recipe: Recipe{ID: id, Title: title, Ingredients: ingredients}}
}

func ids(recipes []ScoredRecipe) []int {
	out := make([]int, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, r.ID)
	}
	return out
}

func TestFilterByDietVegetarian(t *testing.T) {
	input := []ScoredRecipe{
		scored(1, "Chicken Curry", "chicken\ncurry paste\ncoconut milk"),
		scored(2, "Tomato Pasta", "pasta\ntomato\nbasil"),
		scored(3, "Grilled Salmon", "salmon\nlemon\nbutter"),
		scored(4, "Veggie Stir Fry", "broccoli\ncarrot\nsoy sauce"),
	}

	got := FilterByDiet(input, []intent.Diet{intent.DietVegetarian})
	if want := []int{2, 4}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("vegetarian filter kept %v, want %v", ids(got), want)
	}
}

func TestFilterByDietVegan(t *testing.T) {
	input := []ScoredRecipe{
		scored(1, "Cheese Omelette", "egg\ncheese\nbutter"),
		scored(2, "Tofu Bowl", "tofu\nrice\nsoy sauce"),
		scored(3, "Beef Stew", "beef\npotato\ncarrot"),
	}

	got := FilterByDiet(input, []intent.Diet{intent.DietVegan})
	if want := []int{2}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("vegan filter kept %v, want %v", ids(got), want)
	}
}

func TestFilterByDietVeganSubsetOfVegetarian(t *testing.T) {
	input := []ScoredRecipe{
		scored(1, "Cheese Omelette", "egg\ncheese"),
		scored(2, "Tofu Bowl", "tofu\nsoy sauce"),
		scored(3, "Beef Stew", "beef\npotato"),
		scored(4, "Green Salad", "lettuce\nolive oil"),
	}

	vegan := FilterByDiet(input, []intent.Diet{intent.DietVegan})
	vegetarian := FilterByDiet(input, []intent.Diet{intent.DietVegetarian})

	// 純素蘊含素食：任何通過純素的食譜也必須通過素食
	vegetarianIDs := map[int]bool{}
	for _, r := range vegetarian {
		vegetarianIDs[r.ID] = true
	}
	for _, r := range vegan {
		if !vegetarianIDs[r.ID] {
			t.Errorf("recipe %d passed vegan but not vegetarian", r.ID)
		}
	}
}

func TestFilterByDietKeto(t *testing.T) {
	input := []ScoredRecipe{
		scored(1, "Fried Rice", "rice\negg\nscallion"),
		scored(2, "Steak and Greens", "steak\nspinach\ngarlic"),
		scored(3, "Bread Pudding", "bread\nmilk\nsugar"),
	}

	got := FilterByDiet(input, []intent.Diet{intent.DietKeto})
	if want := []int{2}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("keto filter kept %v, want %v", ids(got), want)
	}
}

func TestFilterByDietHighProteinNoOp(t *testing.T) {
	input := []ScoredRecipe{
		scored(1, "Fried Rice", "rice\negg"),
		scored(2, "Bread Pudding", "bread\nsugar"),
	}

	got := FilterByDiet(input, []intent.Diet{intent.DietHighProtein})
	if !reflect.DeepEqual(ids(got), ids(input)) {
		t.Errorf("high protein filter kept %v, want all of %v", ids(got), ids(input))
	}
}

func TestFilterByDietEmptyTagsIdentity(t *testing.T) {
	input := []ScoredRecipe{
		scored(1, "Chicken Curry", "chicken"),
		scored(2, "Tofu Bowl", "tofu"),
	}

	got := FilterByDiet(input, nil)
	if !reflect.DeepEqual(got, input) {
		t.Errorf("empty tag filter = %v, want identity", ids(got))
	}
}

func TestFilterByDietMultipleTagsAND(t *testing.T) {
	input := []ScoredRecipe{
		scored(1, "Tofu Rice Bowl", "tofu\nrice"),            // 高碳水，被 keto 排除
		scored(2, "Chicken Salad", "chicken\nlettuce"),       // 肉類，被素食排除
		scored(3, "Avocado Salad", "avocado\nlettuce\nlime"), // 全部通過
	}

	got := FilterByDiet(input, []intent.Diet{intent.DietVegetarian, intent.DietKeto})
	if want := []int{3}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("combined filter kept %v, want %v", ids(got), want)
	}
}

func TestFilterByDietIdempotent(t *testing.T) {
	input := []ScoredRecipe{
		scored(1, "Chicken Curry", "chicken"),
		scored(2, "Tomato Pasta", "pasta\ntomato"),
		scored(3, "Veggie Stir Fry", "broccoli\ncarrot"),
	}
	tags := []intent.Diet{intent.DietVegetarian}

	once := FilterByDiet(input, tags)
	twice := FilterByDiet(once, tags)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("filter not idempotent: %v vs %v", ids(once), ids(twice))
	}
}

func TestFilterByDietChecksTitleAndInstructions(t *testing.T) {
	input := []ScoredRecipe{
		{Recipe: Recipe{ID: 1, Title: "Bacon Surprise", Ingredients: "mystery cubes"}},
		{Recipe: Recipe{ID: 2, Title: "Garden Bowl", Ingredients: "greens", Instructions: "Top with grilled chicken."}},
		{Recipe: Recipe{ID: 3, Title: "Garden Bowl", Ingredients: "greens", Instructions: "Toss and serve."}},
	}

	got := FilterByDiet(input, []intent.Diet{intent.DietVegetarian})
	if want := []int{3}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("filter kept %v, want %v", ids(got), want)
	}
}
