package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"recipe-chatbot/internal/core/recipe"
	"recipe-chatbot/internal/core/session"
	"recipe-chatbot/internal/infrastructure/config"
	"recipe-chatbot/internal/pkg/common"
)

// fakeCorpus 測試用的固定食譜庫，可注入一次性失敗
type fakeCorpus struct {
	recipes  []recipe.Recipe
	failNext bool
}

func (f *fakeCorpus) FindByAnyIngredient(ctx context.Context, terms []string, retrievalLimit int) ([]recipe.Recipe, error) {
	if f.failNext {
		f.failNext = false
		return nil, errors.New("corpus offline")
	}
	var out []recipe.Recipe
	for _, r := range f.recipes {
		lower := strings.ToLower(r.Ingredients)
		for _, term := range terms {
			if strings.Contains(lower, strings.ToLower(term)) {
				out = append(out, r)
				break
			}
		}
		if len(out) >= retrievalLimit {
			break
		}
	}
	return out, nil
}

func (f *fakeCorpus) GetByID(ctx context.Context, id int) (*recipe.Recipe, error) {
	for i := range f.recipes {
		if f.recipes[i].ID == id {
			return &f.recipes[i], nil
		}
	}
	return nil, common.ErrRecipeNotFound
}

func (f *fakeCorpus) Count(ctx context.Context) (int, error) {
	return len(f.recipes), nil
}

func testEngine(t *testing.T, corpus *fakeCorpus) (*Engine, session.Store) {
	t.Helper()
	store := session.NewMemoryStore(config.SessionConfig{
		Store:           "memory",
		TTL:             time.Minute,
		CleanupInterval: time.Minute,
		MaxSessions:     100,
	})
	t.Cleanup(func() { store.Close() })

	search := config.SearchConfig{MaxResults: 5, RetrievalMultiplier: 3}
	matcher := recipe.NewMatcher(corpus, search.RetrievalMultiplier)
	return NewEngine(matcher, store, search), store
}

func sampleCorpus() *fakeCorpus {
	return &fakeCorpus{recipes: []recipe.Recipe{
		{ID: 1, Title: "Chicken Rice", Ingredients: "chicken\nrice\nsoy sauce", Instructions: "Cook rice. Add chicken."},
		{ID: 2, Title: "Fried Rice", Ingredients: "rice\negg\nscallion", Instructions: "Fry everything."},
		{ID: 3, Title: "Cauliflower Steak", Ingredients: "cauliflower\nolive oil\ngarlic", Instructions: "Roast it."},
		{ID: 4, Title: "Tofu Stir Fry", Ingredients: "tofu\nbroccoli\nsoy sauce", Instructions: "Stir fry."},
	}}
}

func TestEngineGreeting(t *testing.T) {
	e, _ := testEngine(t, sampleCorpus())

	reply, err := e.HandleMessage(context.Background(), "s1", "hello")
	if err != nil {
		t.Fatalf("HandleMessage returned error: %v", err)
	}
	if reply.Intent != "greeting" {
		t.Errorf("Intent = %q, want greeting", reply.Intent)
	}
	if reply.Text == "" {
		t.Error("greeting reply has empty text")
	}
}

func TestEngineIngredientSearch(t *testing.T) {
	e, _ := testEngine(t, sampleCorpus())

	reply, err := e.HandleMessage(context.Background(), "s1", "I have chicken and rice")
	if err != nil {
		t.Fatalf("HandleMessage returned error: %v", err)
	}
	if reply.Intent != "ingredient_search" {
		t.Errorf("Intent = %q, want ingredient_search", reply.Intent)
	}
	if len(reply.Recipes) == 0 {
		t.Fatal("expected results for chicken and rice")
	}
	// 兩詞皆中的食譜排最前
	if reply.Recipes[0].ID != 1 {
		t.Errorf("top result ID = %d, want 1", reply.Recipes[0].ID)
	}
}

func TestEnginePendingDietOneShot(t *testing.T) {
	e, _ := testEngine(t, sampleCorpus())
	ctx := context.Background()

	// 設定生酮限制
	reply, err := e.HandleMessage(ctx, "s1", "I'm keto")
	if err != nil {
		t.Fatalf("HandleMessage returned error: %v", err)
	}
	if reply.Intent != "diet_restrictions" {
		t.Fatalf("Intent = %q, want diet_restrictions", reply.Intent)
	}

	// 下一次搜尋消費限制：rice 類食譜被過濾
	reply, err = e.HandleMessage(ctx, "s1", "what can I cook with rice and cauliflower")
	if err != nil {
		t.Fatalf("HandleMessage returned error: %v", err)
	}
	for _, r := range reply.Recipes {
		if strings.Contains(strings.ToLower(r.Ingredients), "rice") {
			t.Errorf("keto filter let through %q", r.Title)
		}
	}

	// 一次性語義：再搜尋一次不再套用限制
	reply, err = e.HandleMessage(ctx, "s1", "I have rice")
	if err != nil {
		t.Fatalf("HandleMessage returned error: %v", err)
	}
	if len(reply.Recipes) == 0 {
		t.Error("second search still filtered, pending diet was not one-shot")
	}
}

func TestEngineGreetingDoesNotConsumeDiet(t *testing.T) {
	e, _ := testEngine(t, sampleCorpus())
	ctx := context.Background()

	_, _ = e.HandleMessage(ctx, "s1", "vegan please")
	_, _ = e.HandleMessage(ctx, "s1", "hi")

	// 問候不消費限制，後續搜尋仍被過濾
	reply, err := e.HandleMessage(ctx, "s1", "I have chicken and tofu")
	if err != nil {
		t.Fatalf("HandleMessage returned error: %v", err)
	}
	for _, r := range reply.Recipes {
		if strings.Contains(strings.ToLower(r.Ingredients), "chicken") {
			t.Errorf("vegan filter let through %q", r.Title)
		}
	}
}

func TestEngineCompoundSearch(t *testing.T) {
	e, _ := testEngine(t, sampleCorpus())

	reply, err := e.HandleMessage(context.Background(), "s1", "I want a keto meal with cauliflower")
	if err != nil {
		t.Fatalf("HandleMessage returned error: %v", err)
	}
	if reply.Intent != "ingredient_search" {
		t.Errorf("Intent = %q, want ingredient_search", reply.Intent)
	}
	for _, r := range reply.Recipes {
		if strings.Contains(strings.ToLower(r.Ingredients), "rice") {
			t.Errorf("keto filter let through %q", r.Title)
		}
	}
}

func TestEngineRecipeDetail(t *testing.T) {
	e, _ := testEngine(t, sampleCorpus())
	ctx := context.Background()

	reply, err := e.HandleMessage(ctx, "s1", "I have rice")
	if err != nil {
		t.Fatalf("HandleMessage returned error: %v", err)
	}
	if len(reply.Recipes) < 2 {
		t.Fatalf("need at least 2 results, got %d", len(reply.Recipes))
	}
	second := reply.Recipes[1]

	// 序號從 1 起算
	reply, err = e.HandleMessage(ctx, "s1", "2")
	if err != nil {
		t.Fatalf("HandleMessage returned error: %v", err)
	}
	if reply.Intent != "recipe_detail" {
		t.Errorf("Intent = %q, want recipe_detail", reply.Intent)
	}
	if reply.Recipe == nil || reply.Recipe.ID != second.ID {
		t.Errorf("detail recipe = %+v, want ID %d", reply.Recipe, second.ID)
	}
}

func TestEngineRecipeDetailOutOfRange(t *testing.T) {
	e, _ := testEngine(t, sampleCorpus())
	ctx := context.Background()

	if _, err := e.HandleMessage(ctx, "s1", "I have rice"); err != nil {
		t.Fatalf("HandleMessage returned error: %v", err)
	}

	reply, err := e.HandleMessage(ctx, "s1", "99")
	if err != nil {
		t.Fatalf("out-of-range index must not be an error, got %v", err)
	}
	if reply.Recipe != nil {
		t.Errorf("Recipe = %+v, want nil for out-of-range index", reply.Recipe)
	}
	if !strings.Contains(reply.Text, "99") {
		t.Errorf("reply should mention the bad index, got %q", reply.Text)
	}
}

func TestEngineRecipeDetailNoPriorSearch(t *testing.T) {
	e, _ := testEngine(t, sampleCorpus())

	reply, err := e.HandleMessage(context.Background(), "s1", "3")
	if err != nil {
		t.Fatalf("HandleMessage returned error: %v", err)
	}
	if reply.Recipe != nil {
		t.Errorf("Recipe = %+v, want nil without prior search", reply.Recipe)
	}
	if reply.Text == "" {
		t.Error("expected guidance text without prior search")
	}
}

func TestEngineClearDiet(t *testing.T) {
	e, _ := testEngine(t, sampleCorpus())
	ctx := context.Background()

	_, _ = e.HandleMessage(ctx, "s1", "vegan please")

	reply, err := e.HandleMessage(ctx, "s1", "clear my diet preferences")
	if err != nil {
		t.Fatalf("HandleMessage returned error: %v", err)
	}
	if reply.Intent != "clear_diet" {
		t.Errorf("Intent = %q, want clear_diet", reply.Intent)
	}
	if !strings.Contains(reply.Text, "vegan") {
		t.Errorf("clear reply should list removed tags, got %q", reply.Text)
	}

	// 清除後搜尋不再過濾
	reply, err = e.HandleMessage(ctx, "s1", "I have chicken")
	if err != nil {
		t.Fatalf("HandleMessage returned error: %v", err)
	}
	if len(reply.Recipes) == 0 {
		t.Error("search still filtered after clearing diet")
	}
}

func TestEngineCorpusFailurePreservesDiet(t *testing.T) {
	corpus := sampleCorpus()
	e, _ := testEngine(t, corpus)
	ctx := context.Background()

	_, _ = e.HandleMessage(ctx, "s1", "I'm keto")

	// 食譜庫失敗必須以錯誤冒泡，不可化為查無結果
	corpus.failNext = true
	_, err := e.HandleMessage(ctx, "s1", "I have rice")
	if err == nil {
		t.Fatal("expected error when corpus is down")
	}
	if !errors.Is(err, common.ErrCorpusUnavailable) {
		t.Errorf("error = %v, want ErrCorpusUnavailable", err)
	}

	// 失敗不消費待用限制：下一次成功的搜尋仍套用生酮過濾
	reply, err := e.HandleMessage(ctx, "s1", "what can I cook with rice and cauliflower")
	if err != nil {
		t.Fatalf("HandleMessage returned error: %v", err)
	}
	for _, r := range reply.Recipes {
		if strings.Contains(strings.ToLower(r.Ingredients), "rice") {
			t.Errorf("keto filter not applied after recovery, got %q", r.Title)
		}
	}
}

func TestEngineSearchReplacesLastResults(t *testing.T) {
	e, _ := testEngine(t, sampleCorpus())
	ctx := context.Background()

	_, _ = e.HandleMessage(ctx, "s1", "I have rice")

	reply, err := e.HandleMessage(ctx, "s1", "I have tofu")
	if err != nil {
		t.Fatalf("HandleMessage returned error: %v", err)
	}
	if len(reply.Recipes) != 1 || reply.Recipes[0].ID != 4 {
		t.Fatalf("expected only the tofu recipe, got %+v", reply.Recipes)
	}

	// 序號對照的是最新一輪結果
	reply, err = e.HandleMessage(ctx, "s1", "1")
	if err != nil {
		t.Fatalf("HandleMessage returned error: %v", err)
	}
	if reply.Recipe == nil || reply.Recipe.ID != 4 {
		t.Errorf("detail recipe = %+v, want the tofu recipe", reply.Recipe)
	}
}

func TestEngineUnknownAndMealPlan(t *testing.T) {
	e, _ := testEngine(t, sampleCorpus())
	ctx := context.Background()

	reply, err := e.HandleMessage(ctx, "s1", "what's the weather like")
	if err != nil {
		t.Fatalf("HandleMessage returned error: %v", err)
	}
	if reply.Intent != "unknown_intent" {
		t.Errorf("Intent = %q, want unknown_intent", reply.Intent)
	}

	reply, err = e.HandleMessage(ctx, "s1", "plan my meals")
	if err != nil {
		t.Fatalf("HandleMessage returned error: %v", err)
	}
	if reply.Intent != "meal_plan" {
		t.Errorf("Intent = %q, want meal_plan", reply.Intent)
	}
}
