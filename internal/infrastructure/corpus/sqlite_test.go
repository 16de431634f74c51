package corpus

import (
	"context"
	"errors"
	"testing"
	"time"

	"recipe-chatbot/internal/pkg/common"
)

func openTestCorpus(t *testing.T) *SQLiteCorpus {
	t.Helper()
	c, err := Open(":memory:", time.Second)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func seed(t *testing.T, c *SQLiteCorpus, title, ingredients, instructions string) int {
	t.Helper()
	id, err := c.Insert(context.Background(), title, ingredients, instructions)
	if err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}
	return id
}

func TestCorpusFindByAnyIngredient(t *testing.T) {
	c := openTestCorpus(t)
	ctx := context.Background()

	seed(t, c, "Chicken Rice", "chicken\nrice\nsoy sauce", "Cook it.")
	seed(t, c, "Tomato Pasta", "pasta\ntomato\nbasil", "Boil it.")
	seed(t, c, "Fried Rice", "rice\negg\nscallion", "Fry it.")

	got, err := c.FindByAnyIngredient(ctx, []string{"rice"}, 10)
	if err != nil {
		t.Fatalf("FindByAnyIngredient returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d recipes, want 2", len(got))
	}

	// OR 語義：任一詞命中即入選
	got, err = c.FindByAnyIngredient(ctx, []string{"basil", "egg"}, 10)
	if err != nil {
		t.Fatalf("FindByAnyIngredient returned error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d recipes for OR query, want 2", len(got))
	}
}

func TestCorpusFindCaseInsensitive(t *testing.T) {
	c := openTestCorpus(t)
	ctx := context.Background()

	seed(t, c, "Roast Chicken", "Chicken\nRosemary", "Roast it.")

	got, err := c.FindByAnyIngredient(ctx, []string{"CHICKEN"}, 10)
	if err != nil {
		t.Fatalf("FindByAnyIngredient returned error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("got %d recipes, want 1", len(got))
	}
}

func TestCorpusFindRespectsLimit(t *testing.T) {
	c := openTestCorpus(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		seed(t, c, "Rice Dish", "rice", "Cook.")
	}

	got, err := c.FindByAnyIngredient(ctx, []string{"rice"}, 3)
	if err != nil {
		t.Fatalf("FindByAnyIngredient returned error: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("got %d recipes, want limit of 3", len(got))
	}
}

func TestCorpusFindNoTerms(t *testing.T) {
	c := openTestCorpus(t)

	got, err := c.FindByAnyIngredient(context.Background(), nil, 10)
	if err != nil {
		t.Fatalf("FindByAnyIngredient returned error: %v", err)
	}
	if got != nil {
		t.Errorf("got %v for empty terms, want nil", got)
	}
}

func TestCorpusGetByID(t *testing.T) {
	c := openTestCorpus(t)
	ctx := context.Background()

	id := seed(t, c, "Chicken Rice", "chicken\nrice", "Cook it.")

	got, err := c.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if got.Title != "Chicken Rice" {
		t.Errorf("Title = %q, want %q", got.Title, "Chicken Rice")
	}

	_, err = c.GetByID(ctx, 9999)
	if !errors.Is(err, common.ErrRecipeNotFound) {
		t.Errorf("GetByID(9999) error = %v, want ErrRecipeNotFound", err)
	}
}

func TestCorpusCount(t *testing.T) {
	c := openTestCorpus(t)
	ctx := context.Background()

	n, err := c.Count(ctx)
	if err != nil {
		t.Fatalf("Count returned error: %v", err)
	}
	if n != 0 {
		t.Errorf("Count = %d on empty corpus, want 0", n)
	}

	seed(t, c, "A", "a", "x")
	seed(t, c, "B", "b", "y")

	n, err = c.Count(ctx)
	if err != nil {
		t.Fatalf("Count returned error: %v", err)
	}
	if n != 2 {
		t.Errorf("Count = %d, want 2", n)
	}
}
