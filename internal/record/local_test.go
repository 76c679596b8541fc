package record

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dukerupert/recipebox/internal/model"
)

func newTestLocalStore(t *testing.T) *LocalStore {
	t.Helper()
	s, err := NewLocalStore(t.TempDir(), slog.Default())
	if err != nil {
		t.Fatalf("new local store: %v", err)
	}
	return s
}

func TestLocalRecipeRoundTrip(t *testing.T) {
	s := newTestLocalStore(t)
	ctx := context.Background()

	in := RecipeInput{
		Title:    "Carbonara",
		BodyText: "eggs, guanciale, pecorino",
		Memo:     "no cream",
		Tags: []model.Tag{
			{Type: model.TagSituation, Name: "weeknight"},
			{Type: model.TagIngredient, Name: "eggs"},
		},
	}
	created, err := s.CreateRecipe(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}

	loaded, err := s.GetRecipe(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded == nil {
		t.Fatal("recipe not found after create")
	}
	if loaded.Title != in.Title || loaded.BodyText != in.BodyText || loaded.Memo != in.Memo {
		t.Errorf("loaded = %+v", loaded)
	}
	if len(loaded.Tags) != 2 || loaded.Tags[1].Name != "eggs" {
		t.Errorf("tags = %+v", loaded.Tags)
	}
}

func TestLocalRecipePathNormalization(t *testing.T) {
	s := newTestLocalStore(t)
	ctx := context.Background()

	localPath := filepath.Join(s.Dir(), "images", "photo.jpg")
	remoteURL := "https://storage.example.com/recipe-images/1.jpg"

	created, err := s.CreateRecipe(ctx, RecipeInput{
		Title:        "Stew",
		ThumbnailURL: localPath,
		ImageURLs:    []string{localPath, remoteURL},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// The stored blob must hold base-relative paths
	data, err := os.ReadFile(filepath.Join(s.Dir(), recipesFile))
	if err != nil {
		t.Fatalf("read blob: %v", err)
	}
	if want := `images/photo.jpg`; !strings.Contains(string(data), want) {
		t.Errorf("blob does not contain relative path %q: %s", want, data)
	}

	// Reads restore absolute paths; URLs untouched in both directions
	loaded, err := s.GetRecipe(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.ThumbnailURL != localPath {
		t.Errorf("thumbnail = %q, want %q", loaded.ThumbnailURL, localPath)
	}
	urls := model.DecodeImageList(loaded.ImageURL)
	if len(urls) != 2 || urls[0] != localPath || urls[1] != remoteURL {
		t.Errorf("images = %v", urls)
	}
}

func TestLocalRecipeNewestFirst(t *testing.T) {
	s := newTestLocalStore(t)
	ctx := context.Background()

	first, _ := s.CreateRecipe(ctx, RecipeInput{Title: "first"})
	second, _ := s.CreateRecipe(ctx, RecipeInput{Title: "second"})

	recipes, err := s.ListRecipes(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recipes) != 2 {
		t.Fatalf("got %d recipes", len(recipes))
	}
	if recipes[0].ID != second.ID || recipes[1].ID != first.ID {
		t.Errorf("order = [%s, %s], want newest first", recipes[0].Title, recipes[1].Title)
	}
}

func TestLocalRecipeUpdateAndDelete(t *testing.T) {
	s := newTestLocalStore(t)
	ctx := context.Background()

	created, _ := s.CreateRecipe(ctx, RecipeInput{Title: "v1", Memo: "keep?"})
	updated, err := s.UpdateRecipe(ctx, created.ID, RecipeInput{Title: "v2"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "v2" || updated.Memo != "" {
		t.Errorf("update is a full overwrite, got %+v", updated)
	}

	if err := s.DeleteRecipe(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ := s.GetRecipe(ctx, created.ID)
	if got != nil {
		t.Error("recipe still present after delete")
	}

	if _, err := s.UpdateRecipe(ctx, "missing", RecipeInput{Title: "x"}); err == nil {
		t.Error("expected not-found error")
	}
}

func TestLocalMealPlanDateRange(t *testing.T) {
	s := newTestLocalStore(t)
	ctx := context.Background()

	for _, date := range []string{"2026-03-01", "2026-03-02", "2026-03-08", "2026-03-09"} {
		if _, err := s.CreateMealPlan(ctx, date, model.MealDinner, nil, "note"); err != nil {
			t.Fatalf("create plan: %v", err)
		}
	}

	plans, err := s.ListMealPlans(ctx, "2026-03-02", "2026-03-08")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(plans) != 2 {
		t.Fatalf("got %d plans, want 2 (inclusive bounds)", len(plans))
	}

	// Single-day range
	plans, _ = s.ListMealPlans(ctx, "2026-03-01", "2026-03-01")
	if len(plans) != 1 || plans[0].Date != "2026-03-01" {
		t.Errorf("single-day range = %+v", plans)
	}
}

func TestLocalMealPlanRecipeJoin(t *testing.T) {
	s := newTestLocalStore(t)
	ctx := context.Background()

	recipe, _ := s.CreateRecipe(ctx, RecipeInput{Title: "Ramen"})
	if _, err := s.CreateMealPlan(ctx, "2026-03-02", model.MealLunch, &recipe.ID, ""); err != nil {
		t.Fatalf("create plan: %v", err)
	}

	plans, _ := s.ListMealPlans(ctx, "2026-03-02", "2026-03-02")
	if len(plans) != 1 || plans[0].Recipe == nil {
		t.Fatalf("plans = %+v", plans)
	}
	if plans[0].Recipe.Title != "Ramen" {
		t.Errorf("joined title = %q", plans[0].Recipe.Title)
	}

	// Deleting the recipe leaves the entry but drops the join
	s.DeleteRecipe(ctx, recipe.ID)
	plans, _ = s.ListMealPlans(ctx, "2026-03-02", "2026-03-02")
	if len(plans) != 1 || plans[0].Recipe != nil {
		t.Errorf("plans after recipe delete = %+v", plans)
	}
}

func TestLocalShoppingOrdering(t *testing.T) {
	s := newTestLocalStore(t)
	ctx := context.Background()

	a, _ := s.CreateShoppingItem(ctx, "A")
	s.CreateShoppingItem(ctx, "B")
	s.CreateShoppingItem(ctx, "C")
	if _, err := s.ToggleShoppingItem(ctx, a.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	items, err := s.ListShoppingItems(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got := []string{items[0].Text, items[1].Text, items[2].Text}
	want := []string{"B", "C", "A"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestLocalShoppingClear(t *testing.T) {
	s := newTestLocalStore(t)
	ctx := context.Background()

	s.CreateShoppingItem(ctx, "milk")
	s.CreateShoppingItem(ctx, "milk") // duplicates are permitted
	if err := s.ClearShoppingItems(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	items, _ := s.ListShoppingItems(ctx)
	if len(items) != 0 {
		t.Errorf("items after clear = %d", len(items))
	}
}

func TestFirstLaunchFlag(t *testing.T) {
	s := newTestLocalStore(t)
	if !s.IsFirstLaunch() {
		t.Error("fresh store should report first launch")
	}
	if err := s.MarkLaunched(); err != nil {
		t.Fatalf("mark launched: %v", err)
	}
	if s.IsFirstLaunch() {
		t.Error("flag should persist")
	}
}

func TestImportImage(t *testing.T) {
	s := newTestLocalStore(t)

	src := filepath.Join(t.TempDir(), "picked.jpg")
	if err := os.WriteFile(src, []byte("jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}

	dst, err := s.ImportImage(src)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if MakeRelative(dst, s.Dir()) == dst {
		t.Errorf("copy %q should be under the store directory", dst)
	}
	data, err := os.ReadFile(dst)
	if err != nil || string(data) != "jpeg" {
		t.Errorf("copied data = %q, err %v", data, err)
	}

	// Already-imported files and URLs come back unchanged
	again, err := s.ImportImage(dst)
	if err != nil || again != dst {
		t.Errorf("re-import = %q, err %v", again, err)
	}
	u := "https://example.com/x.jpg"
	if got, _ := s.ImportImage(u); got != u {
		t.Errorf("URL import = %q", got)
	}
}

func TestLocalReadMissingBlobReturnsEmpty(t *testing.T) {
	s := newTestLocalStore(t)
	recipes, err := s.ListRecipes(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recipes) != 0 {
		t.Errorf("recipes = %v", recipes)
	}
}

func TestLocalReadCorruptBlobReturnsEmpty(t *testing.T) {
	s := newTestLocalStore(t)
	if err := os.WriteFile(filepath.Join(s.Dir(), recipesFile), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	recipes, err := s.ListRecipes(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recipes) != 0 {
		t.Errorf("recipes = %v", recipes)
	}
}
