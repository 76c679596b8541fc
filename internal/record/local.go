package record

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/dukerupert/recipebox/internal/model"
)

const (
	recipesFile       = "guest_recipes.json"
	mealPlansFile     = "guest_meal_plans.json"
	shoppingItemsFile = "guest_shopping_items.json"
	firstLaunchFile   = "first_launch"
)

// LocalStore persists guest data as one JSON array per entity kind under
// dir. Each operation is a whole-file read-modify-write; a mutex serializes
// them so two in-flight operations cannot lose updates.
type LocalStore struct {
	mu     sync.Mutex
	dir    string
	logger *slog.Logger
	now    func() time.Time
}

func NewLocalStore(dir string, logger *slog.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &LocalStore{dir: dir, logger: logger, now: time.Now}, nil
}

// Dir returns the document directory that local image paths are stored
// relative to.
func (s *LocalStore) Dir() string { return s.dir }

// localID generates a client-side record id: millisecond timestamp plus a
// random suffix, both base-36.
func localID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 36) + strconv.FormatInt(int64(rand.Uint32()), 36)
}

// readBlob loads a JSON array, returning an empty slice when the file is
// missing or unreadable. Read failures never propagate to callers.
func readBlob[T any](s *LocalStore, name string) []T {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Error("read local blob", "file", name, "error", err)
		}
		return nil
	}
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Error("parse local blob", "file", name, "error", err)
		return nil
	}
	return records
}

func writeBlob[T any](s *LocalStore, name string, records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return newError(KindStorage, "encode local blob", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return newError(KindStorage, "write local blob", err)
	}
	return nil
}

// toStored rewrites a recipe's image references relative to the document
// directory before persisting.
func (s *LocalStore) toStored(r model.Recipe) model.Recipe {
	r.ThumbnailURL = MakeRelative(r.ThumbnailURL, s.dir)
	urls := model.DecodeImageList(r.ImageURL)
	for i, u := range urls {
		urls[i] = MakeRelative(u, s.dir)
	}
	r.ImageURL = model.EncodeImageList(urls)
	return r
}

// fromStored restores absolute paths on read.
func (s *LocalStore) fromStored(r model.Recipe) model.Recipe {
	r.ThumbnailURL = MakeAbsolute(r.ThumbnailURL, s.dir)
	urls := model.DecodeImageList(r.ImageURL)
	for i, u := range urls {
		urls[i] = MakeAbsolute(u, s.dir)
	}
	r.ImageURL = model.EncodeImageList(urls)
	return r
}

func (s *LocalStore) ListRecipes(_ context.Context) ([]model.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := readBlob[model.Recipe](s, recipesFile)
	recipes := make([]model.Recipe, len(stored))
	for i, r := range stored {
		recipes[i] = s.fromStored(r)
	}
	return recipes, nil
}

func (s *LocalStore) GetRecipe(_ context.Context, id string) (*model.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range readBlob[model.Recipe](s, recipesFile) {
		if r.ID == id {
			restored := s.fromStored(r)
			return &restored, nil
		}
	}
	return nil, nil
}

func (s *LocalStore) CreateRecipe(_ context.Context, in RecipeInput) (*model.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	recipe := model.Recipe{
		ID:           localID(now),
		Title:        in.Title,
		BodyText:     in.BodyText,
		Memo:         in.Memo,
		Tags:         in.Tags,
		ThumbnailURL: in.ThumbnailURL,
		ImageURL:     model.EncodeImageList(in.ImageURLs),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	stored := readBlob[model.Recipe](s, recipesFile)
	// Newest first, matching the remote list order
	stored = append([]model.Recipe{s.toStored(recipe)}, stored...)
	if err := writeBlob(s, recipesFile, stored); err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (s *LocalStore) UpdateRecipe(_ context.Context, id string, in RecipeInput) (*model.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := readBlob[model.Recipe](s, recipesFile)
	for i, r := range stored {
		if r.ID != id {
			continue
		}
		updated := model.Recipe{
			ID:           r.ID,
			Title:        in.Title,
			BodyText:     in.BodyText,
			Memo:         in.Memo,
			Tags:         in.Tags,
			ThumbnailURL: in.ThumbnailURL,
			ImageURL:     model.EncodeImageList(in.ImageURLs),
			CreatedAt:    r.CreatedAt,
			UpdatedAt:    s.now().UTC(),
		}
		stored[i] = s.toStored(updated)
		if err := writeBlob(s, recipesFile, stored); err != nil {
			return nil, err
		}
		return &updated, nil
	}
	return nil, newError(KindNotFound, "recipe not found", nil)
}

func (s *LocalStore) DeleteRecipe(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteRecipeLocked(id)
}

func (s *LocalStore) deleteRecipeLocked(id string) error {
	stored := readBlob[model.Recipe](s, recipesFile)
	kept := stored[:0]
	for _, r := range stored {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	return writeBlob(s, recipesFile, kept)
}

func (s *LocalStore) ClearRecipes(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeBlob(s, recipesFile, []model.Recipe{})
}

func (s *LocalStore) ListMealPlans(_ context.Context, start, end string) ([]model.MealPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recipes := make(map[string]model.Recipe)
	for _, r := range readBlob[model.Recipe](s, recipesFile) {
		recipes[r.ID] = s.fromStored(r)
	}

	var plans []model.MealPlan
	for _, p := range readBlob[model.MealPlan](s, mealPlansFile) {
		// Dates are zero-padded YYYY-MM-DD, string comparison is correct
		if p.Date < start || p.Date > end {
			continue
		}
		p.Recipe = nil
		if p.RecipeID != nil {
			if r, ok := recipes[*p.RecipeID]; ok {
				p.Recipe = &model.MealPlanRecipe{ID: r.ID, Title: r.Title, ThumbnailURL: r.ThumbnailURL}
			}
		}
		plans = append(plans, p)
	}

	sort.SliceStable(plans, func(i, j int) bool { return plans[i].Date < plans[j].Date })
	return plans, nil
}

func (s *LocalStore) CreateMealPlan(_ context.Context, date, mealType string, recipeID *string, customText string) (*model.MealPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	plan := model.MealPlan{
		ID:         localID(now),
		Date:       date,
		MealType:   mealType,
		RecipeID:   recipeID,
		CustomText: customText,
		CreatedAt:  now,
	}

	stored := append(readBlob[model.MealPlan](s, mealPlansFile), plan)
	if err := writeBlob(s, mealPlansFile, stored); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (s *LocalStore) DeleteMealPlan(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := readBlob[model.MealPlan](s, mealPlansFile)
	kept := stored[:0]
	for _, p := range stored {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	return writeBlob(s, mealPlansFile, kept)
}

func (s *LocalStore) ListShoppingItems(_ context.Context) ([]model.ShoppingItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := readBlob[model.ShoppingItem](s, shoppingItemsFile)
	// Incomplete before complete, arrival order otherwise preserved
	sort.SliceStable(items, func(i, j int) bool {
		return !items[i].IsCompleted && items[j].IsCompleted
	})
	return items, nil
}

func (s *LocalStore) CreateShoppingItem(_ context.Context, text string) (*model.ShoppingItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	item := model.ShoppingItem{ID: localID(now), Text: text, CreatedAt: now}

	stored := append(readBlob[model.ShoppingItem](s, shoppingItemsFile), item)
	if err := writeBlob(s, shoppingItemsFile, stored); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *LocalStore) ToggleShoppingItem(_ context.Context, id string) (*model.ShoppingItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := readBlob[model.ShoppingItem](s, shoppingItemsFile)
	for i := range stored {
		if stored[i].ID != id {
			continue
		}
		stored[i].IsCompleted = !stored[i].IsCompleted
		if err := writeBlob(s, shoppingItemsFile, stored); err != nil {
			return nil, err
		}
		item := stored[i]
		return &item, nil
	}
	return nil, newError(KindNotFound, "shopping item not found", nil)
}

func (s *LocalStore) DeleteShoppingItem(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := readBlob[model.ShoppingItem](s, shoppingItemsFile)
	kept := stored[:0]
	for _, item := range stored {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	return writeBlob(s, shoppingItemsFile, kept)
}

func (s *LocalStore) ClearShoppingItems(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeBlob(s, shoppingItemsFile, []model.ShoppingItem{})
}

// IsFirstLaunch reports whether the app has never run before on this
// device. MarkLaunched flips it permanently.
func (s *LocalStore) IsFirstLaunch() bool {
	_, err := os.Stat(filepath.Join(s.dir, firstLaunchFile))
	return os.IsNotExist(err)
}

func (s *LocalStore) MarkLaunched() error {
	if err := os.WriteFile(filepath.Join(s.dir, firstLaunchFile), []byte("1"), 0o644); err != nil {
		return newError(KindStorage, "write first launch flag", err)
	}
	return nil
}

// ImportImage copies a picked image into the document directory so it
// outlives the picker's temporary location. Files already inside the
// directory, and URLs, are returned unchanged.
func (s *LocalStore) ImportImage(src string) (string, error) {
	if isURL(src) || MakeRelative(src, s.dir) != src {
		return src, nil
	}

	imagesDir := filepath.Join(s.dir, "images")
	if err := os.MkdirAll(imagesDir, 0o755); err != nil {
		return "", newError(KindStorage, "create images directory", err)
	}

	ext := filepath.Ext(src)
	if ext == "" {
		ext = ".jpg"
	}
	dst := filepath.Join(imagesDir, fmt.Sprintf("guest_%d%s", s.now().UnixNano(), ext))

	in, err := os.Open(src)
	if err != nil {
		return "", newError(KindStorage, "open source image", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", newError(KindStorage, "create image copy", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return "", newError(KindStorage, "copy image", err)
	}
	return dst, nil
}
