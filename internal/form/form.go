// Package form drives the recipe capture flow: image selection, optional
// photo-to-recipe extraction, tag input, validation, and dual-target
// persistence depending on whether the user is signed in.
package form

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dukerupert/recipebox/internal/model"
	"github.com/dukerupert/recipebox/internal/record"
	"github.com/dukerupert/recipebox/internal/vision"
)

// State tracks where the form is in its lifecycle.
type State string

const (
	StateEmpty     State = "empty"
	StatePopulated State = "populated"
	StateAnalyzing State = "analyzing"
	StateSaving    State = "saving"
)

const maxImages = 2

// Analyzer runs server-side recipe extraction over raw image bytes.
type Analyzer interface {
	AnalyzeRecipeImages(ctx context.Context, images [][]byte) (*vision.Extraction, error)
}

// Uploader pushes image bytes to hosted storage, returning a public URL.
type Uploader interface {
	UploadImage(ctx context.Context, data []byte, fileName, fileType string) (string, error)
}

// Env supplies the form's persistence targets. Local is set in guest mode,
// Uploader when a session exists; Store is whichever side is authoritative.
type Env struct {
	Store    record.Store
	Local    *record.LocalStore
	Uploader Uploader
}

// Form holds the in-progress recipe.
type Form struct {
	state State

	Title    string
	BodyText string
	Memo     string

	situationTags  []string
	ingredientTags []string
	images         []string // local file paths or URLs

	editID string
}

func New() *Form {
	return &Form{state: StateEmpty}
}

// Load prefills the form from an existing recipe for editing.
func Load(ctx context.Context, store record.Store, id string) (*Form, error) {
	recipe, err := store.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, fmt.Errorf("recipe %s not found", id)
	}

	f := &Form{
		state:    StatePopulated,
		Title:    recipe.Title,
		BodyText: recipe.BodyText,
		Memo:     recipe.Memo,
		images:   model.DecodeImageList(recipe.ImageURL),
		editID:   recipe.ID,
	}
	for _, tag := range recipe.Tags {
		switch tag.Type {
		case model.TagSituation:
			f.situationTags = append(f.situationTags, tag.Name)
		case model.TagIngredient:
			f.ingredientTags = append(f.ingredientTags, tag.Name)
		}
	}
	return f, nil
}

func (f *Form) State() State     { return f.state }
func (f *Form) Images() []string { return f.images }
func (f *Form) Editing() bool    { return f.editID != "" }

func (f *Form) touch() {
	if f.state == StateEmpty {
		f.state = StatePopulated
	}
}

func (f *Form) SetTitle(s string) { f.Title = s; f.touch() }
func (f *Form) SetBody(s string)  { f.BodyText = s; f.touch() }
func (f *Form) SetMemo(s string)  { f.Memo = s; f.touch() }

// AddImage records a picked image, up to two.
func (f *Form) AddImage(path string) error {
	if len(f.images) >= maxImages {
		return fmt.Errorf("at most %d images per recipe", maxImages)
	}
	f.images = append(f.images, path)
	f.touch()
	return nil
}

func (f *Form) RemoveImage(index int) {
	if index < 0 || index >= len(f.images) {
		return
	}
	f.images = append(f.images[:index], f.images[index+1:]...)
}

// cleanTag normalizes raw tag input: leading '#' and surrounding
// whitespace stripped.
func cleanTag(raw string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "#"))
}

// AddTag appends a tag of the given kind, suppressing duplicates by name
// within that kind.
func (f *Form) AddTag(kind, raw string) {
	name := cleanTag(raw)
	if name == "" {
		return
	}

	var list *[]string
	switch kind {
	case model.TagSituation:
		list = &f.situationTags
	case model.TagIngredient:
		list = &f.ingredientTags
	default:
		return
	}
	for _, existing := range *list {
		if existing == name {
			return
		}
	}
	*list = append(*list, name)
	f.touch()
}

func (f *Form) RemoveTag(kind, name string) {
	var list *[]string
	switch kind {
	case model.TagSituation:
		list = &f.situationTags
	case model.TagIngredient:
		list = &f.ingredientTags
	default:
		return
	}
	for i, existing := range *list {
		if existing == name {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return
		}
	}
}

// Tags assembles the ordered tag list, situation tags first.
func (f *Form) Tags() []model.Tag {
	tags := make([]model.Tag, 0, len(f.situationTags)+len(f.ingredientTags))
	for _, name := range f.situationTags {
		tags = append(tags, model.Tag{Type: model.TagSituation, Name: name})
	}
	for _, name := range f.ingredientTags {
		tags = append(tags, model.Tag{Type: model.TagIngredient, Name: name})
	}
	return tags
}

// Analyze sends the selected images through extraction. Returned fields
// overwrite whatever the user typed: extraction always wins for title,
// body, and ingredient tags.
func (f *Form) Analyze(ctx context.Context, analyzer Analyzer) error {
	if len(f.images) == 0 {
		return fmt.Errorf("select an image first")
	}
	if f.state == StateAnalyzing || f.state == StateSaving {
		return fmt.Errorf("form is busy")
	}

	var payload [][]byte
	for _, img := range f.images {
		data, err := os.ReadFile(img)
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}
		payload = append(payload, data)
	}

	f.state = StateAnalyzing
	ext, err := analyzer.AnalyzeRecipeImages(ctx, payload)
	f.state = StatePopulated
	if err != nil {
		return err
	}

	if ext.Title != "" {
		f.Title = ext.Title
	}
	if ext.BodyText != "" {
		f.BodyText = ext.BodyText
	}
	if len(ext.IngredientTags) > 0 {
		f.ingredientTags = nil
		for _, raw := range ext.IngredientTags {
			f.AddTag(model.TagIngredient, raw)
		}
	}
	return nil
}

// validate enforces the submission contract: a title, plus either body
// text or at least one image.
func (f *Form) validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return &record.Error{Kind: record.KindValidation, Message: "title is required"}
	}
	if strings.TrimSpace(f.BodyText) == "" && len(f.images) == 0 {
		return &record.Error{Kind: record.KindValidation, Message: "add instructions or a photo"}
	}
	return nil
}

// Submit validates and persists the recipe. Guest mode copies picked
// images into private storage; authenticated mode uploads them and stores
// the returned URLs. The first image doubles as the thumbnail.
func (f *Form) Submit(ctx context.Context, env Env) (*model.Recipe, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	if f.state == StateSaving {
		return nil, fmt.Errorf("form is busy")
	}
	f.state = StateSaving
	defer func() { f.state = StatePopulated }()

	urls, err := f.persistImages(ctx, env)
	if err != nil {
		return nil, err
	}

	in := record.RecipeInput{
		Title:     strings.TrimSpace(f.Title),
		BodyText:  f.BodyText,
		Memo:      f.Memo,
		Tags:      f.Tags(),
		ImageURLs: urls,
	}
	if len(urls) > 0 {
		in.ThumbnailURL = urls[0]
	}

	if f.editID != "" {
		return env.Store.UpdateRecipe(ctx, f.editID, in)
	}
	return env.Store.CreateRecipe(ctx, in)
}

func (f *Form) persistImages(ctx context.Context, env Env) ([]string, error) {
	var urls []string
	for _, img := range f.images {
		switch {
		case env.Uploader != nil:
			url, err := f.uploadImage(ctx, env.Uploader, img)
			if err != nil {
				return nil, err
			}
			urls = append(urls, url)
		case env.Local != nil:
			copied, err := env.Local.ImportImage(img)
			if err != nil {
				return nil, err
			}
			urls = append(urls, copied)
		default:
			urls = append(urls, img)
		}
	}
	return urls, nil
}

func (f *Form) uploadImage(ctx context.Context, up Uploader, img string) (string, error) {
	if strings.HasPrefix(img, "http://") || strings.HasPrefix(img, "https://") {
		return img, nil
	}
	data, err := os.ReadFile(img)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	return up.UploadImage(ctx, data, filepath.Base(img), "image/jpeg")
}
