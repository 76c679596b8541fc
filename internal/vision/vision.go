// Package vision extracts structured recipe data from photos of recipe
// pages using a multimodal model.
package vision

import "context"

// Image is raw photo data with its MIME subtype ("jpeg", "png", ...).
type Image struct {
	Data   []byte
	Format string
}

// Extraction is the structured result of reading a recipe photo. A non-empty
// Error means the model could not find a recipe in the image.
type Extraction struct {
	Title          string   `json:"title"`
	BodyText       string   `json:"body_text"`
	IngredientTags []string `json:"ingredientTags"`
	Error          string   `json:"error,omitempty"`
}

// Extractor reads recipe photos into structured extractions.
type Extractor interface {
	Extract(ctx context.Context, images []Image) (*Extraction, error)
	Close() error
}
