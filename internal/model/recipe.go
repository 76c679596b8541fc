package model

import "time"

const (
	TagSituation  = "situation"
	TagIngredient = "ingredient"
)

// Tag is a single recipe tag. Type is either "situation" or "ingredient".
type Tag struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// Recipe is a captured recipe. UserID is nil for guest-owned records that
// live only in the local store. ImageURL holds either a bare URL/path or a
// JSON-encoded array of up to two, see DecodeImageList.
type Recipe struct {
	ID           string    `json:"id"`
	UserID       *string   `json:"user_id"`
	Title        string    `json:"title"`
	BodyText     string    `json:"body_text"`
	Memo         string    `json:"memo"`
	Tags         []Tag     `json:"tags"`
	ThumbnailURL string    `json:"thumbnail_url"`
	ImageURL     string    `json:"image_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TagNames returns the names of all tags of the given type, in order.
func (r *Recipe) TagNames(tagType string) []string {
	var names []string
	for _, t := range r.Tags {
		if t.Type == tagType {
			names = append(names, t.Name)
		}
	}
	return names
}
