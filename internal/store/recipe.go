package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/dukerupert/recipebox/internal/model"
)

type RecipeStore struct {
	db *sql.DB
}

func NewRecipeStore(db *sql.DB) *RecipeStore {
	return &RecipeStore{db: db}
}

// RecipeInput carries every writable recipe field. Updates are full
// overwrites, so the same struct serves create and update.
type RecipeInput struct {
	Title        string
	BodyText     string
	Memo         string
	Tags         []model.Tag
	ThumbnailURL string
	ImageURL     string
}

const recipeCols = `id, user_id, title, body_text, memo, tags, thumbnail_url, image_url, created_at, updated_at`

func scanRecipe(scanner interface{ Scan(...any) error }) (*model.Recipe, error) {
	var r model.Recipe
	var userID string
	var tagsJSON string

	err := scanner.Scan(
		&r.ID, &userID, &r.Title, &r.BodyText, &r.Memo,
		&tagsJSON, &r.ThumbnailURL, &r.ImageURL, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.UserID = &userID
	if err := json.Unmarshal([]byte(tagsJSON), &r.Tags); err != nil {
		// Tolerate malformed historic tag data rather than failing the row.
		r.Tags = nil
	}
	return &r, nil
}

func marshalTags(tags []model.Tag) string {
	if tags == nil {
		tags = []model.Tag{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func (s *RecipeStore) Create(userID string, in RecipeInput) (*model.Recipe, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO recipes (id, user_id, title, body_text, memo, tags, thumbnail_url, image_url)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, userID, in.Title, in.BodyText, in.Memo, marshalTags(in.Tags), in.ThumbnailURL, in.ImageURL,
	)
	if err != nil {
		return nil, fmt.Errorf("insert recipe: %w", err)
	}
	return s.GetByID(id, userID)
}

func (s *RecipeStore) GetByID(id, userID string) (*model.Recipe, error) {
	row := s.db.QueryRow(`SELECT `+recipeCols+` FROM recipes WHERE id = ? AND user_id = ?`, id, userID)
	r, err := scanRecipe(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return r, nil
}

func (s *RecipeStore) ListByUser(userID string) ([]model.Recipe, error) {
	// rowid breaks created_at ties so back-to-back saves list newest first
	rows, err := s.db.Query(
		`SELECT `+recipeCols+` FROM recipes WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []model.Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		recipes = append(recipes, *r)
	}
	return recipes, rows.Err()
}

func (s *RecipeStore) Update(id, userID string, in RecipeInput) (*model.Recipe, error) {
	_, err := s.db.Exec(
		`UPDATE recipes
		 SET title = ?, body_text = ?, memo = ?, tags = ?, thumbnail_url = ?, image_url = ?, updated_at = strftime('%Y-%m-%d %H:%M:%f', 'now')
		 WHERE id = ? AND user_id = ?`,
		in.Title, in.BodyText, in.Memo, marshalTags(in.Tags), in.ThumbnailURL, in.ImageURL, id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("update recipe: %w", err)
	}
	return s.GetByID(id, userID)
}

func (s *RecipeStore) Delete(id, userID string) error {
	_, err := s.db.Exec(`DELETE FROM recipes WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	return nil
}

func (s *RecipeStore) DeleteAllByUser(userID string) (int64, error) {
	result, err := s.db.Exec(`DELETE FROM recipes WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete recipes: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}
