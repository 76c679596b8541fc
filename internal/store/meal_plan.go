package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/dukerupert/recipebox/internal/model"
)

type MealPlanStore struct {
	db *sql.DB
}

func NewMealPlanStore(db *sql.DB) *MealPlanStore {
	return &MealPlanStore{db: db}
}

func (s *MealPlanStore) Create(userID, date, mealType string, recipeID *string, customText string) (*model.MealPlan, error) {
	var rID sql.NullString
	if recipeID != nil {
		rID = sql.NullString{String: *recipeID, Valid: true}
	}

	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO meal_plans (id, user_id, date, meal_type, recipe_id, custom_text)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, userID, date, mealType, rID, customText,
	)
	if err != nil {
		return nil, fmt.Errorf("insert meal plan: %w", err)
	}
	return s.GetByID(id, userID)
}

func (s *MealPlanStore) GetByID(id, userID string) (*model.MealPlan, error) {
	row := s.db.QueryRow(
		`SELECT id, user_id, date, meal_type, recipe_id, custom_text, created_at
		 FROM meal_plans WHERE id = ? AND user_id = ?`,
		id, userID,
	)

	var p model.MealPlan
	var uid string
	var rID sql.NullString
	err := row.Scan(&p.ID, &uid, &p.Date, &p.MealType, &rID, &p.CustomText, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get meal plan: %w", err)
	}

	p.UserID = &uid
	if rID.Valid {
		p.RecipeID = &rID.String
	}
	return &p, nil
}

// ListByDateRange returns entries with start <= date <= end (dates are
// zero-padded YYYY-MM-DD, so string comparison is correct), with minimal
// recipe fields inlined for entries that still reference a live recipe.
func (s *MealPlanStore) ListByDateRange(userID, start, end string) ([]model.MealPlan, error) {
	rows, err := s.db.Query(
		`SELECT p.id, p.user_id, p.date, p.meal_type, p.recipe_id, p.custom_text, p.created_at,
		        r.id, r.title, r.thumbnail_url
		 FROM meal_plans p
		 LEFT JOIN recipes r ON r.id = p.recipe_id
		 WHERE p.user_id = ? AND p.date >= ? AND p.date <= ?
		 ORDER BY p.date ASC, p.created_at ASC, p.rowid ASC`,
		userID, start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("list meal plans: %w", err)
	}
	defer rows.Close()

	var plans []model.MealPlan
	for rows.Next() {
		var p model.MealPlan
		var uid string
		var rID, joinID, joinTitle, joinThumb sql.NullString

		if err := rows.Scan(&p.ID, &uid, &p.Date, &p.MealType, &rID, &p.CustomText, &p.CreatedAt,
			&joinID, &joinTitle, &joinThumb); err != nil {
			return nil, fmt.Errorf("scan meal plan: %w", err)
		}

		p.UserID = &uid
		if rID.Valid {
			p.RecipeID = &rID.String
		}
		if joinID.Valid {
			p.Recipe = &model.MealPlanRecipe{
				ID:           joinID.String,
				Title:        joinTitle.String,
				ThumbnailURL: joinThumb.String,
			}
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

func (s *MealPlanStore) Delete(id, userID string) error {
	_, err := s.db.Exec(`DELETE FROM meal_plans WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete meal plan: %w", err)
	}
	return nil
}
