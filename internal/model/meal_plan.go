package model

import "time"

const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
)

// MealTypes lists the valid meal slots in display order.
var MealTypes = []string{MealBreakfast, MealLunch, MealDinner}

// MealPlanRecipe is the shallow recipe join inlined into meal plan listings.
type MealPlanRecipe struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// MealPlan is one cell of the weekly planner. Exactly one of RecipeID or
// CustomText is expected to be set; entries with neither are hidden by the
// planner rather than rejected here. Date is a zero-padded YYYY-MM-DD string
// so range filters can compare lexicographically.
type MealPlan struct {
	ID         string          `json:"id"`
	UserID     *string         `json:"user_id"`
	Date       string          `json:"date"`
	MealType   string          `json:"meal_type"`
	RecipeID   *string         `json:"recipe_id"`
	CustomText string          `json:"custom_text"`
	CreatedAt  time.Time       `json:"created_at"`
	Recipe     *MealPlanRecipe `json:"recipe,omitempty"`
}
