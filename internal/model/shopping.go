package model

import "time"

// ShoppingItem is a single shopping list entry. Duplicate texts are allowed.
type ShoppingItem struct {
	ID          string    `json:"id"`
	UserID      *string   `json:"user_id"`
	Text        string    `json:"text"`
	IsCompleted bool      `json:"is_completed"`
	CreatedAt   time.Time `json:"created_at"`
}
