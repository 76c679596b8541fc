package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/dukerupert/recipebox/internal/model"
)

type ShoppingStore struct {
	db *sql.DB
}

func NewShoppingStore(db *sql.DB) *ShoppingStore {
	return &ShoppingStore{db: db}
}

const shoppingCols = `id, user_id, text, is_completed, created_at`

func scanShoppingItem(scanner interface{ Scan(...any) error }) (*model.ShoppingItem, error) {
	var item model.ShoppingItem
	var userID string
	var completed int

	err := scanner.Scan(&item.ID, &userID, &item.Text, &completed, &item.CreatedAt)
	if err != nil {
		return nil, err
	}

	item.UserID = &userID
	item.IsCompleted = completed != 0
	return &item, nil
}

func (s *ShoppingStore) Create(userID, text string) (*model.ShoppingItem, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO shopping_items (id, user_id, text) VALUES (?, ?, ?)`,
		id, userID, text,
	)
	if err != nil {
		return nil, fmt.Errorf("insert shopping item: %w", err)
	}
	return s.GetByID(id, userID)
}

func (s *ShoppingStore) GetByID(id, userID string) (*model.ShoppingItem, error) {
	row := s.db.QueryRow(`SELECT `+shoppingCols+` FROM shopping_items WHERE id = ? AND user_id = ?`, id, userID)
	item, err := scanShoppingItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get shopping item: %w", err)
	}
	return item, nil
}

// ListByUser orders incomplete items before completed ones, preserving
// arrival order within each group. The rowid tiebreaker keeps insertion
// order stable when created_at values collide.
func (s *ShoppingStore) ListByUser(userID string) ([]model.ShoppingItem, error) {
	rows, err := s.db.Query(
		`SELECT `+shoppingCols+` FROM shopping_items
		 WHERE user_id = ? ORDER BY is_completed ASC, created_at ASC, rowid ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list shopping items: %w", err)
	}
	defer rows.Close()

	var items []model.ShoppingItem
	for rows.Next() {
		item, err := scanShoppingItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shopping item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (s *ShoppingStore) ToggleCompleted(id, userID string) (*model.ShoppingItem, error) {
	item, err := s.GetByID(id, userID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	completed := 1
	if item.IsCompleted {
		completed = 0
	}
	_, err = s.db.Exec(`UPDATE shopping_items SET is_completed = ? WHERE id = ? AND user_id = ?`, completed, id, userID)
	if err != nil {
		return nil, fmt.Errorf("toggle shopping item: %w", err)
	}
	return s.GetByID(id, userID)
}

func (s *ShoppingStore) Delete(id, userID string) error {
	_, err := s.db.Exec(`DELETE FROM shopping_items WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete shopping item: %w", err)
	}
	return nil
}

func (s *ShoppingStore) DeleteAllByUser(userID string) (int64, error) {
	result, err := s.db.Exec(`DELETE FROM shopping_items WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("clear shopping items: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}
