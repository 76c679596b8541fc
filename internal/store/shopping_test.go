package store

import (
	"fmt"
	"testing"

	"github.com/dukerupert/recipebox/internal/database"
)

func setupShoppingTestDB(t *testing.T) (*ShoppingStore, string) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	user, err := NewUserStore(db).Create("cook@example.com", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return NewShoppingStore(db), user.ID
}

func TestShoppingCreateAndToggle(t *testing.T) {
	ss, userID := setupShoppingTestDB(t)

	item, err := ss.Create(userID, "eggs")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if item.Text != "eggs" || item.IsCompleted {
		t.Errorf("item = %+v", item)
	}

	toggled, err := ss.ToggleCompleted(item.ID, userID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !toggled.IsCompleted {
		t.Error("expected completed after toggle")
	}

	toggled, err = ss.ToggleCompleted(item.ID, userID)
	if err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	if toggled.IsCompleted {
		t.Error("expected incomplete after second toggle")
	}
}

func TestShoppingToggleMissingReturnsNil(t *testing.T) {
	ss, userID := setupShoppingTestDB(t)
	item, err := ss.ToggleCompleted("nope", userID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if item != nil {
		t.Errorf("item = %+v", item)
	}
}

func TestShoppingOrderingIncompleteFirst(t *testing.T) {
	ss, userID := setupShoppingTestDB(t)

	a, _ := ss.Create(userID, "A")
	ss.Create(userID, "B")
	ss.Create(userID, "C")
	if _, err := ss.ToggleCompleted(a.ID, userID); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	items, err := ss.ListByUser(userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items", len(items))
	}
	want := []string{"B", "C", "A"}
	for i, text := range want {
		if items[i].Text != text {
			t.Fatalf("order = [%s %s %s], want %v", items[0].Text, items[1].Text, items[2].Text, want)
		}
	}
}

func TestShoppingArrivalOrderPreserved(t *testing.T) {
	ss, userID := setupShoppingTestDB(t)

	// Rapid adds, e.g. one-click adds from a recipe's ingredient tags, all
	// land within the same wall-clock instant
	var texts []string
	for i := 0; i < 20; i++ {
		text := fmt.Sprintf("item-%02d", i)
		if _, err := ss.Create(userID, text); err != nil {
			t.Fatalf("create %s: %v", text, err)
		}
		texts = append(texts, text)
	}

	items, err := ss.ListByUser(userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != len(texts) {
		t.Fatalf("got %d items, want %d", len(items), len(texts))
	}
	for i, want := range texts {
		if items[i].Text != want {
			t.Fatalf("position %d = %s, want %s", i, items[i].Text, want)
		}
	}
}

func TestShoppingDuplicatesPermitted(t *testing.T) {
	ss, userID := setupShoppingTestDB(t)

	ss.Create(userID, "milk")
	ss.Create(userID, "milk")

	items, err := ss.ListByUser(userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("got %d items, want 2", len(items))
	}
}

func TestShoppingDeleteAndClear(t *testing.T) {
	ss, userID := setupShoppingTestDB(t)

	item, _ := ss.Create(userID, "flour")
	ss.Create(userID, "sugar")

	if err := ss.Delete(item.ID, userID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	items, _ := ss.ListByUser(userID)
	if len(items) != 1 {
		t.Fatalf("got %d items after delete", len(items))
	}

	count, err := ss.DeleteAllByUser(userID)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if count != 1 {
		t.Errorf("cleared = %d, want 1", count)
	}
}
