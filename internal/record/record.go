// Package record is the client-side data layer. It exposes one Store
// contract with two implementations: LocalStore keeps guest data in JSON
// files on the device, RemoteStore talks to the hosted backend. Which one a
// caller gets depends only on whether a session is present.
package record

import (
	"context"
	"fmt"

	"github.com/dukerupert/recipebox/internal/model"
)

// ErrorKind tags a failure so the caller can decide how to present it.
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindUnauthorized ErrorKind = "unauthorized"
	KindNotFound     ErrorKind = "not_found"
	KindNetwork      ErrorKind = "network"
	KindStorage      ErrorKind = "storage"
	KindServer       ErrorKind = "server"
)

// Error is a tagged store failure.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// Session identifies an authenticated user. A nil *Session means guest mode.
type Session struct {
	Token  string
	UserID string
}

// RecipeInput carries the writable recipe fields. Image locations are kept
// as a decoded list; each store encodes them for its own persistence.
type RecipeInput struct {
	Title        string
	BodyText     string
	Memo         string
	Tags         []model.Tag
	ThumbnailURL string
	ImageURLs    []string
}

// Store is the capability surface shared by the guest and authenticated
// data layers. Every UI flow programs against this, never against a
// concrete implementation.
type Store interface {
	ListRecipes(ctx context.Context) ([]model.Recipe, error)
	GetRecipe(ctx context.Context, id string) (*model.Recipe, error)
	CreateRecipe(ctx context.Context, in RecipeInput) (*model.Recipe, error)
	UpdateRecipe(ctx context.Context, id string, in RecipeInput) (*model.Recipe, error)
	DeleteRecipe(ctx context.Context, id string) error
	ClearRecipes(ctx context.Context) error

	ListMealPlans(ctx context.Context, start, end string) ([]model.MealPlan, error)
	CreateMealPlan(ctx context.Context, date, mealType string, recipeID *string, customText string) (*model.MealPlan, error)
	DeleteMealPlan(ctx context.Context, id string) error

	ListShoppingItems(ctx context.Context) ([]model.ShoppingItem, error)
	CreateShoppingItem(ctx context.Context, text string) (*model.ShoppingItem, error)
	ToggleShoppingItem(ctx context.Context, id string) (*model.ShoppingItem, error)
	DeleteShoppingItem(ctx context.Context, id string) error
	ClearShoppingItems(ctx context.Context) error
}

// ForSession picks the authoritative store for the current session. Exactly
// one store is active at a time: remote when a session exists, local
// otherwise.
func ForSession(session *Session, local *LocalStore, remote *RemoteStore) Store {
	if session != nil && session.Token != "" {
		return remote
	}
	return local
}
