package record

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dukerupert/recipebox/internal/model"
	"github.com/dukerupert/recipebox/internal/vision"
)

// Client is the HTTP client for the hosted backend. A zero Token makes
// unauthenticated calls (register, login); everything else requires one.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 60 * time.Second},
	}
}

// do performs one request and decodes the JSON response into out when out
// is non-nil. Backend failures come back as tagged errors: the server's
// {"error": ...} message when present, KindNetwork when the request never
// completed.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return newError(KindValidation, "encode request", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return newError(KindValidation, "build request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return newError(KindNetwork, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		msg := resp.Status
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			msg = apiErr.Error
		}
		kind := KindServer
		switch resp.StatusCode {
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			kind = KindValidation
		case http.StatusUnauthorized:
			kind = KindUnauthorized
		case http.StatusNotFound:
			kind = KindNotFound
		}
		return newError(kind, msg, nil)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return newError(KindServer, "decode response", err)
		}
	}
	return nil
}

type authResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

func (c *Client) Register(ctx context.Context, email, password string) (*Session, error) {
	var resp authResponse
	err := c.do(ctx, "POST", "/api/auth/register", map[string]string{"email": email, "password": password}, &resp)
	if err != nil {
		return nil, err
	}
	c.Token = resp.Token
	return &Session{Token: resp.Token, UserID: resp.User.ID}, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var resp authResponse
	err := c.do(ctx, "POST", "/api/auth/login", map[string]string{"email": email, "password": password}, &resp)
	if err != nil {
		return nil, err
	}
	c.Token = resp.Token
	return &Session{Token: resp.Token, UserID: resp.User.ID}, nil
}

func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, "POST", "/api/auth/logout", nil, nil)
	c.Token = ""
	return err
}

// UploadImage sends raw image bytes to the backend's object storage and
// returns the public URL.
func (c *Client) UploadImage(ctx context.Context, data []byte, fileName, fileType string) (string, error) {
	req := map[string]string{
		"fileBase64": base64.StdEncoding.EncodeToString(data),
		"fileName":   fileName,
		"fileType":   fileType,
	}
	var resp struct {
		PublicURL string `json:"publicUrl"`
	}
	if err := c.do(ctx, "POST", "/api/upload-image", req, &resp); err != nil {
		return "", err
	}
	return resp.PublicURL, nil
}

// AnalyzeRecipeImages runs server-side extraction over 1 or 2 images.
func (c *Client) AnalyzeRecipeImages(ctx context.Context, images [][]byte) (*vision.Extraction, error) {
	if len(images) == 0 || len(images) > 2 {
		return nil, newError(KindValidation, "between 1 and 2 images are required", nil)
	}

	type imagePayload struct {
		Data   string `json:"data"`
		Format string `json:"format"`
	}
	req := struct {
		Images []imagePayload `json:"images"`
	}{}
	for _, img := range images {
		req.Images = append(req.Images, imagePayload{
			Data:   base64.StdEncoding.EncodeToString(img),
			Format: "jpeg",
		})
	}

	var ext vision.Extraction
	if err := c.do(ctx, "POST", "/api/analyze-recipe-image", req, &ext); err != nil {
		return nil, err
	}
	if ext.Error != "" {
		return nil, newError(KindServer, ext.Error, nil)
	}
	return &ext, nil
}

// RemoteStore implements Store against the hosted backend. The server
// scopes every query to the session's user, so no owner filtering happens
// client-side.
type RemoteStore struct {
	client *Client
}

func NewRemoteStore(client *Client) *RemoteStore {
	return &RemoteStore{client: client}
}

type recipePayload struct {
	Title        string      `json:"title"`
	BodyText     string      `json:"body_text"`
	Memo         string      `json:"memo"`
	Tags         []model.Tag `json:"tags"`
	ThumbnailURL string      `json:"thumbnail_url"`
	ImageURL     string      `json:"image_url"`
}

func recipeBody(in RecipeInput) recipePayload {
	return recipePayload{
		Title:        in.Title,
		BodyText:     in.BodyText,
		Memo:         in.Memo,
		Tags:         in.Tags,
		ThumbnailURL: in.ThumbnailURL,
		ImageURL:     model.EncodeImageList(in.ImageURLs),
	}
}

func (s *RemoteStore) ListRecipes(ctx context.Context) ([]model.Recipe, error) {
	var recipes []model.Recipe
	if err := s.client.do(ctx, "GET", "/api/recipes", nil, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

func (s *RemoteStore) GetRecipe(ctx context.Context, id string) (*model.Recipe, error) {
	var recipe model.Recipe
	err := s.client.do(ctx, "GET", "/api/recipes/"+url.PathEscape(id), nil, &recipe)
	if err != nil {
		var rerr *Error
		if errors.As(err, &rerr) && rerr.Kind == KindNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &recipe, nil
}

func (s *RemoteStore) CreateRecipe(ctx context.Context, in RecipeInput) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := s.client.do(ctx, "POST", "/api/recipes", recipeBody(in), &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (s *RemoteStore) UpdateRecipe(ctx context.Context, id string, in RecipeInput) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := s.client.do(ctx, "PUT", "/api/recipes/"+url.PathEscape(id), recipeBody(in), &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (s *RemoteStore) DeleteRecipe(ctx context.Context, id string) error {
	return s.client.do(ctx, "DELETE", "/api/recipes/"+url.PathEscape(id), nil, nil)
}

func (s *RemoteStore) ClearRecipes(ctx context.Context) error {
	return s.client.do(ctx, "DELETE", "/api/recipes", nil, nil)
}

func (s *RemoteStore) ListMealPlans(ctx context.Context, start, end string) ([]model.MealPlan, error) {
	var plans []model.MealPlan
	path := fmt.Sprintf("/api/meal-plans?start=%s&end=%s", url.QueryEscape(start), url.QueryEscape(end))
	if err := s.client.do(ctx, "GET", path, nil, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

func (s *RemoteStore) CreateMealPlan(ctx context.Context, date, mealType string, recipeID *string, customText string) (*model.MealPlan, error) {
	req := map[string]any{
		"date":        date,
		"meal_type":   mealType,
		"recipe_id":   recipeID,
		"custom_text": customText,
	}
	var plan model.MealPlan
	if err := s.client.do(ctx, "POST", "/api/meal-plans", req, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (s *RemoteStore) DeleteMealPlan(ctx context.Context, id string) error {
	return s.client.do(ctx, "DELETE", "/api/meal-plans/"+url.PathEscape(id), nil, nil)
}

func (s *RemoteStore) ListShoppingItems(ctx context.Context) ([]model.ShoppingItem, error) {
	var items []model.ShoppingItem
	if err := s.client.do(ctx, "GET", "/api/shopping-items", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *RemoteStore) CreateShoppingItem(ctx context.Context, text string) (*model.ShoppingItem, error) {
	var item model.ShoppingItem
	if err := s.client.do(ctx, "POST", "/api/shopping-items", map[string]string{"text": text}, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *RemoteStore) ToggleShoppingItem(ctx context.Context, id string) (*model.ShoppingItem, error) {
	var item model.ShoppingItem
	if err := s.client.do(ctx, "POST", "/api/shopping-items/"+url.PathEscape(id)+"/toggle", nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *RemoteStore) DeleteShoppingItem(ctx context.Context, id string) error {
	return s.client.do(ctx, "DELETE", "/api/shopping-items/"+url.PathEscape(id), nil, nil)
}

func (s *RemoteStore) ClearShoppingItems(ctx context.Context) error {
	return s.client.do(ctx, "DELETE", "/api/shopping-items", nil, nil)
}
