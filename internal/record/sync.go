package record

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dukerupert/recipebox/internal/model"
)

// Syncer migrates guest recipes to the authenticated backend after first
// login. Records move one at a time: each local recipe is deleted
// immediately after its remote insert succeeds, so an interrupted sync
// never duplicates recipes on the next attempt.
type Syncer struct {
	local  *LocalStore
	remote *RemoteStore
	client *Client
	logger *slog.Logger
}

func NewSyncer(local *LocalStore, remote *RemoteStore, client *Client, logger *slog.Logger) *Syncer {
	return &Syncer{local: local, remote: remote, client: client, logger: logger}
}

// Report summarizes a sync run.
type Report struct {
	Synced int
	Total  int
}

// Needed reports whether there is any guest data to migrate.
func (s *Syncer) Needed(ctx context.Context) bool {
	recipes, err := s.local.ListRecipes(ctx)
	return err == nil && len(recipes) > 0
}

// Sync walks all guest recipes sequentially, uploading local image files to
// hosted storage and inserting a remote record for each. A per-recipe
// failure is logged and counted, and the batch continues.
func (s *Syncer) Sync(ctx context.Context) (*Report, error) {
	recipes, err := s.local.ListRecipes(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{Total: len(recipes)}
	for _, recipe := range recipes {
		if err := s.syncOne(ctx, recipe); err != nil {
			s.logger.Error("sync recipe", "id", recipe.ID, "title", recipe.Title, "error", err)
			continue
		}
		report.Synced++
	}
	return report, nil
}

func (s *Syncer) syncOne(ctx context.Context, recipe model.Recipe) error {
	thumb, err := s.uploadRef(ctx, recipe.ThumbnailURL)
	if err != nil {
		return err
	}

	urls := model.DecodeImageList(recipe.ImageURL)
	for i, u := range urls {
		uploaded, err := s.uploadRef(ctx, u)
		if err != nil {
			return err
		}
		urls[i] = uploaded
	}

	_, err = s.remote.CreateRecipe(ctx, RecipeInput{
		Title:        recipe.Title,
		BodyText:     recipe.BodyText,
		Memo:         recipe.Memo,
		Tags:         recipe.Tags,
		ThumbnailURL: thumb,
		ImageURLs:    urls,
	})
	if err != nil {
		return err
	}

	s.local.mu.Lock()
	defer s.local.mu.Unlock()
	return s.local.deleteRecipeLocked(recipe.ID)
}

// uploadRef pushes a local image file to hosted storage and returns its
// public URL. Remote URLs pass through unchanged.
func (s *Syncer) uploadRef(ctx context.Context, ref string) (string, error) {
	if ref == "" || isURL(ref) {
		return ref, nil
	}

	data, err := os.ReadFile(ref)
	if err != nil {
		return "", newError(KindStorage, "read local image", err)
	}

	fileName := filepath.Base(ref)
	backoff := retry.WithMaxRetries(3, retry.NewExponential(500*time.Millisecond))

	var publicURL string
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		url, err := s.client.UploadImage(ctx, data, fileName, "image/jpeg")
		if err != nil {
			var rerr *Error
			if errors.As(err, &rerr) && rerr.Kind == KindNetwork {
				return retry.RetryableError(err)
			}
			return err
		}
		publicURL = url
		return nil
	})
	if err != nil {
		return "", err
	}
	return publicURL, nil
}
