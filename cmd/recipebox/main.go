package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/recipebox/internal/database"
	"github.com/dukerupert/recipebox/internal/imagestore"
	"github.com/dukerupert/recipebox/internal/logging"
	"github.com/dukerupert/recipebox/internal/server"
	"github.com/dukerupert/recipebox/internal/vision"
)

func main() {
	logger := logging.Setup(os.Getenv("RECIPEBOX_LOG_LEVEL"))

	port := os.Getenv("RECIPEBOX_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("RECIPEBOX_DB_PATH")
	if dbPath == "" {
		dbPath = "recipebox.db"
	}

	db, err := database.Open(dbPath)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var extractor vision.Extractor
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		modelName := os.Getenv("RECIPEBOX_VISION_MODEL")
		if modelName == "" {
			modelName = "gemini-2.0-flash"
		}
		ext, err := vision.NewGeminiExtractor(context.Background(), key, modelName)
		if err != nil {
			logger.Error("create vision extractor", "error", err)
			os.Exit(1)
		}
		defer ext.Close()
		extractor = ext
	} else {
		logger.Warn("GEMINI_API_KEY not set, recipe photo analysis disabled")
	}

	uploader := imagestore.NewUploader(imagestore.Config{
		Endpoint:      os.Getenv("RECIPEBOX_S3_ENDPOINT"),
		Bucket:        os.Getenv("RECIPEBOX_S3_BUCKET"),
		Region:        os.Getenv("RECIPEBOX_S3_REGION"),
		AccessKey:     os.Getenv("RECIPEBOX_S3_ACCESS_KEY"),
		SecretKey:     os.Getenv("RECIPEBOX_S3_SECRET_KEY"),
		PublicBaseURL: os.Getenv("RECIPEBOX_S3_PUBLIC_URL"),
	})
	if !uploader.Enabled() {
		logger.Warn("S3 credentials not set, image uploads disabled")
	}

	srv := server.New(db, extractor, uploader, logger)

	// Periodic cleanup of expired sessions and stale rate limit entries
	cleanupDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := srv.SessionStore().DeleteExpired(); err != nil {
					logger.Error("session cleanup", "error", err)
				}
				srv.RateLimiter().Cleanup()
			case <-cleanupDone:
				return
			}
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		fmt.Printf("RecipeBox running at http://localhost:%s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	close(cleanupDone)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
