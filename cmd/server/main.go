package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blagoySimandov/astra/go/internal/api"
	"github.com/blagoySimandov/astra/go/internal/auth"
	"github.com/blagoySimandov/astra/go/internal/config"
	"github.com/blagoySimandov/astra/go/internal/db"
	"github.com/blagoySimandov/astra/go/internal/gcs"
	"github.com/blagoySimandov/astra/go/internal/logger"
	"github.com/blagoySimandov/astra/go/internal/services"
	"github.com/blagoySimandov/astra/go/internal/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logger.Configure(cfg.LogLevel)

	ctx := context.Background()

	repo := buildRepository(ctx, cfg)
	if repo != nil {
		defer repo.Close()
	}

	var verifier auth.TokenVerifier
	if cfg.FirebaseProjectID != "" {
		jwtVerifier, err := auth.NewJWTVerifier(cfg.FirebaseProjectID)
		if err != nil {
			logger.Log.Error("Failed to create JWT verifier, protected routes will answer 503", "error", err)
		} else {
			defer jwtVerifier.Close()
			verifier = jwtVerifier
		}
	} else {
		logger.Log.Warn("FIREBASE_PROJECT_ID not resolvable, protected routes will answer 503")
	}

	var textGen services.TextGenerator
	if cfg.GoogleAIAPIKey != "" {
		client, err := services.NewGeminiAIClient(ctx, cfg.GoogleAIAPIKey, services.WithModel(cfg.GeminiModel))
		if err != nil {
			logger.Log.Error("Failed to create Gemini client", "error", err)
		} else {
			textGen = client
		}
	} else {
		logger.Log.Warn("GOOGLE_AI_API_KEY not set, generation is unavailable")
	}

	var logoSigner api.LogoSigner
	if cfg.LogoBucket != "" {
		uploader, err := gcs.NewLogoUploader(ctx, cfg.LogoBucket, cfg.ServiceAccountKey)
		if err != nil {
			logger.Log.Error("Failed to create logo uploader", "error", err)
		} else {
			defer uploader.Close()
			logoSigner = uploader
		}
	}

	router := api.SetupRoutes(api.Dependencies{
		Verifier:       verifier,
		Users:          user.NewUserService(repo),
		Relay:          services.NewGenerationRelay(textGen),
		LogoSigner:     logoSigner,
		AllowedOrigins: cfg.AllowedOrigins,
		StoreDriver:    cfg.StoreDriver,
	})

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		logger.Log.Info("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Log.Error("Server shutdown error", "error", err)
		}
	}()

	logger.Log.Info("Server starting", "addr", cfg.ServerAddr, "store_driver", cfg.StoreDriver)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.Error("Server failed to start", "error", err)
		os.Exit(1)
	}

	logger.Log.Info("Server stopped")
}

// buildRepository returns nil when the selected store has no credentials or
// cannot be reached; the profile routes then answer 503.
func buildRepository(ctx context.Context, cfg *config.Config) user.Repository {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		if cfg.DatabaseURL == "" {
			logger.Log.Warn("DATABASE_URL not set, profile store is unavailable")
			return nil
		}
		repo := user.NewPostgresRepository(db.NewBunPostgresClient(cfg.DatabaseURL))
		if err := repo.InitializeDatabase(ctx); err != nil {
			logger.Log.Warn("Failed to ensure user_profiles table, run cmd/migrate", "error", err)
		}
		return repo

	case config.StoreDriverRedis:
		if cfg.RedisAddr == "" {
			logger.Log.Warn("REDIS_ADDR not set, profile store is unavailable")
			return nil
		}
		client, err := db.NewRedisClient(ctx, db.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			logger.Log.Error("Failed to connect to Redis", "error", err)
			return nil
		}
		return user.NewRedisRepository(client)

	default:
		if !cfg.HasServiceAccount() || cfg.FirebaseProjectID == "" {
			logger.Log.Warn("SERVICE_ACCOUNT_KEY not set, profile store is unavailable")
			return nil
		}
		repo, err := user.NewFirestoreRepository(ctx, cfg.FirebaseProjectID, cfg.ServiceAccountKey)
		if err != nil {
			logger.Log.Error("Failed to create Firestore client", "error", err)
			return nil
		}
		return repo
	}
}
