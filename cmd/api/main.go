package main

import (
	"database/sql"
	"log"

	"github.com/JaligamRishitha/renewmart-sub000/internal/config"
	"github.com/JaligamRishitha/renewmart-sub000/internal/directory"
	"github.com/JaligamRishitha/renewmart-sub000/internal/domain/docs"
	httpapi "github.com/JaligamRishitha/renewmart-sub000/internal/http"
	"github.com/JaligamRishitha/renewmart-sub000/internal/infra/ratelimit"
	"github.com/JaligamRishitha/renewmart-sub000/internal/repo/postgres"
	"github.com/JaligamRishitha/renewmart-sub000/internal/repo/postgres/migrations"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	cfg := config.FromEnv()

	if cfg.MigrateOnStart {
		if err := runMigrations(cfg.PostgresDSN); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}

	store, err := postgres.NewStore(cfg)
	if err != nil {
		log.Fatalf("failed to init store: %v", err)
	}
	defer store.Close()

	dir, err := loadDirectory(cfg)
	if err != nil {
		log.Fatalf("failed to load reviewer directory: %v", err)
	}

	limiter := buildLimiter(cfg)

	srv := httpapi.NewServer(cfg, store, dir, limiter)
	if err := srv.Run(); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func runMigrations(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	return migrations.Up(db)
}

// loadDirectory builds the reviewer capability table. With no file
// configured every assign fails the role check, which is the safe default.
func loadDirectory(cfg config.Config) (docs.ReviewerDirectory, error) {
	if cfg.ReviewerDirectoryPath == "" {
		log.Printf("REVIEWER_DIRECTORY_PATH not set; reviewer capability table is empty")
		return directory.NewStatic(nil), nil
	}
	return directory.NewFromFile(cfg.ReviewerDirectoryPath)
}

func buildLimiter(cfg config.Config) docs.RateLimiter {
	if cfg.RateLimitRequests <= 0 {
		return nil
	}
	if cfg.RedisAddr != "" {
		limiter, err := ratelimit.NewRedisLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, nil)
		if err != nil {
			log.Fatalf("failed to init redis rate limiter: %v", err)
		}
		return limiter
	}
	return ratelimit.NewMemoryLimiter(ratelimit.MemoryLimiterConfig{})
}
