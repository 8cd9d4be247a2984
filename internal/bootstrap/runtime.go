// Package bootstrap establishes runtime dependencies shared by the server
// and auxiliary commands.
package bootstrap

import (
	"fmt"
	"log"
	"strings"

	"ripple/internal/cache"
	"ripple/internal/config"
	"ripple/internal/database"
	"ripple/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// Migrate runs schema migration after connecting.
	Migrate bool
	// SeedDemo populates demo users, contents and relations. Only honored
	// in development.
	SeedDemo bool
}

// InitRuntime connects to the database and Redis and optionally migrates and
// seeds. The Redis client is nil when the store is unreachable; callers are
// expected to degrade rather than fail.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	if opts.Migrate {
		if err := database.Migrate(db); err != nil {
			return nil, nil, fmt.Errorf("database migration failed: %w", err)
		}
	}

	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedDemo {
		if !strings.EqualFold(cfg.Env, "development") {
			log.Printf("Skipping demo seed: APP_ENV is %q", cfg.Env)
		} else if err := seed.Run(db, seed.DefaultOptions); err != nil {
			return nil, nil, fmt.Errorf("demo seed failed: %w", err)
		}
	}

	return db, r, nil
}
