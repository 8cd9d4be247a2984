// Command seed populates the database with demo users, content and follow
// edges for local development.
package main

import (
	"flag"
	"log"

	"ripple/internal/config"
	"ripple/internal/database"
	"ripple/internal/seed"
)

func main() {
	users := flag.Int("users", seed.DefaultOptions.Users, "number of users to create")
	contents := flag.Int("contents", seed.DefaultOptions.ContentsPerUser, "contents per user")
	comments := flag.Int("comments", seed.DefaultOptions.CommentsPerContent, "comments per content")
	density := flag.Float64("density", seed.DefaultOptions.FollowDensity, "follow edge probability per ordered pair")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	opts := seed.Options{
		Users:              *users,
		ContentsPerUser:    *contents,
		CommentsPerContent: *comments,
		FollowDensity:      *density,
	}
	if err := seed.Run(db, opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
