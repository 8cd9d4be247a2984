package seed

import (
	"fmt"
	"log"

	"ripple/internal/models"

	"gorm.io/gorm"
)

// Options controls the size of the generated dataset.
type Options struct {
	Users              int
	ContentsPerUser    int
	CommentsPerContent int
	FollowDensity      float64 // probability of an edge between any ordered pair
}

// DefaultOptions is a small but interconnected dataset for local development.
var DefaultOptions = Options{
	Users:              20,
	ContentsPerUser:    5,
	CommentsPerContent: 3,
	FollowDensity:      0.15,
}

// Run populates the database with a mesh of users, content, interactions,
// comments and follow edges. Safe to re-run: duplicate memberships and edges
// are skipped.
func Run(db *gorm.DB, opts Options) error {
	if opts.Users <= 0 {
		opts = DefaultOptions
	}

	f := NewFactory(db)

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		u, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
		users = append(users, u)
	}

	var contents []*models.Content
	for _, u := range users {
		for i := 0; i < opts.ContentsPerUser; i++ {
			c, err := f.CreateContent(u)
			if err != nil {
				return fmt.Errorf("seed content: %w", err)
			}
			contents = append(contents, c)
		}
	}

	// Interactions: each user touches a random slice of the content pool.
	for _, u := range users {
		for _, c := range contents {
			if f.rand.Float64() > 0.3 {
				continue
			}
			kind := models.InteractionKinds[f.rand.Intn(len(models.InteractionKinds))]
			if err := f.CreateInteraction(u, c, kind); err != nil {
				return fmt.Errorf("seed interaction: %w", err)
			}
		}
	}

	// Comments with occasional reply chains.
	for _, c := range contents {
		var parent *models.Comment
		for i := 0; i < opts.CommentsPerContent; i++ {
			author := users[f.rand.Intn(len(users))]
			var replyTo *models.Comment
			if parent != nil && f.rand.Float64() < 0.4 {
				replyTo = parent
			}
			cm, err := f.CreateComment(author, c, replyTo)
			if err != nil {
				return fmt.Errorf("seed comment: %w", err)
			}
			parent = cm
		}
	}

	// Follow mesh.
	edges := 0
	for _, a := range users {
		for _, b := range users {
			if a.ID == b.ID || f.rand.Float64() > opts.FollowDensity {
				continue
			}
			if err := f.CreateFollow(a, b); err != nil {
				return fmt.Errorf("seed follow: %w", err)
			}
			edges++
		}
	}

	log.Printf("seeded %d users, %d contents, %d follow edges", len(users), len(contents), edges)
	return nil
}
