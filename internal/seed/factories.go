// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"ripple/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser persists a user with a realistic profile and hashed password.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", f.rand.Intn(10000)),
		Email:    gofakeit.Email(),
		Password: string(hash),
		Bio:      gofakeit.Quote(),
		Avatar:   fmt.Sprintf("https://i.pravatar.cc/300?u=%s", gofakeit.UUID()),
	}
	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateContent persists a content item with a realistic created_at spread.
func (f *Factory) CreateContent(user *models.User, overrides ...func(*models.Content)) (*models.Content, error) {
	types := []string{models.ContentTypePost, models.ContentTypeReel, models.ContentTypeStory}

	content := &models.Content{
		ContentType: types[f.rand.Intn(len(types))],
		Caption:     gofakeit.Sentence(8),
		MediaURL:    fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID()),
		UserID:      user.ID,
	}

	daysBack := f.rand.Intn(90)
	hoursBack := f.rand.Intn(24)
	content.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, override := range overrides {
		override(content)
	}

	if err := f.db.Create(content).Error; err != nil {
		return nil, err
	}
	return content, nil
}

// CreateComment persists a comment, optionally as a reply.
func (f *Factory) CreateComment(user *models.User, content *models.Content, parent *models.Comment) (*models.Comment, error) {
	comment := &models.Comment{
		Body:      gofakeit.Sentence(12),
		UserID:    user.ID,
		ContentID: content.ID,
	}
	if parent != nil {
		comment.ParentID = &parent.ID
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateInteraction adds the user to a content item's kind-set. Duplicate
// memberships are ignored, mirroring production toggle semantics.
func (f *Factory) CreateInteraction(user *models.User, content *models.Content, kind models.InteractionKind) error {
	record := models.Interaction{
		ContentID: content.ID,
		Kind:      kind,
		UserID:    user.ID,
		CreatedAt: time.Now().Add(-time.Duration(f.rand.Intn(72)) * time.Hour),
	}
	return f.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error
}

// CreateFollow adds a follow edge. Duplicates and self-edges are skipped.
func (f *Factory) CreateFollow(follower, followee *models.User) error {
	if follower.ID == followee.ID {
		return nil
	}
	edge := models.Follow{
		FollowerID: follower.ID,
		FolloweeID: followee.ID,
	}
	return f.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge).Error
}
