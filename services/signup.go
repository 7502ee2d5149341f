package services

import (
	"context"
	"strings"

	"mark2cure/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// playerExperience is the experience level new players start with.
const playerExperience = 2

type Signup struct {
	db *gorm.DB
}

func NewSignup(db *gorm.DB) *Signup {
	return &Signup{db: db}
}

// Subscribe registers an email address. The address doubles as the
// subscriber's username.
func (s *Signup) Subscribe(ctx context.Context, email string, beta bool) (*models.Subscriber, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, wrap("subscribe", models.ErrInvalidArgument)
	}

	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Subscriber{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return nil, wrap("subscribe", err)
	}
	if n > 0 {
		return nil, wrap("subscribe "+email, models.ErrAlreadySubscribed)
	}

	sub := models.NewSubscriber(email, &email, 0, beta, newAPIKey())
	if err := s.db.WithContext(ctx).Create(sub).Error; err != nil {
		return nil, wrap("subscribe", err)
	}
	return sub, nil
}

// NewPlayer creates an anonymous player identified by a fresh API key. An
// empty username gets a generated one.
func (s *Signup) NewPlayer(ctx context.Context, username string) (*models.Subscriber, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		username = "User_" + uuid.NewString()[:4]
	}
	sub := models.NewSubscriber(username, nil, playerExperience, false, newAPIKey())
	if err := s.db.WithContext(ctx).Create(sub).Error; err != nil {
		return nil, wrap("new player", err)
	}
	return sub, nil
}

func (s *Signup) ByAPIKey(ctx context.Context, key string) (*models.Subscriber, error) {
	if key == "" {
		return nil, wrap("subscriber", models.ErrNotFound)
	}
	var sub models.Subscriber
	if err := s.db.WithContext(ctx).Where("api_key = ?", key).First(&sub).Error; err != nil {
		return nil, wrap("subscriber", err)
	}
	return &sub, nil
}

func newAPIKey() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
