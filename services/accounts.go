package services

import (
	"context"
	"errors"
	"strings"

	"mark2cure/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Accounts struct {
	db *gorm.DB
}

func NewAccounts(db *gorm.DB) *Accounts {
	return &Accounts{db: db}
}

// Register creates a user with a hashed password and a default profile.
func (a *Accounts) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, wrap("register", models.ErrInvalidArgument)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, wrap("hash password", err)
	}

	user := &models.User{Username: username, Email: email, PasswordHash: string(hash)}
	err = a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.User{}).Where("username = ?", username).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return models.ErrUsernameTaken
		}
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.Create(models.NewUserProfile(user.ID)).Error
	})
	if err != nil {
		return nil, wrap("register", err)
	}
	return user, nil
}

// Authenticate checks the password and returns the user with its groups.
func (a *Accounts) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	err := a.db.WithContext(ctx).Preload("Groups").Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, wrap("load user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}
	return &user, nil
}

// ByID loads a user with its groups.
func (a *Accounts) ByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := a.db.WithContext(ctx).Preload("Groups").First(&user, id).Error; err != nil {
		return nil, wrap("load user", err)
	}
	return &user, nil
}
