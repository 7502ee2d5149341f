package database

import (
	"errors"
	"fmt"

	"mark2cure/config"
	"mark2cure/logger"
	"mark2cure/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Init connects to PostgreSQL, migrates the schema and seeds the rows the
// service expects to exist.
func Init(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := Open(postgres.Open(cfg.Database.URL), log, cfg.Database.LogLevel)
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	if err := Seed(db, log); err != nil {
		return nil, err
	}

	return db, nil
}

func Open(dialector gorm.Dialector, log *zap.Logger, level string) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.NewGorm(log, level),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Seed creates the default admin, the moderator group and the training group
// when they are missing. It is safe to run on every start.
func Seed(db *gorm.DB, log *zap.Logger) error {
	var moderators models.AuthGroup
	if err := db.Where(models.AuthGroup{Name: models.GroupCommentModerators}).
		FirstOrCreate(&moderators).Error; err != nil {
		return fmt.Errorf("seed moderators group: %w", err)
	}

	var training models.Group
	if err := db.Where(models.Group{Stub: models.TrainingStub}).
		Attrs(models.Group{Name: "Training", Enabled: true}).
		FirstOrCreate(&training).Error; err != nil {
		return fmt.Errorf("seed training group: %w", err)
	}

	return seedDefaultAdmin(db, log)
}

func seedDefaultAdmin(db *gorm.DB, log *zap.Logger) error {
	var admin models.User
	err := db.Where("username = ?", "admin").First(&admin).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("lookup admin: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin = models.User{
		Username:     "admin",
		PasswordHash: string(hashedPassword),
		IsStaff:      true,
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&admin).Error; err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		if err := tx.Create(models.NewUserProfile(admin.ID)).Error; err != nil {
			return fmt.Errorf("create admin profile: %w", err)
		}
		log.Info("default admin user created", zap.String("username", "admin"))
		return nil
	})
}
