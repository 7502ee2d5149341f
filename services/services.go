// Package services holds the queries and aggregations behind the API:
// document rendering, quest progress, leaderboards, team and profile
// statistics, training progress and group analytics.
package services

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"mark2cure/models"

	"gorm.io/gorm"
)

//go:embed sql/*.sql
var queries embed.FS

func mustQuery(name string) string {
	b, err := queries.ReadFile("sql/" + name)
	if err != nil {
		panic(fmt.Sprintf("missing query %s: %v", name, err))
	}
	return string(b)
}

// wrap annotates err with op and folds gorm's not-found into models.ErrNotFound.
func wrap(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func utcNow() time.Time { return time.Now().UTC() }

// score sums every point the user earned for task; an empty task sums all.
func score(ctx context.Context, db *gorm.DB, userID uint, task string) (int64, error) {
	var total int64
	q := db.WithContext(ctx).Model(&models.Point{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ?", userID)
	if task != "" {
		q = q.Where("task = ?", task)
	}
	if err := q.Scan(&total).Error; err != nil {
		return 0, wrap("sum points", err)
	}
	return total, nil
}
