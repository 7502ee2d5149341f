package models

import (
	"time"
)

const (
	PointTaskEntityRecognition = "entity_recognition"
	PointTaskRelation          = "relation"
)

// Point is a score award. Leaderboards sum them over a date window.
type Point struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Amount    int       `gorm:"not null" json:"amount"`
	Task      string    `gorm:"size:40;index" json:"task"`
}
