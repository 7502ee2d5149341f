package models

import (
	"time"
)

type Team struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time     `json:"created"`
	UpdatedAt   time.Time     `json:"-"`
	OwnerID     uint          `gorm:"not null;index" json:"owner_id"`
	Owner       *User         `gorm:"foreignKey:OwnerID" json:"-"`
	Name        string        `gorm:"uniqueIndex;not null;size:255" json:"name"`
	Description string        `gorm:"type:text" json:"description"`
	Members     []UserProfile `gorm:"foreignKey:TeamID" json:"-"`
}
