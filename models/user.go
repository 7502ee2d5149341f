package models

import (
	"time"
)

// GroupCommentModerators may read every document discussion.
const GroupCommentModerators = "Comment Moderators"

type User struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	Username     string       `gorm:"uniqueIndex;not null;size:150" json:"username"`
	Email        string       `gorm:"size:254" json:"email"`
	PasswordHash string       `gorm:"not null" json:"-"`
	IsStaff      bool         `gorm:"not null;default:false" json:"is_staff"`
	Groups       []AuthGroup  `gorm:"many2many:user_groups" json:"groups,omitempty"`
	Profile      *UserProfile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
}

// AuthGroup is a named permission group users can belong to.
type AuthGroup struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null;size:150" json:"name"`
}

// InGroup reports whether the user belongs to the named group. Groups must be
// preloaded.
func (u *User) InGroup(name string) bool {
	for _, g := range u.Groups {
		if g.Name == name {
			return true
		}
	}
	return false
}

func (u *User) IsModerator() bool {
	return u.IsStaff || u.InGroup(GroupCommentModerators)
}
