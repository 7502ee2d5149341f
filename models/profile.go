package models

import (
	"time"
)

const (
	DefaultTimezone = "America/Los_Angeles"
	DefaultAvatar   = "images/default.jpg"
)

type Gender string

const (
	GenderMale   Gender = "m"
	GenderFemale Gender = "f"
)

// EducationChoices are indexed by the stored education level.
var EducationChoices = []string{
	"Some elementary",
	"Finished elementary",
	"Some high school",
	"Finished high school",
	"Some community college",
	"Finished community college",
	"Some 4-year college",
	"Finished 4-year college",
	"Some masters program",
	"Finished masters program",
	"Some PhD program",
	"Finished PhD program",
}

type UserProfile struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	UserID           uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	User             *User      `gorm:"foreignKey:UserID" json:"-"`
	TeamID           *uint      `gorm:"index" json:"team_id"`
	Team             *Team      `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	LastSeen         *time.Time `json:"last_seen"`
	Timezone         string     `gorm:"size:64" json:"timezone"`
	Avatar           string     `gorm:"size:255" json:"avatar"`
	RatingVotes      int        `gorm:"not null;default:0" json:"rating_votes"`
	RatingScore      int        `gorm:"not null;default:0" json:"rating_score"`
	EmailNotify      bool       `gorm:"not null;default:false" json:"email_notify"`
	Gender           *Gender    `gorm:"size:1" json:"gender"`
	Age              *int       `json:"age"`
	Occupation       string     `gorm:"size:255" json:"occupation"`
	Education        *int       `json:"education"`
	ScienceEducation *int       `json:"science_education"`
	Country          string     `gorm:"size:2" json:"country"`
	Referral         string     `gorm:"type:text" json:"referral"`
	Motivation       string     `gorm:"type:text" json:"motivation"`
	Quote            string     `gorm:"type:text" json:"quote"`
}

// NewUserProfile returns the profile a user gets on first access.
func NewUserProfile(userID uint) *UserProfile {
	return &UserProfile{
		UserID:   userID,
		Timezone: DefaultTimezone,
		Avatar:   DefaultAvatar,
	}
}

// Online reports whether the user was seen within timeout of now.
func (p *UserProfile) Online(now time.Time, timeout time.Duration) bool {
	if p.LastSeen == nil {
		return false
	}
	return !now.After(p.LastSeen.Add(timeout))
}

// Location returns the profile's time zone, or UTC when it cannot be loaded.
func (p *UserProfile) Location() *time.Location {
	if p.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func EducationLabel(level *int) string {
	if level == nil || *level < 0 || *level >= len(EducationChoices) {
		return ""
	}
	return EducationChoices[*level]
}

// BadgeAward is a badge level granted to a user.
type BadgeAward struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Slug      string    `gorm:"not null;size:255;index" json:"slug"`
	Name      string    `gorm:"size:255" json:"name"`
	Level     int       `gorm:"not null" json:"level"`
	AwardedAt time.Time `json:"awarded_at"`
}
