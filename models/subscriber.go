package models

import (
	"time"
)

// Subscriber is a player registered through the signup service. APIKey
// identifies the player in place of a session.
type Subscriber struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `json:"created"`
	Username   string    `gorm:"size:255;not null" json:"username"`
	Email      *string   `gorm:"uniqueIndex;size:254" json:"email"`
	Experience int       `gorm:"not null;default:0" json:"experience"`
	Beta       bool      `gorm:"not null;default:false" json:"beta"`
	APIKey     string    `gorm:"uniqueIndex;not null;size:64" json:"api_key"`
	FirstRun   bool      `gorm:"not null" json:"first_run"`
	Advance    bool      `gorm:"not null;default:false" json:"advance"`
	SelMode    string    `gorm:"size:20" json:"sel_mode"`
	Feedback0  int       `gorm:"not null" json:"feedback_0"`
	Feedback1  int       `gorm:"not null" json:"feedback_1"`
	Feedback2  int       `gorm:"not null" json:"feedback_2"`
	Feedback3  int       `gorm:"not null" json:"feedback_3"`
}

// NewSubscriber returns a subscriber with unanswered feedback and the first
// run flag set.
func NewSubscriber(username string, email *string, experience int, beta bool, apiKey string) *Subscriber {
	return &Subscriber{
		Username:   username,
		Email:      email,
		Experience: experience,
		Beta:       beta,
		APIKey:     apiKey,
		FirstRun:   true,
		SelMode:    "disease",
		Feedback0:  -1,
		Feedback1:  -1,
		Feedback2:  -1,
		Feedback3:  -1,
	}
}
