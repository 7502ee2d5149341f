package models

import (
	"time"
)

const (
	ViewConceptRecognition     = "cr"
	ViewRelationIdentification = "ri"
)

const (
	AnnotationEntity   = "e"
	AnnotationRelation = "r"
)

// View records a user's engagement with a section for one task type.
type View struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `json:"created"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	SectionID  uint      `gorm:"not null;index" json:"section_id"`
	Section    *Section  `gorm:"foreignKey:SectionID" json:"-"`
	TaskType   string    `gorm:"not null;size:3;index" json:"task_type"`
	Completed  bool      `gorm:"not null;default:false" json:"completed"`
	OpponentID *uint     `json:"opponent_id"`
}

type Annotation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created"`
	ViewID    uint      `gorm:"not null;index" json:"view_id"`
	View      *View     `gorm:"foreignKey:ViewID" json:"-"`
	Kind      string    `gorm:"not null;size:1;index" json:"kind"`
	Type      string    `gorm:"size:40" json:"type"`
	Text      string    `gorm:"type:text" json:"text"`
	Start     int       `json:"start"`
}

// Relation is a candidate concept pair within a document.
type Relation struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	DocumentID uint   `gorm:"not null;index" json:"document_id"`
	Concept1   string `gorm:"size:255" json:"concept_1"`
	Concept2   string `gorm:"size:255" json:"concept_2"`
	Kind       string `gorm:"size:10" json:"kind"`
}

// RelationAnswer is a user's relation annotation for a candidate pair.
type RelationAnswer struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `json:"created"`
	ViewID     uint      `gorm:"not null;index" json:"view_id"`
	RelationID uint      `gorm:"not null;index" json:"relation_id"`
	Answer     string    `gorm:"size:40" json:"answer"`
}

// Comment is a talk page message about a document.
type Comment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `json:"created"`
	DocumentID uint      `gorm:"not null;index" json:"document_id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	User       *User     `gorm:"foreignKey:UserID" json:"-"`
	Message    string    `gorm:"type:text;not null" json:"message"`
}
