package models

import (
	"time"
)

const (
	TaskKindQuest    = "q"
	TaskKindTraining = "t"
)

const (
	LevelEntity   = "e"
	LevelRelation = "r"
)

const TrainingStub = "training"

// Group is a curated collection of quests around one topic.
type Group struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null;size:200" json:"name"`
	Stub        string `gorm:"uniqueIndex;not null;size:20" json:"stub"`
	Description string `gorm:"type:text" json:"description"`
	Enabled     bool   `gorm:"not null;default:false" json:"enabled"`
	Order       int    `gorm:"column:sort_order;not null;default:0" json:"order"`
	Tasks       []Task `gorm:"foreignKey:GroupID" json:"-"`
}

func (Group) TableName() string { return "task_groups" }

// Task is a quest or training bundle of documents.
type Task struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"size:200" json:"name"`
	Kind        string     `gorm:"not null;size:1;index" json:"kind"`
	GroupID     *uint      `gorm:"index" json:"group_id"`
	Points      int        `gorm:"not null;default:0" json:"points"`
	Completions int        `gorm:"not null;default:0" json:"completions"`
	Documents   []Document `gorm:"many2many:task_documents" json:"-"`
}

type UserQuestRelationship struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created"`
	TaskID    uint      `gorm:"not null;index" json:"task_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Completed bool      `gorm:"not null;default:false" json:"completed"`
}

// Level is a training level reached by a user for a task type.
type Level struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	TaskType  string    `gorm:"not null;size:1" json:"task_type"`
	Level     int       `gorm:"not null" json:"level"`
}
