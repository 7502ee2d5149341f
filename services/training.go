package services

import (
	"context"
	_ "embed"
	"encoding/json"
	"time"

	"mark2cure/models"

	"gorm.io/gorm"
)

//go:embed data/training_re.json
var relationTraining []byte

type LevelProgress struct {
	Level       int       `json:"level"`
	LastCreated time.Time `json:"last_created"`
	Completions int       `json:"completions"`
}

// TrainingProgress groups a user's training levels by task type. Progress is
// omitted for anonymous users.
type TrainingProgress struct {
	Task     string          `json:"task"`
	Progress []LevelProgress `json:"progress,omitempty"`
}

type Training struct {
	db *gorm.DB
}

func NewTraining(db *gorm.DB) *Training {
	return &Training{db: db}
}

// Progress lists, per task type, each level the user reached with the time of
// the latest completion and how often it was completed. A nil userID yields
// the relation task alone.
func (t *Training) Progress(ctx context.Context, userID *uint) ([]TrainingProgress, error) {
	if userID == nil {
		return []TrainingProgress{{Task: models.LevelRelation}}, nil
	}

	var levels []models.Level
	err := t.db.WithContext(ctx).
		Where("user_id = ?", *userID).
		Order("task_type ASC, level ASC, created_at ASC").
		Find(&levels).Error
	if err != nil {
		return nil, wrap("load levels", err)
	}

	out := []TrainingProgress{}
	for _, l := range levels {
		if len(out) == 0 || out[len(out)-1].Task != l.TaskType {
			out = append(out, TrainingProgress{Task: l.TaskType})
		}
		tp := &out[len(out)-1]
		n := len(tp.Progress)
		if n == 0 || tp.Progress[n-1].Level != l.Level {
			tp.Progress = append(tp.Progress, LevelProgress{Level: l.Level})
			n++
		}
		lp := &tp.Progress[n-1]
		lp.Completions++
		if l.CreatedAt.After(lp.LastCreated) {
			lp.LastCreated = l.CreatedAt
		}
	}
	return out, nil
}

// Details returns the static training material for "re" or "ner".
func (t *Training) Details(taskType string) (json.RawMessage, error) {
	switch taskType {
	case "re":
		return json.RawMessage(relationTraining), nil
	case "ner":
		return json.RawMessage("[]"), nil
	default:
		return nil, wrap("training "+taskType, models.ErrNotFound)
	}
}
