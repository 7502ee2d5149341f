package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"mark2cure/models"
	"mark2cure/testutil"

	"github.com/stretchr/testify/require"
)

func TestTrainingProgressAnonymous(t *testing.T) {
	training := NewTraining(testutil.NewDB(t))

	out, err := training.Progress(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, []TrainingProgress{{Task: "r"}}, out)

	raw, err := json.Marshal(out)
	require.NoError(t, err)
	require.JSONEq(t, `[{"task":"r"}]`, string(raw))
}

func TestTrainingProgress(t *testing.T) {
	db := testutil.NewDB(t)
	training := NewTraining(db)
	user := testutil.CreateUser(t, db, "alice")

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	levels := []models.Level{
		{UserID: user.ID, TaskType: models.LevelRelation, Level: 1, CreatedAt: base},
		{UserID: user.ID, TaskType: models.LevelRelation, Level: 1, CreatedAt: base.Add(time.Hour)},
		{UserID: user.ID, TaskType: models.LevelRelation, Level: 2, CreatedAt: base.Add(2 * time.Hour)},
		{UserID: user.ID, TaskType: models.LevelEntity, Level: 1, CreatedAt: base},
	}
	require.NoError(t, db.Create(&levels).Error)

	out, err := training.Progress(context.Background(), &user.ID)
	require.NoError(t, err)
	require.Len(t, out, 2)

	require.Equal(t, models.LevelEntity, out[0].Task)
	require.Len(t, out[0].Progress, 1)

	require.Equal(t, models.LevelRelation, out[1].Task)
	require.Len(t, out[1].Progress, 2)
	require.Equal(t, 1, out[1].Progress[0].Level)
	require.Equal(t, 2, out[1].Progress[0].Completions)
	require.True(t, base.Add(time.Hour).Equal(out[1].Progress[0].LastCreated))
	require.Equal(t, 1, out[1].Progress[1].Completions)

	other := testutil.CreateUser(t, db, "bob")
	none, err := training.Progress(context.Background(), &other.ID)
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestTrainingDetails(t *testing.T) {
	training := NewTraining(testutil.NewDB(t))

	raw, err := training.Details("re")
	require.NoError(t, err)
	var levels []struct {
		Level int    `json:"level"`
		Name  string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(raw, &levels))
	require.Len(t, levels, 4)
	require.Equal(t, "Introduction", levels[0].Name)
	require.Equal(t, 4, levels[3].Level)

	raw, err = training.Details("ner")
	require.NoError(t, err)
	require.JSONEq(t, `[]`, string(raw))

	_, err = training.Details("xx")
	require.ErrorIs(t, err, models.ErrNotFound)
}
