package services

import (
	"context"
	"testing"
	"time"

	"mark2cure/models"
	"mark2cure/testutil"

	"github.com/stretchr/testify/require"
)

func TestStats(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	stats := NewStats(db)

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	doc := testutil.CreateDocument(t, db, 1, "T", "A")
	group := testutil.CreateGroup(t, db, "cdg", 1)
	testutil.CompleteQuest(t, db, alice, testutil.CreateQuest(t, db, group, "Quest", doc))

	ner := testutil.CreateView(t, db, alice, doc, models.ViewConceptRecognition, true)
	testutil.CreateAnnotation(t, db, ner, models.AnnotationEntity, "Disease", "a")
	testutil.CreateAnnotation(t, db, ner, models.AnnotationEntity, "Gene", "b")
	other := testutil.CreateView(t, db, bob, doc, models.ViewConceptRecognition, false)
	testutil.CreateAnnotation(t, db, other, models.AnnotationEntity, "Gene", "c")

	rel := &models.Relation{DocumentID: doc.ID, Concept1: "a", Concept2: "b", Kind: "g_d"}
	require.NoError(t, db.Create(rel).Error)
	re := testutil.CreateView(t, db, alice, doc, models.ViewRelationIdentification, true)
	require.NoError(t, db.Create(&models.RelationAnswer{ViewID: re.ID, RelationID: rel.ID, Answer: "positive"}).Error)

	testutil.CreatePoint(t, db, alice, 20, models.PointTaskEntityRecognition, time.Now())
	testutil.CreatePoint(t, db, alice, 3, models.PointTaskRelation, time.Now())

	require.NoError(t, db.Create(&models.Level{UserID: alice.ID, TaskType: models.LevelEntity, Level: 3}).Error)
	require.NoError(t, db.Create(&models.Level{UserID: alice.ID, TaskType: models.LevelEntity, Level: 7}).Error)

	global, err := stats.Global(ctx)
	require.NoError(t, err)
	require.Equal(t, &GlobalStats{NERAnnotations: 3, REAnnotations: 1}, global)

	levels, err := stats.Levels(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, &UserLevels{NER: 7, RE: 0}, levels)

	nerStats, err := stats.NER(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, &NERStats{TotalScore: 20, QuestsCompleted: 1, PapersReviewed: 1, Annotations: 2}, nerStats)

	reStats, err := stats.RE(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, &REStats{TotalScore: 3, QuestsCompleted: 1, Annotations: 1}, reStats)

	empty, err := stats.NER(ctx, bob.ID)
	require.NoError(t, err)
	require.Equal(t, &NERStats{Annotations: 1}, empty)
}
