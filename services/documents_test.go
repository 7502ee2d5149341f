package services

import (
	"context"
	"testing"

	"mark2cure/models"
	"mark2cure/testutil"

	"github.com/stretchr/testify/require"
)

func TestDocumentsAsJSON(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	docs := NewDocuments(db)

	first := testutil.CreateDocument(t, db, 1001, "Title here", "Abstract text")
	second := testutil.CreateDocument(t, db, 1002, "Other", "Other abstract")

	pub := &models.Pubtator{
		DocumentID: first.ID,
		Kind:       models.PubtatorDisease,
		Content:    `[{"type":"Disease","text":"Abstract","start":11,"length":8},{"type":"Disease","text":"Title","start":0,"length":5}]`,
	}
	require.NoError(t, db.Create(pub).Error)

	out, err := docs.AsJSON(ctx, []uint{second.ID, first.ID}, map[uint][]uint{first.ID: {pub.ID}})
	require.NoError(t, err)
	require.Len(t, out, 2)

	doc := out[0]
	require.Equal(t, first.ID, doc.PK)
	require.Equal(t, 1001, doc.DocumentID)
	require.Len(t, doc.Passages, 2)

	title, abstract := doc.Passages[0], doc.Passages[1]
	require.Equal(t, models.SectionTitle, title.Section.Kind)
	require.Equal(t, 0, title.Offset)
	require.Equal(t, 11, abstract.Offset)
	require.Len(t, title.Annotations, 1)
	require.Equal(t, "Title", title.Annotations[0].Text)
	require.Len(t, abstract.Annotations, 1)
	require.Equal(t, "Abstract", abstract.Annotations[0].Text)

	for _, p := range out[1].Passages {
		require.Empty(t, p.Annotations)
	}
}

func TestDocumentsAsJSONCountsCharacters(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	docs := NewDocuments(db)

	doc := testutil.CreateDocument(t, db, 1003, "β-catenin", "Abstract text")
	pub := &models.Pubtator{
		DocumentID: doc.ID,
		Kind:       models.PubtatorGene,
		Content:    `[{"type":"Gene","text":"β-catenin","start":0,"length":9},{"type":"Gene","text":"Abstract","start":10,"length":8}]`,
	}
	require.NoError(t, db.Create(pub).Error)

	out, err := docs.AsJSON(ctx, []uint{doc.ID}, map[uint][]uint{doc.ID: {pub.ID}})
	require.NoError(t, err)
	require.Len(t, out, 1)

	title, abstract := out[0].Passages[0], out[0].Passages[1]
	require.Equal(t, 10, abstract.Offset)
	require.Len(t, title.Annotations, 1)
	require.Equal(t, "β-catenin", title.Annotations[0].Text)
	require.Len(t, abstract.Annotations, 1)
	require.Equal(t, "Abstract", abstract.Annotations[0].Text)
}

func TestDocumentsGet(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	docs := NewDocuments(db)

	doc := testutil.CreateDocument(t, db, 42, "T", "A")
	got, err := docs.Get(ctx, doc.ID)
	require.NoError(t, err)
	require.Equal(t, "T", got.Title)

	_, err = docs.Get(ctx, doc.ID+100)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestDocumentsByPMIDAndCompletion(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	docs := NewDocuments(db)

	user := testutil.CreateUser(t, db, "reader")
	doc := testutil.CreateDocument(t, db, 555, "T", "A")

	found, err := docs.ByPMID(ctx, 555)
	require.NoError(t, err)
	require.Equal(t, doc.ID, found.ID)

	_, err = docs.ByPMID(ctx, 556)
	require.ErrorIs(t, err, models.ErrNotFound)

	done, err := docs.CompletedBy(ctx, doc.ID, user.ID)
	require.NoError(t, err)
	require.False(t, done)

	testutil.CreateView(t, db, user, doc, models.ViewConceptRecognition, false)
	done, err = docs.CompletedBy(ctx, doc.ID, user.ID)
	require.NoError(t, err)
	require.False(t, done)

	testutil.CreateView(t, db, user, doc, models.ViewConceptRecognition, true)
	done, err = docs.CompletedBy(ctx, doc.ID, user.ID)
	require.NoError(t, err)
	require.True(t, done)
}
