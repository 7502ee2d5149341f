package services

import (
	"context"
	"testing"

	"mark2cure/models"
	"mark2cure/testutil"

	"github.com/stretchr/testify/require"
)

func TestComments(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	comments := NewComments(db)

	alice := testutil.CreateUser(t, db, "alice")
	doc := testutil.CreateDocument(t, db, 1, "T", "A")
	other := testutil.CreateDocument(t, db, 2, "T", "A")

	first, err := comments.Create(ctx, doc.ID, alice.ID, " first ")
	require.NoError(t, err)
	require.Equal(t, "first", first.Message)
	require.Equal(t, "alice", first.Username)

	_, err = comments.Create(ctx, doc.ID, alice.ID, "second")
	require.NoError(t, err)
	_, err = comments.Create(ctx, other.ID, alice.ID, "elsewhere")
	require.NoError(t, err)

	_, err = comments.Create(ctx, doc.ID, alice.ID, "   ")
	require.ErrorIs(t, err, models.ErrInvalidArgument)

	list, err := comments.List(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "first", list[0].Message)
	require.Equal(t, "second", list[1].Message)

	require.ErrorIs(t, comments.Delete(ctx, doc.ID, first.ID, alice), models.ErrForbidden)

	moderator := &models.User{IsStaff: true}
	require.NoError(t, comments.Delete(ctx, doc.ID, first.ID, moderator))
	require.ErrorIs(t, comments.Delete(ctx, doc.ID, first.ID, moderator), models.ErrNotFound)

	list, err = comments.List(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
}
