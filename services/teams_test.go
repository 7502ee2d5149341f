package services

import (
	"context"
	"testing"
	"time"

	"mark2cure/models"
	"mark2cure/testutil"

	"github.com/stretchr/testify/require"
)

func TestTeamsCreateJoinLeave(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	teams := NewTeams(db, newLeaderboard(t, db))

	owner := testutil.CreateUser(t, db, "owner")
	member := testutil.CreateUser(t, db, "member")

	team, err := teams.Create(ctx, owner.ID, " Curators ", "we curate")
	require.NoError(t, err)
	require.Equal(t, "Curators", team.Name)

	var profile models.UserProfile
	require.NoError(t, db.Where("user_id = ?", owner.ID).First(&profile).Error)
	require.NotNil(t, profile.TeamID)
	require.Equal(t, team.ID, *profile.TeamID)

	_, err = teams.Create(ctx, member.ID, "Curators", "")
	require.ErrorIs(t, err, models.ErrTeamExists)

	_, err = teams.Create(ctx, member.ID, "  ", "")
	require.ErrorIs(t, err, models.ErrInvalidArgument)

	require.NoError(t, teams.Join(ctx, member.ID, team.ID))
	detail, err := teams.Get(ctx, team.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, detail.MembersCount)
	require.Equal(t, "owner", detail.Owner)

	require.NoError(t, teams.Leave(ctx, member.ID))
	detail, err = teams.Get(ctx, team.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, detail.MembersCount)

	require.ErrorIs(t, teams.Join(ctx, member.ID, 999), models.ErrNotFound)
}

func TestTeamsJoinCreatesProfile(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	teams := NewTeams(db, newLeaderboard(t, db))

	owner := testutil.CreateUser(t, db, "owner")
	bare := &models.User{Username: "bare", PasswordHash: "x"}
	require.NoError(t, db.Create(bare).Error)

	team := testutil.CreateTeam(t, db, owner, "team", owner)
	require.NoError(t, teams.Join(ctx, bare.ID, team.ID))

	var profile models.UserProfile
	require.NoError(t, db.Where("user_id = ?", bare.ID).First(&profile).Error)
	require.Equal(t, models.DefaultTimezone, profile.Timezone)
	require.Equal(t, team.ID, *profile.TeamID)
}

func TestTeamsDetail(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	teams := NewTeams(db, newLeaderboard(t, db))

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	outsider := testutil.CreateUser(t, db, "outsider")
	team := testutil.CreateTeam(t, db, alice, "team", alice, bob)

	empty := testutil.CreateTeam(t, db, outsider, "empty")
	last, err := teams.LastActiveUser(ctx, empty.ID)
	require.NoError(t, err)
	require.Nil(t, last)

	last, err = teams.LastActiveUser(ctx, team.ID)
	require.NoError(t, err)
	require.NotNil(t, last)
	require.Equal(t, "alice", last.Username)

	earlier := time.Now().UTC().Add(-time.Hour)
	later := time.Now().UTC().Add(-time.Minute)
	require.NoError(t, db.Model(&models.UserProfile{}).Where("user_id = ?", bob.ID).Update("last_seen", earlier).Error)
	last, err = teams.LastActiveUser(ctx, team.ID)
	require.NoError(t, err)
	require.Equal(t, "bob", last.Username)

	require.NoError(t, db.Model(&models.UserProfile{}).Where("user_id = ?", alice.ID).Update("last_seen", earlier).Error)
	require.NoError(t, db.Model(&models.UserProfile{}).Where("user_id = ?", bob.ID).Update("last_seen", later).Error)

	group := testutil.CreateGroup(t, db, "cdg", 1)
	d1 := testutil.CreateDocument(t, db, 1, "One", "A")
	d2 := testutil.CreateDocument(t, db, 2, "Two", "B")
	quest := testutil.CreateQuest(t, db, group, "Quest", d1)
	testutil.CompleteQuest(t, db, alice, quest)
	testutil.CompleteQuest(t, db, outsider, quest)

	v := testutil.CreateView(t, db, alice, d1, models.ViewConceptRecognition, true)
	testutil.CreateAnnotation(t, db, v, models.AnnotationEntity, "Disease", "a")
	testutil.CreateAnnotation(t, db, v, models.AnnotationEntity, "Disease", "b")
	v = testutil.CreateView(t, db, bob, d2, models.ViewConceptRecognition, true)
	testutil.CreateAnnotation(t, db, v, models.AnnotationEntity, "Gene", "c")
	v = testutil.CreateView(t, db, outsider, d2, models.ViewConceptRecognition, true)
	testutil.CreateAnnotation(t, db, v, models.AnnotationEntity, "Gene", "d")

	recent := time.Now().Add(-time.Hour)
	testutil.CreatePoint(t, db, alice, 10, models.PointTaskEntityRecognition, recent)
	testutil.CreatePoint(t, db, bob, 5, models.PointTaskRelation, recent.AddDate(-5, 0, 0))
	testutil.CreatePoint(t, db, outsider, 99, models.PointTaskEntityRecognition, recent)

	detail, err := teams.Get(ctx, team.ID)
	require.NoError(t, err)
	require.Equal(t, "team", detail.Name)
	require.EqualValues(t, 2, detail.MembersCount)
	require.NotNil(t, detail.LastActiveUser)
	require.Equal(t, "bob", *detail.LastActiveUser)
	require.EqualValues(t, 3, detail.TotalAnnotations)
	require.EqualValues(t, 2, detail.TotalDocuments)
	require.EqualValues(t, 1, detail.FinishedQuests)
	require.EqualValues(t, 15, detail.TotalScore)

	_, err = teams.Get(ctx, 999)
	require.ErrorIs(t, err, models.ErrNotFound)
}
