package services

import (
	"context"
	"testing"
	"time"

	"mark2cure/models"
	"mark2cure/testutil"

	"github.com/stretchr/testify/require"
)

func TestAnalysis(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	analysis := NewAnalysis(db)
	group := testutil.CreateGroup(t, db, "cdg", 1)

	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.AddDate(0, 1, 0)
	reports := []models.Report{
		{GroupID: group.ID, ReportType: models.ReportAverage, CreatedAt: older, Rows: []models.ReportRow{
			{UserID: 1, FScore: 0.4, Pairings: 1},
		}},
		{GroupID: group.ID, ReportType: models.ReportAverage, CreatedAt: newer, Rows: []models.ReportRow{
			{UserID: 1, FScore: 0.5, Pairings: 1},
			{UserID: 2, FScore: 1.0, Pairings: 3},
		}},
		{GroupID: group.ID, ReportType: models.ReportPairwise, CreatedAt: newer, Rows: []models.ReportRow{
			{UserID: 1, FScore: 0.0, Pairings: 9},
		}},
	}
	require.NoError(t, db.Create(&reports).Error)

	weighted, err := analysis.Group(ctx, group.ID, true)
	require.NoError(t, err)
	require.Len(t, weighted, 2)
	require.True(t, newer.Equal(weighted[0].Created))
	require.InDelta(t, 0.875, weighted[0].FScore, 1e-9)
	require.Equal(t, 4, weighted[0].Pairings)
	require.InDelta(t, 0.4, weighted[1].FScore, 1e-9)

	mean, err := analysis.Group(ctx, group.ID, false)
	require.NoError(t, err)
	require.InDelta(t, 0.75, mean[0].FScore, 1e-9)

	user2, err := analysis.GroupUser(ctx, group.ID, 2)
	require.NoError(t, err)
	require.Len(t, user2, 1)
	require.InDelta(t, 1.0, user2[0].FScore, 1e-9)
	require.Equal(t, 3, user2[0].Pairings)

	user1, err := analysis.GroupUser(ctx, group.ID, 1)
	require.NoError(t, err)
	require.Len(t, user1, 2)

	nobody, err := analysis.GroupUser(ctx, group.ID, 9)
	require.NoError(t, err)
	require.Empty(t, nobody)

	_, err = analysis.Group(ctx, 999, true)
	require.ErrorIs(t, err, models.ErrNotFound)
}
