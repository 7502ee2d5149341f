package services

import (
	"testing"
	"time"

	"mark2cure/cache"
	"mark2cure/config"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func newLeaderboard(t *testing.T, db *gorm.DB, excluded ...uint) *Leaderboard {
	t.Helper()
	c, err := cache.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return NewLeaderboard(db, c, zaptest.NewLogger(t).Sugar(), config.LeaderboardConfig{
		ExcludedUsers: excluded,
		Limit:         25,
		CacheTTL:      time.Minute,
	})
}
