package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"mark2cure/cache"
	"mark2cure/config"
	"mark2cure/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var leaderboardUsersQuery = mustQuery("leaderboard_users.sql")

type UserScore struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Score    int64  `json:"score"`
}

type TeamScore struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Score int64  `json:"score"`
}

type scoreRow struct {
	UserID   uint   `gorm:"column:user_id"`
	Username string `gorm:"column:username"`
	Score    *int64 `gorm:"column:score"`
}

// Leaderboard ranks users and teams by the points earned inside a trailing
// window of days.
type Leaderboard struct {
	db       *gorm.DB
	cache    cache.Cache
	log      *zap.SugaredLogger
	excluded []uint
	limit    int
	ttl      time.Duration
	now      func() time.Time
}

func NewLeaderboard(db *gorm.DB, c cache.Cache, log *zap.SugaredLogger, cfg config.LeaderboardConfig) *Leaderboard {
	return &Leaderboard{
		db:       db,
		cache:    c,
		log:      log.Named("leaderboard"),
		excluded: cfg.ExcludedUsers,
		limit:    cfg.Limit,
		ttl:      cfg.CacheTTL,
		now:      utcNow,
	}
}

// UsersWithScore sums points created in (now-days, now] per user, skipping
// excluded users, highest score first.
func (l *Leaderboard) UsersWithScore(ctx context.Context, days int) ([]UserScore, error) {
	if days < 0 {
		return nil, fmt.Errorf("days %d: %w", days, models.ErrInvalidArgument)
	}
	until := l.now()
	since := until.AddDate(0, 0, -days)

	excluded := l.excluded
	if len(excluded) == 0 {
		// NOT IN over an empty list would render as NOT IN (NULL)
		excluded = []uint{0}
	}

	var rows []scoreRow
	err := l.db.WithContext(ctx).Raw(leaderboardUsersQuery, map[string]any{
		"since":    since,
		"until":    until,
		"excluded": excluded,
	}).Scan(&rows).Error
	if err != nil {
		return nil, wrap("users with score", err)
	}

	out := make([]UserScore, 0, len(rows))
	for _, r := range rows {
		if r.Score == nil {
			continue
		}
		out = append(out, UserScore{UserID: r.UserID, Username: r.Username, Score: *r.Score})
	}
	return out, nil
}

// AnnotatedTeams scores every team as the sum of its members' scores in the
// window, highest first.
func (l *Leaderboard) AnnotatedTeams(ctx context.Context, days int) ([]TeamScore, error) {
	users, err := l.UsersWithScore(ctx, days)
	if err != nil {
		return nil, err
	}
	byUser := make(map[uint]int64, len(users))
	for _, u := range users {
		byUser[u.UserID] = u.Score
	}

	var teams []models.Team
	if err := l.db.WithContext(ctx).Order("id ASC").Find(&teams).Error; err != nil {
		return nil, wrap("load teams", err)
	}

	var members []models.UserProfile
	if err := l.db.WithContext(ctx).Select("user_id", "team_id").Where("team_id IS NOT NULL").Find(&members).Error; err != nil {
		return nil, wrap("load team members", err)
	}
	byTeam := make(map[uint]int64, len(teams))
	for _, m := range members {
		byTeam[*m.TeamID] += byUser[m.UserID]
	}

	out := make([]TeamScore, 0, len(teams))
	for _, t := range teams {
		out = append(out, TeamScore{ID: t.ID, Name: t.Name, Score: byTeam[t.ID]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

// Users returns the top users for the window.
func (l *Leaderboard) Users(ctx context.Context, days int) ([]UserScore, error) {
	key := fmt.Sprintf("leaderboard:users:%d", days)
	var out []UserScore
	if l.cached(ctx, key, &out) {
		return out, nil
	}

	users, err := l.UsersWithScore(ctx, days)
	if err != nil {
		return nil, err
	}
	if len(users) > l.limit {
		users = users[:l.limit]
	}
	l.store(ctx, key, users)
	return users, nil
}

// Teams returns the top teams for the window, dropping teams without points.
func (l *Leaderboard) Teams(ctx context.Context, days int) ([]TeamScore, error) {
	key := fmt.Sprintf("leaderboard:teams:%d", days)
	var out []TeamScore
	if l.cached(ctx, key, &out) {
		return out, nil
	}

	teams, err := l.AnnotatedTeams(ctx, days)
	if err != nil {
		return nil, err
	}
	if len(teams) > l.limit {
		teams = teams[:l.limit]
	}
	out = make([]TeamScore, 0, len(teams))
	for _, t := range teams {
		if t.Score != 0 {
			out = append(out, t)
		}
	}
	l.store(ctx, key, out)
	return out, nil
}

func (l *Leaderboard) cached(ctx context.Context, key string, dst any) bool {
	if l.cache == nil {
		return false
	}
	raw, ok, err := l.cache.Get(ctx, key)
	if err != nil {
		l.log.Warnw("cache get failed", "key", key, "error", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		l.log.Warnw("cache decode failed", "key", key, "error", err)
		return false
	}
	return true
}

func (l *Leaderboard) store(ctx context.Context, key string, v any) {
	if l.cache == nil || l.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		l.log.Warnw("cache encode failed", "key", key, "error", err)
		return
	}
	if err := l.cache.Set(ctx, key, raw, l.ttl); err != nil {
		l.log.Warnw("cache set failed", "key", key, "error", err)
	}
}
