package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mark2cure/cache"
	"mark2cure/config"
	"mark2cure/middleware"
	"mark2cure/models"
	"mark2cure/services"
	"mark2cure/testutil"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

type testServer struct {
	t  *testing.T
	db *gorm.DB
	h  http.Handler
}

func newServer(t *testing.T) *testServer {
	t.Helper()
	db := testutil.NewDB(t)
	c, err := cache.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	cfg := &config.Config{
		JWT:         config.JWTConfig{Secret: testSecret, Expiration: time.Hour},
		Leaderboard: config.LeaderboardConfig{Limit: 25, CacheTTL: time.Minute},
		Profile:     config.ProfileConfig{OnlineTimeout: 5 * time.Minute},
		Relation:    config.RelationConfig{WorkSize: 20, K: 15},
	}
	h := NewRouter(Deps{
		DB:           db,
		Cache:        c,
		Config:       cfg,
		ReleaseDates: map[string]services.ReleaseDate{},
		Registry:     prometheus.NewRegistry(),
		Log:          zaptest.NewLogger(t),
	})
	return &testServer{t: t, db: db, h: h}
}

func (s *testServer) token(u *models.User) string {
	s.t.Helper()
	auth := middleware.NewAuthenticator(services.NewAccounts(s.db), testSecret, time.Hour)
	tok, err := auth.GenerateToken(u)
	require.NoError(s.t, err)
	return tok
}

func (s *testServer) serve(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.h.ServeHTTP(rec, req)
	return rec
}

// do sends body encoded as JSON; a nil body sends none.
func (s *testServer) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	s.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return s.serve(req, token)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}
