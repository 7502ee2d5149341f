package handlers

import (
	"net/http"
	"testing"

	"mark2cure/httpx"
	"mark2cure/models"
	"mark2cure/services"
	"mark2cure/testutil"

	"github.com/stretchr/testify/require"
)

func TestProfileUpdate(t *testing.T) {
	s := newServer(t)
	user := testutil.CreateUser(t, s.db, "alice")
	token := s.token(user)

	rec := s.do(http.MethodPut, "/api/profile", map[string]any{"gender": "x", "age": 200}, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[httpx.ErrorResponse](t, rec)
	require.Equal(t, map[string]any{"gender": "oneof", "age": "max"}, body.Details)

	rec = s.do(http.MethodPut, "/api/profile", map[string]any{"timezone": "Mars/Olympus"}, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPut, "/api/profile", map[string]any{
		"country": "us", "education": 3, "quote": "hello", "timezone": "Europe/Berlin",
	}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	profile := decode[models.UserProfile](t, rec)
	require.Equal(t, "US", profile.Country)
	require.Equal(t, "hello", profile.Quote)
	require.Equal(t, "Europe/Berlin", profile.Timezone)

	rec = s.do(http.MethodGet, "/api/profile", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode[services.ProfileSummary](t, rec)
	require.Equal(t, "alice", summary.Username)
	require.Equal(t, "Finished high school", summary.Education)
	require.True(t, summary.Online)
}

func TestPublicProfile(t *testing.T) {
	s := newServer(t)
	testutil.CreateUser(t, s.db, "bob")

	rec := s.do(http.MethodGet, "/api/profile/bob", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode[services.ProfileSummary](t, rec)
	require.Equal(t, "bob", summary.Username)
	require.False(t, summary.Online)

	rec = s.do(http.MethodGet, "/api/profile/nobody", nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
