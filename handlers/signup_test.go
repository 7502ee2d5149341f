package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"mark2cure/models"

	"github.com/stretchr/testify/require"
)

func (s *testServer) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.serve(req, "")
}

func TestEmailSignup(t *testing.T) {
	s := newServer(t)

	rec := s.postForm("/api/v1/email", url.Values{"email": {"not-an-email"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.postForm("/api/v1/email", url.Values{"email": {"a@example.org"}, "email_bool": {"true"}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sub := decode[models.Subscriber](t, rec)
	require.Equal(t, "a@example.org", sub.Username)
	require.True(t, sub.Beta)
	require.Len(t, sub.APIKey, 32)

	rec = s.postForm("/api/v1/email", url.Values{"email": {"a@example.org"}})
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestPlayerSignup(t *testing.T) {
	s := newServer(t)

	rec := s.do(http.MethodPost, "/api/v1/user", nil, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	anon := decode[models.Subscriber](t, rec)
	require.True(t, strings.HasPrefix(anon.Username, "User_"))
	require.Contains(t, rec.Header().Get("Set-Cookie"), APIKeyCookie+"="+anon.APIKey)

	rec = s.do(http.MethodPost, "/api/v1/user", map[string]string{"username": "gamer"}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	named := decode[models.Subscriber](t, rec)
	require.Equal(t, "gamer", named.Username)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/user", nil)
	req.Header.Set(APIKeyHeader, named.APIKey)
	rec = s.serve(req, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "gamer", decode[models.Subscriber](t, rec).Username)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/user", nil)
	req.AddCookie(&http.Cookie{Name: APIKeyCookie, Value: anon.APIKey})
	rec = s.serve(req, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, anon.Username, decode[models.Subscriber](t, rec).Username)

	rec = s.do(http.MethodGet, "/api/v1/user", nil, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/user", nil)
	req.Header.Set(APIKeyHeader, "unknown")
	rec = s.serve(req, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
