package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"mark2cure/models"
	"mark2cure/services"
	"mark2cure/testutil"

	"github.com/stretchr/testify/require"
)

func TestTeamEndpoints(t *testing.T) {
	s := newServer(t)
	owner := testutil.CreateUser(t, s.db, "alice")
	member := testutil.CreateUser(t, s.db, "bob")

	rec := s.do(http.MethodPost, "/api/teams", map[string]string{"name": "Lab", "description": "wet lab"}, s.token(owner))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	team := decode[models.Team](t, rec)
	require.Equal(t, "Lab", team.Name)

	rec = s.do(http.MethodPost, "/api/teams", map[string]string{"name": "Lab"}, s.token(member))
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/api/teams", map[string]string{}, s.token(member))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, fmt.Sprintf("/api/teams/%d/join", team.ID), nil, s.token(member))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, fmt.Sprintf("/api/teams/%d", team.ID), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[services.TeamDetail](t, rec)
	require.EqualValues(t, 2, detail.MembersCount)

	rec = s.do(http.MethodPost, "/api/teams/leave", nil, s.token(member))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, fmt.Sprintf("/api/teams/%d", team.ID), nil, "")
	require.EqualValues(t, 1, decode[services.TeamDetail](t, rec).MembersCount)

	rec = s.do(http.MethodGet, "/api/teams/999", nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(http.MethodGet, "/api/teams/abc", nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(http.MethodPost, "/api/teams/999/join", nil, s.token(member))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
