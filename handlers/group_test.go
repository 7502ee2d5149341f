package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"mark2cure/models"
	"mark2cure/services"
	"mark2cure/testutil"

	"github.com/stretchr/testify/require"
)

func TestGroupEndpoints(t *testing.T) {
	s := newServer(t)
	alice := testutil.CreateUser(t, s.db, "alice")
	group := testutil.CreateGroup(t, s.db, "cdg", 1)
	doc := testutil.CreateDocument(t, s.db, 1, "One", "Abstract")
	quest := testutil.CreateQuest(t, s.db, group, "Quest 1", doc)
	v := testutil.CreateView(t, s.db, alice, doc, models.ViewConceptRecognition, true)
	testutil.CreateAnnotation(t, s.db, v, models.AnnotationEntity, "Disease", "Fever")
	testutil.CreateAnnotation(t, s.db, v, models.AnnotationEntity, "Gene", "BRCA1")
	testutil.CompleteQuest(t, s.db, alice, quest)

	rec := s.do(http.MethodGet, "/api/ner/list", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	groups := decode[[]models.Group](t, rec)
	require.Len(t, groups, 1)
	require.Equal(t, "cdg", groups[0].Stub)

	base := fmt.Sprintf("/api/ner/list/%d", group.ID)
	rec = s.do(http.MethodGet, base, nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	detail := decode[services.GroupDetail](t, rec)
	require.EqualValues(t, 1, detail.DocumentCount)

	rec = s.do(http.MethodGet, base+"/contributors", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []services.Contributor{{Username: "alice", Count: 2}}, decode[[]services.Contributor](t, rec))

	rec = s.do(http.MethodGet, base+"/quests", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	anon := decode[[]services.QuestSummary](t, rec)
	require.Len(t, anon, 1)
	require.Nil(t, anon[0].UserCompleted)

	rec = s.do(http.MethodGet, base+"/quests", nil, s.token(alice))
	signedIn := decode[[]services.QuestSummary](t, rec)
	require.NotNil(t, signedIn[0].UserCompleted)
	require.True(t, *signedIn[0].UserCompleted)

	rec = s.do(http.MethodGet, "/api/ner/list/999", nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, fmt.Sprintf("/api/network/group/%d", group.ID), nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	graph := decode[services.NodeLink](t, rec)
	require.True(t, graph.Multigraph)
	require.False(t, graph.Directed)
	require.Len(t, graph.Nodes, 2)
	require.Len(t, graph.Edges, 1)
	require.EqualValues(t, doc.ID, graph.Edges[0]["id"])
}

func TestAnalysisEndpoints(t *testing.T) {
	s := newServer(t)
	alice := testutil.CreateUser(t, s.db, "alice")
	bob := testutil.CreateUser(t, s.db, "bob")
	group := testutil.CreateGroup(t, s.db, "cdg", 1)
	require.NoError(t, s.db.Create(&models.Report{
		GroupID:    group.ID,
		ReportType: models.ReportAverage,
		CreatedAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Rows: []models.ReportRow{
			{UserID: alice.ID, FScore: 0.5, Pairings: 1},
			{UserID: bob.ID, FScore: 1.0, Pairings: 3},
		},
	}).Error)
	token := s.token(alice)

	rec := s.do(http.MethodGet, fmt.Sprintf("/api/analysis/group/%d", group.ID), nil, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	points := decode[[]services.FScorePoint](t, rec)
	require.Len(t, points, 1)
	require.InDelta(t, 0.875, points[0].FScore, 1e-9)

	rec = s.do(http.MethodGet, fmt.Sprintf("/api/analysis/group/%d?weighted=false", group.ID), nil, token)
	require.InDelta(t, 0.75, decode[[]services.FScorePoint](t, rec)[0].FScore, 1e-9)

	rec = s.do(http.MethodGet, fmt.Sprintf("/api/analysis/group/%d/user", group.ID), nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.InDelta(t, 0.5, decode[[]services.FScorePoint](t, rec)[0].FScore, 1e-9)

	rec = s.do(http.MethodGet, fmt.Sprintf("/api/analysis/group/%d/user/%d", group.ID, bob.ID), nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 3, decode[[]services.FScorePoint](t, rec)[0].Pairings)

	rec = s.do(http.MethodGet, "/api/analysis/group/999", nil, token)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
