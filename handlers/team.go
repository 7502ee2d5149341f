package handlers

import (
	"net/http"

	"mark2cure/httpx"
	"mark2cure/services"

	"go.uber.org/zap"
)

type TeamHandler struct {
	teams *services.Teams
	log   *zap.SugaredLogger
}

func NewTeamHandler(teams *services.Teams, log *zap.SugaredLogger) *TeamHandler {
	return &TeamHandler{teams: teams, log: log}
}

type teamRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
}

func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req teamRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}
	team, err := h.teams.Create(r.Context(), userFrom(r).ID, req.Name, req.Description)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, team)
}

func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	pk, err := uintParam(r, "team_pk")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	out, err := h.teams.Get(r.Context(), pk)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *TeamHandler) Join(w http.ResponseWriter, r *http.Request) {
	pk, err := uintParam(r, "team_pk")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if err := h.teams.Join(r.Context(), userFrom(r).ID, pk); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TeamHandler) Leave(w http.ResponseWriter, r *http.Request) {
	if err := h.teams.Leave(r.Context(), userFrom(r).ID); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
