package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"mark2cure/httpx"
	"mark2cure/models"
	"mark2cure/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type LeaderboardHandler struct {
	leaderboard *services.Leaderboard
	log         *zap.SugaredLogger
}

func NewLeaderboardHandler(lb *services.Leaderboard, log *zap.SugaredLogger) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: lb, log: log}
}

func days(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "days")
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("days %q: %w", raw, models.ErrInvalidArgument)
	}
	return n, nil
}

func (h *LeaderboardHandler) Users(w http.ResponseWriter, r *http.Request) {
	n, err := days(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	out, err := h.leaderboard.Users(r.Context(), n)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *LeaderboardHandler) Teams(w http.ResponseWriter, r *http.Request) {
	n, err := days(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	out, err := h.leaderboard.Teams(r.Context(), n)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}
