package handlers

import (
	"net/http"

	"mark2cure/httpx"
	"mark2cure/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// GroupHandler serves group listings, analytics and the concept network.
type GroupHandler struct {
	groups   *services.Groups
	quests   *services.Quests
	analysis *services.Analysis
	network  *services.Network
	log      *zap.SugaredLogger
}

func NewGroupHandler(groups *services.Groups, quests *services.Quests, analysis *services.Analysis,
	network *services.Network, log *zap.SugaredLogger) *GroupHandler {
	return &GroupHandler{groups: groups, quests: quests, analysis: analysis, network: network, log: log}
}

func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.groups.List(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *GroupHandler) Detail(w http.ResponseWriter, r *http.Request) {
	pk, err := uintParam(r, "group_pk")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	out, err := h.groups.Detail(r.Context(), pk)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *GroupHandler) Contributors(w http.ResponseWriter, r *http.Request) {
	pk, err := uintParam(r, "group_pk")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	out, err := h.groups.Contributors(r.Context(), pk)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

// Quests lists the group's quests; signed in users also see which ones they
// completed.
func (h *GroupHandler) Quests(w http.ResponseWriter, r *http.Request) {
	pk, err := uintParam(r, "group_pk")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	out, err := h.quests.ForGroup(r.Context(), pk, userID(r))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *GroupHandler) Analysis(w http.ResponseWriter, r *http.Request) {
	pk, err := uintParam(r, "group_pk")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	weighted := r.URL.Query().Get("weighted") != "false"
	out, err := h.analysis.Group(r.Context(), pk, weighted)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

// AnalysisUser returns the f-score history of {user_pk}, or of the caller
// when the route has no user.
func (h *GroupHandler) AnalysisUser(w http.ResponseWriter, r *http.Request) {
	pk, err := uintParam(r, "group_pk")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	uid := userFrom(r).ID
	if chi.URLParam(r, "user_pk") != "" {
		if uid, err = uintParam(r, "user_pk"); err != nil {
			writeError(w, h.log, err)
			return
		}
	}
	out, err := h.analysis.GroupUser(r.Context(), pk, uid)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *GroupHandler) Network(w http.ResponseWriter, r *http.Request) {
	pk, err := uintParam(r, "group_pk")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	g, err := h.network.Group(r.Context(), pk)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	out, err := services.NodeLinkData(g, services.DefaultLinkAttrs)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}
