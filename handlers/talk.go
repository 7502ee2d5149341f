package handlers

import (
	"net/http"

	"mark2cure/httpx"
	"mark2cure/middleware"
	"mark2cure/services"

	"go.uber.org/zap"
)

// TalkHandler serves document discussions. Routes run behind
// DocCompletionRequired, which puts the document in the context.
type TalkHandler struct {
	comments *services.Comments
	log      *zap.SugaredLogger
}

func NewTalkHandler(comments *services.Comments, log *zap.SugaredLogger) *TalkHandler {
	return &TalkHandler{comments: comments, log: log}
}

type commentRequest struct {
	Message string `json:"message" validate:"required,max=5000"`
}

func (h *TalkHandler) List(w http.ResponseWriter, r *http.Request) {
	doc := middleware.GetDocumentFromContext(r.Context())
	out, err := h.comments.List(r.Context(), doc.ID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *TalkHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}
	doc := middleware.GetDocumentFromContext(r.Context())
	out, err := h.comments.Create(r.Context(), doc.ID, userFrom(r).ID, req.Message)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, out)
}

func (h *TalkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	pk, err := uintParam(r, "comment_pk")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	doc := middleware.GetDocumentFromContext(r.Context())
	if err := h.comments.Delete(r.Context(), doc.ID, pk, userFrom(r)); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
