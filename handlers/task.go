package handlers

import (
	"net/http"

	"mark2cure/httpx"
	"mark2cure/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TaskHandler serves annotation work: documents, quests, relation work
// lists, training and per-task statistics.
type TaskHandler struct {
	stats     *services.Stats
	docs      *services.Documents
	quests    *services.Quests
	relations *services.Relations
	training  *services.Training
	log       *zap.SugaredLogger
}

func NewTaskHandler(stats *services.Stats, docs *services.Documents, quests *services.Quests,
	relations *services.Relations, training *services.Training, log *zap.SugaredLogger) *TaskHandler {
	return &TaskHandler{
		stats:     stats,
		docs:      docs,
		quests:    quests,
		relations: relations,
		training:  training,
		log:       log,
	}
}

func (h *TaskHandler) Stats(w http.ResponseWriter, r *http.Request) {
	out, err := h.stats.Global(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *TaskHandler) UserTaskStats(w http.ResponseWriter, r *http.Request) {
	out, err := h.stats.Levels(r.Context(), userFrom(r).ID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *TaskHandler) NERStats(w http.ResponseWriter, r *http.Request) {
	out, err := h.stats.NER(r.Context(), userFrom(r).ID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *TaskHandler) REStats(w http.ResponseWriter, r *http.Request) {
	out, err := h.stats.RE(r.Context(), userFrom(r).ID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *TaskHandler) NERDocument(w http.ResponseWriter, r *http.Request) {
	pk, err := uintParam(r, "document_pk")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	doc, err := h.docs.Get(r.Context(), pk)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

func (h *TaskHandler) NERQuest(w http.ResponseWriter, r *http.Request) {
	pk, err := uintParam(r, "quest_pk")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	out, err := h.quests.Progress(r.Context(), pk, userFrom(r).ID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *TaskHandler) REList(w http.ResponseWriter, r *http.Request) {
	out, err := h.relations.List(r.Context(), userFrom(r).ID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *TaskHandler) Training(w http.ResponseWriter, r *http.Request) {
	out, err := h.training.Progress(r.Context(), userID(r))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *TaskHandler) TrainingDetails(w http.ResponseWriter, r *http.Request) {
	out, err := h.training.Details(chi.URLParam(r, "task_type"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}
