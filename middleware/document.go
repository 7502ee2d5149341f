package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"mark2cure/httpx"
	"mark2cure/models"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const DocumentContextKey contextKey = "document"

// CompletionChecker resolves documents by PMID and reports whether a user
// finished one.
type CompletionChecker interface {
	ByPMID(ctx context.Context, pmid int) (*models.Document, error)
	CompletedBy(ctx context.Context, docPK, userID uint) (bool, error)
}

// DocCompletionRequired guards {pubmed_id} routes: only comment moderators
// and users who completed the document may continue. It must run after
// RequireAuth.
func DocCompletionRequired(docs CompletionChecker, log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUserFromContext(r.Context())
			if user == nil {
				httpx.JSONError(w, http.StatusUnauthorized, "authentication required", nil)
				return
			}

			pmid, err := strconv.Atoi(chi.URLParam(r, "pubmed_id"))
			if err != nil {
				httpx.JSONError(w, http.StatusNotFound, "document not found", nil)
				return
			}
			doc, err := docs.ByPMID(r.Context(), pmid)
			if errors.Is(err, models.ErrNotFound) {
				httpx.JSONError(w, http.StatusNotFound, "document not found", nil)
				return
			}
			if err != nil {
				log.Errorw("document lookup failed", "pubmed_id", pmid, "error", err)
				httpx.JSONError(w, http.StatusInternalServerError, "internal error", nil)
				return
			}

			if !user.IsModerator() {
				done, err := docs.CompletedBy(r.Context(), doc.ID, user.ID)
				if err != nil {
					log.Errorw("completion check failed", "pubmed_id", pmid, "user_id", user.ID, "error", err)
					httpx.JSONError(w, http.StatusInternalServerError, "internal error", nil)
					return
				}
				if !done {
					httpx.JSONError(w, http.StatusForbidden, "Access denied!", nil)
					return
				}
			}

			ctx := context.WithValue(r.Context(), DocumentContextKey, doc)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetDocumentFromContext(ctx context.Context) *models.Document {
	doc, ok := ctx.Value(DocumentContextKey).(*models.Document)
	if !ok {
		return nil
	}
	return doc
}
