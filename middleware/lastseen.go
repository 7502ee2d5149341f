package middleware

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

type Toucher interface {
	Touch(ctx context.Context, userID uint) error
}

// TouchLastSeen records activity of authenticated users. Failures are logged
// and do not fail the request.
func TouchLastSeen(profiles Toucher, log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user := GetUserFromContext(r.Context()); user != nil {
				if err := profiles.Touch(r.Context(), user.ID); err != nil {
					log.Warnw("touch last seen", "user_id", user.ID, "error", err)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
