// Package handlers exposes the services as JSON endpoints.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"mark2cure/httpx"
	"mark2cure/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// writeError maps service errors to status codes. Unknown errors are logged
// and reported as 500 without detail.
func writeError(w http.ResponseWriter, log *zap.SugaredLogger, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		httpx.JSONError(w, http.StatusBadRequest, "validation failed", fields)
	case errors.Is(err, models.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not found", nil)
	case errors.Is(err, models.ErrInvalidArgument):
		httpx.JSONError(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, models.ErrForbidden):
		httpx.JSONError(w, http.StatusForbidden, "Access denied!", nil)
	case errors.Is(err, models.ErrInvalidCredentials):
		httpx.JSONError(w, http.StatusUnauthorized, "invalid credentials", nil)
	case errors.Is(err, models.ErrTeamExists),
		errors.Is(err, models.ErrAlreadySubscribed),
		errors.Is(err, models.ErrUsernameTaken):
		httpx.JSONError(w, http.StatusConflict, err.Error(), nil)
	default:
		log.Errorw("request failed", "error", err)
		httpx.JSONError(w, http.StatusInternalServerError, "internal error", nil)
	}
}

// decodeJSON reads a JSON body into dst and validates it.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode body: %w", models.ErrInvalidArgument)
	}
	return validate.Struct(dst)
}

// uintParam parses a positive id from the route. Malformed ids are treated
// as missing records.
func uintParam(r *http.Request, name string) (uint, error) {
	n, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("%s %q: %w", name, chi.URLParam(r, name), models.ErrNotFound)
	}
	return uint(n), nil
}

func userID(r *http.Request) *uint {
	if u := userFrom(r); u != nil {
		return &u.ID
	}
	return nil
}
