package handlers

import (
	"net/http"

	"mark2cure/httpx"
	"mark2cure/services"

	"go.uber.org/zap"
)

// APIKeyCookie and APIKeyHeader carry a player's API key.
const (
	APIKeyCookie = "api_key"
	APIKeyHeader = "X-API-Key"
)

type SignupHandler struct {
	signup *services.Signup
	log    *zap.SugaredLogger
}

func NewSignupHandler(signup *services.Signup, log *zap.SugaredLogger) *SignupHandler {
	return &SignupHandler{signup: signup, log: log}
}

type playerRequest struct {
	Username string `json:"username" validate:"omitempty,max=255"`
}

// Email subscribes the form field email; email_bool "true" opts into the
// beta.
func (h *SignupHandler) Email(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid form data", nil)
		return
	}
	email := r.PostFormValue("email")
	if err := validate.Var(email, "required,email"); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "validation failed", map[string]string{"email": "email"})
		return
	}

	sub, err := h.signup.Subscribe(r.Context(), email, r.PostFormValue("email_bool") == "true")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, sub)
}

// CreatePlayer registers an anonymous player and hands back its API key.
func (h *SignupHandler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, h.log, err)
			return
		}
	}

	sub, err := h.signup.NewPlayer(r.Context(), req.Username)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     APIKeyCookie,
		Value:    sub.APIKey,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	httpx.JSON(w, http.StatusCreated, sub)
}

func (h *SignupHandler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	key := r.Header.Get(APIKeyHeader)
	if c, err := r.Cookie(APIKeyCookie); err == nil && c.Value != "" {
		key = c.Value
	}
	if key == "" {
		httpx.JSONError(w, http.StatusUnauthorized, "api key required", nil)
		return
	}

	sub, err := h.signup.ByAPIKey(r.Context(), key)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, sub)
}
