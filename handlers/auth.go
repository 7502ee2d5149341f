package handlers

import (
	"net/http"

	"mark2cure/httpx"
	"mark2cure/middleware"
	"mark2cure/models"
	"mark2cure/services"

	"go.uber.org/zap"
)

type AuthHandler struct {
	accounts *services.Accounts
	auth     *middleware.Authenticator
	log      *zap.SugaredLogger
}

func NewAuthHandler(accounts *services.Accounts, auth *middleware.Authenticator, log *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{accounts: accounts, auth: auth, log: log}
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=5"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expires_in"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}

	user, err := h.accounts.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	h.startSession(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}

	user, err := h.accounts.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	h.startSession(w, http.StatusOK, user)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearTokenCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, status int, user *models.User) {
	token, err := h.auth.GenerateToken(user)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	h.auth.SetTokenCookie(w, token)
	httpx.JSON(w, status, sessionResponse{
		User:      user,
		Token:     token,
		ExpiresIn: int64(h.auth.Expiration().Seconds()),
	})
}

func userFrom(r *http.Request) *models.User {
	return middleware.GetUserFromContext(r.Context())
}
