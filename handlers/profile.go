package handlers

import (
	"net/http"

	"mark2cure/httpx"
	"mark2cure/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ProfileHandler struct {
	profiles *services.Profiles
	log      *zap.SugaredLogger
}

func NewProfileHandler(profiles *services.Profiles, log *zap.SugaredLogger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, log: log}
}

type profileRequest struct {
	Timezone         *string `json:"timezone" validate:"omitempty,max=64"`
	EmailNotify      *bool   `json:"email_notify"`
	Gender           *string `json:"gender" validate:"omitempty,oneof=m f"`
	Age              *int    `json:"age" validate:"omitempty,min=0,max=150"`
	Occupation       *string `json:"occupation" validate:"omitempty,max=255"`
	Education        *int    `json:"education" validate:"omitempty,min=0,max=11"`
	ScienceEducation *int    `json:"science_education" validate:"omitempty,min=0,max=11"`
	Country          *string `json:"country" validate:"omitempty,len=2,alpha"`
	Referral         *string `json:"referral"`
	Motivation       *string `json:"motivation"`
	Quote            *string `json:"quote"`
}

func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	h.summary(w, r, userFrom(r).Username)
}

func (h *ProfileHandler) Public(w http.ResponseWriter, r *http.Request) {
	h.summary(w, r, chi.URLParam(r, "username"))
}

func (h *ProfileHandler) summary(w http.ResponseWriter, r *http.Request, username string) {
	out, err := h.profiles.Summary(r.Context(), username)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}

	out, err := h.profiles.Update(r.Context(), userFrom(r).ID, services.ProfileUpdate{
		Timezone:         req.Timezone,
		EmailNotify:      req.EmailNotify,
		Gender:           req.Gender,
		Age:              req.Age,
		Occupation:       req.Occupation,
		Education:        req.Education,
		ScienceEducation: req.ScienceEducation,
		Country:          req.Country,
		Referral:         req.Referral,
		Motivation:       req.Motivation,
		Quote:            req.Quote,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}
