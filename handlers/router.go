package handlers

import (
	"net/http"

	"mark2cure/cache"
	"mark2cure/config"
	"mark2cure/httpx"
	"mark2cure/middleware"
	"mark2cure/models"
	"mark2cure/services"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the shared resources the router wires its services from.
type Deps struct {
	DB           *gorm.DB
	Cache        cache.Cache
	Config       *config.Config
	ReleaseDates map[string]services.ReleaseDate
	Registry     *prometheus.Registry
	Log          *zap.Logger
}

func NewRouter(d Deps) http.Handler {
	log := d.Log.Sugar()
	cfg := d.Config

	accounts := services.NewAccounts(d.DB)
	docs := services.NewDocuments(d.DB)
	quests := services.NewQuests(d.DB, docs)
	leaderboard := services.NewLeaderboard(d.DB, d.Cache, log.Named("leaderboard"), cfg.Leaderboard)
	profiles := services.NewProfiles(d.DB, cfg.Profile.OnlineTimeout)

	auth := middleware.NewAuthenticator(accounts, cfg.JWT.Secret, cfg.JWT.Expiration)
	metrics := middleware.NewMetrics(d.Registry)

	authHandler := NewAuthHandler(accounts, auth, log)
	taskHandler := NewTaskHandler(services.NewStats(d.DB), docs, quests,
		services.NewRelations(d.DB, cfg.Relation), services.NewTraining(d.DB), log)
	groupHandler := NewGroupHandler(services.NewGroups(d.DB, d.ReleaseDates), quests,
		services.NewAnalysis(d.DB), services.NewNetwork(d.DB), log)
	leaderboardHandler := NewLeaderboardHandler(leaderboard, log)
	profileHandler := NewProfileHandler(profiles, log)
	teamHandler := NewTeamHandler(services.NewTeams(d.DB, leaderboard), log)
	talkHandler := NewTalkHandler(services.NewComments(d.DB), log)
	signupHandler := NewSignupHandler(services.NewSignup(d.DB), log)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(log.Named("http")))
	r.Use(chimiddleware.Recoverer)
	r.Use(metrics.Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		sqlDB, err := d.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(r.Context())
		}
		if err != nil {
			log.Warnw("health check failed", "error", err)
			httpx.JSONError(w, http.StatusServiceUnavailable, "database unavailable", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)

		// Public
		r.Get("/stats", taskHandler.Stats)
		r.Get("/ner/document/{document_pk}", taskHandler.NERDocument)
		r.Get("/ner/list", groupHandler.List)
		r.Get("/ner/list/{group_pk}", groupHandler.Detail)
		r.Get("/ner/list/{group_pk}/contributors", groupHandler.Contributors)
		r.Get("/network/group/{group_pk}", groupHandler.Network)
		r.Get("/leaderboard/users/{days}", leaderboardHandler.Users)
		r.Get("/leaderboard/teams/{days}", leaderboardHandler.Teams)
		r.Get("/training/{task_type}", taskHandler.TrainingDetails)
		r.Get("/profile/{username}", profileHandler.Public)
		r.Get("/teams/{team_pk}", teamHandler.Get)

		r.Post("/v1/email", signupHandler.Email)
		r.Post("/v1/user", signupHandler.CreatePlayer)
		r.Get("/v1/user", signupHandler.GetPlayer)

		r.Group(func(r chi.Router) {
			r.Use(auth.OptionalAuth)
			r.Get("/ner/list/{group_pk}/quests", groupHandler.Quests)
			r.Get("/training", taskHandler.Training)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)
			r.Use(middleware.TouchLastSeen(profiles, log))

			r.Get("/task/stats", taskHandler.UserTaskStats)
			r.Get("/ner/stats", taskHandler.NERStats)
			r.Get("/re/stats", taskHandler.REStats)
			r.Get("/ner/quest/{quest_pk}", taskHandler.NERQuest)
			r.Get("/re/list", taskHandler.REList)

			r.Get("/analysis/group/{group_pk}", groupHandler.Analysis)
			r.Get("/analysis/group/{group_pk}/user", groupHandler.AnalysisUser)
			r.Get("/analysis/group/{group_pk}/user/{user_pk}", groupHandler.AnalysisUser)

			r.Get("/profile", profileHandler.Me)
			r.Put("/profile", profileHandler.Update)

			r.Post("/teams", teamHandler.Create)
			r.Post("/teams/leave", teamHandler.Leave)
			r.Post("/teams/{team_pk}/join", teamHandler.Join)

			r.Route("/talk/{pubmed_id}/comments", func(r chi.Router) {
				r.Use(middleware.DocCompletionRequired(docs, log))
				r.Get("/", talkHandler.List)
				r.Post("/", talkHandler.Create)
				r.With(middleware.RequireGroup(models.GroupCommentModerators)).
					Delete("/{comment_pk}", talkHandler.Delete)
			})
		})
	})

	return r
}
