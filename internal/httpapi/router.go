package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"venue/internal/analytics"
	"venue/internal/api"
	"venue/internal/audit"
	"venue/internal/auth"
	"venue/internal/chatbot"
	"venue/internal/confirmation"
	"venue/internal/employee"
	"venue/internal/events"
	"venue/internal/feedback"
	"venue/internal/menu"
	"venue/internal/reservation"
	"venue/internal/session"
	"venue/pkg/cache"
	"venue/pkg/config"
	"venue/pkg/store"
)

type Dependencies struct {
	Cfg   config.Config
	DB    *pgxpool.Pool
	Redis *redis.Client
	Log   logrus.FieldLogger
}

func NewRouter(deps Dependencies) http.Handler {
	log := deps.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	r := chi.NewRouter()
	r.Use(api.RequestIDMiddleware)
	r.Use(middleware.RealIP)
	r.Use(api.RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(api.CORSMiddleware(api.CORSOptions{
		AllowedOrigins: deps.Cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-ID"},
		MaxAgeSeconds:  600,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Public calls use the service token; admin calls swap in the session's.
	baseStore := store.Client{
		HTTPClient: &http.Client{Timeout: deps.Cfg.Store.Timeout},
		BaseURL:    deps.Cfg.Store.BaseURL,
		Token:      deps.Cfg.Store.ServiceToken,
	}
	storeFor := func(r *http.Request) store.Client { return api.StoreFor(r, baseStore) }

	sessionsRepo := session.NewRepository(deps.DB)
	auditRepo := audit.NewRepository(deps.DB)
	eventsRepo := events.NewRepository(deps.DB)
	pendingRepo := confirmation.NewRepository(deps.DB)

	authHandlers := auth.Handlers{
		Store:    baseStore,
		Sessions: sessionsRepo,
		Audit:    auditRepo,
		Secret:   deps.Cfg.Session.Secret,
		TTL:      deps.Cfg.Session.TTL,
	}
	reservationHandlers := reservation.Handlers{
		Store:    func(r *http.Request) reservation.Store { return storeFor(r) },
		Pending:  pendingRepo,
		Timeline: eventsRepo,
		History:  eventsRepo,
		Audit:    auditRepo,
		PageSize: deps.Cfg.ListPageSize,
	}
	menuHandlers := menu.Handlers{
		Store: func(r *http.Request) menu.Store { return storeFor(r) },
		Cache: cache.NewJSON(deps.Redis, "venue:menu"),
		TTL:   deps.Cfg.MenuCacheTTL,
		Audit: auditRepo,
	}
	feedbackHandlers := feedback.Handlers{
		Store:         func(r *http.Request) feedback.Store { return storeFor(r) },
		SubmitTimeout: deps.Cfg.Store.FeedbackTimeout,
		Audit:         auditRepo,
	}
	employeeHandlers := employee.Handlers{
		Store: func(r *http.Request) employee.Store { return storeFor(r) },
		Audit: auditRepo,
	}
	analyticsHandler := analytics.Handler{
		Store: func(r *http.Request) analytics.Store { return storeFor(r) },
	}
	chatHandler := chatbot.Handler{
		Bot:        chatbot.NewDefault(),
		Transcript: chatbot.NewHistory(deps.Redis, "venue"),
	}
	auditHandler := auditLog{Repo: auditRepo}

	limited := api.RateLimit(deps.Cfg.RateLimit, deps.Redis, log)

	// v1
	r.Route("/v1", func(r chi.Router) {
		r.Route("/public", func(r chi.Router) {
			r.Get("/menu", menuHandlers.Public)
			r.Get("/rooms/types", reservationHandlers.RoomTypes)

			r.Group(func(r chi.Router) {
				r.Use(limited)
				r.Post("/reservations", reservationHandlers.PublicCreate)
				r.Post("/feedback", feedbackHandlers.Submit)
				r.Post("/chat", chatHandler.Chat)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.With(limited).Post("/login", authHandlers.Login)

			r.Group(func(r chi.Router) {
				r.Use(api.SessionAuth(deps.Cfg.Session.Secret, sessionsRepo))

				r.Post("/logout", authHandlers.Logout)
				r.Get("/me", authHandlers.Me)

				r.Get("/reservations", reservationHandlers.List)
				r.Post("/reservations", reservationHandlers.Create)
				r.Get("/reservations/{id}", reservationHandlers.Get)
				r.Put("/reservations/{id}", reservationHandlers.Update)
				r.Delete("/reservations/{id}", reservationHandlers.Delete)
				r.Post("/reservations/{id}/status", reservationHandlers.ChangeStatus)
				r.Delete("/reservations/{id}/confirmation", reservationHandlers.AbandonConfirmation)
				r.Get("/reservations/{id}/rooms", reservationHandlers.EligibleRooms)
				r.Get("/rooms", reservationHandlers.Rooms)

				r.Get("/employees", employeeHandlers.List)
				r.Post("/employees", employeeHandlers.Create)
				r.Get("/employees/{id}", employeeHandlers.Get)
				r.Put("/employees/{id}", employeeHandlers.Update)
				r.Delete("/employees/{id}", employeeHandlers.Delete)

				r.Get("/feedback", feedbackHandlers.List)
				r.Delete("/feedback/{id}", feedbackHandlers.Delete)
				r.Post("/feedback/{id}/response", feedbackHandlers.Respond)

				r.Get("/menu", menuHandlers.List)
				r.Post("/menu", menuHandlers.Create)
				r.Put("/menu/{id}", menuHandlers.Update)
				r.Delete("/menu/{id}", menuHandlers.Delete)

				r.Get("/analytics", analyticsHandler.Dashboard)
				r.Get("/audit", auditHandler.List)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "not found")
	})

	return r
}
