package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"wedledger/internal/config"
	"wedledger/internal/transport/httpserver/handler"
	authmw "wedledger/internal/transport/httpserver/middleware"
	"wedledger/pkg/logger"
)

// NewRouter mounts every route under /api. sessions may be nil when
// AUTH_SKIP is set and no secret is configured.
func NewRouter(cfg config.Config, handlers *handler.Handlers, sessions authmw.SessionParser, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(authmw.NewRequestLogger(log))
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.CORSOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		r.Post("/otp/send", handlers.SendCode)
		r.Post("/otp/verify", handlers.VerifyCode)
		r.Get("/invites/accept", handlers.GetInvite)

		auth := authmw.NewSessionAuth(sessions, cfg.Auth.SkipAuth, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/profile", handlers.GetProfile)
			r.Patch("/profile", handlers.UpdateProfile)

			r.Post("/invites/generate", handlers.GenerateInvite)
			r.Post("/invites/accept", handlers.AcceptInvite)

			r.Get("/connections/my-connections", handlers.ListMyConnections)
			r.Get("/connections/shared", handlers.ListSharedConnections)
			r.Post("/connections/view", handlers.ConnectionViewed)
			r.Patch("/connections/{id}", handlers.UpdatePermission)
			r.Delete("/connections/{id}", handlers.RevokeConnection)

			r.Get("/notifications", handlers.ListNotifications)
			r.Post("/notifications", handlers.CreateNotification)
			r.Post("/notifications/read-all", handlers.MarkAllNotificationsRead)
			r.Patch("/notifications/{id}", handlers.UpdateNotification)
			r.Delete("/notifications/{id}", handlers.DeleteNotification)

			r.Route("/ledgers/{ownerId}", func(r chi.Router) {
				r.Get("/gifts", handlers.ListGifts)
				r.Post("/gifts", handlers.CreateGift)
				r.Put("/gifts/{id}", handlers.UpdateGift)
				r.Delete("/gifts/{id}", handlers.DeleteGift)

				r.Get("/members", handlers.ListMembers)
				r.Post("/members", handlers.CreateMember)
				r.Put("/members/{id}", handlers.UpdateMember)
				r.Delete("/members/{id}", handlers.DeleteMember)

				r.Get("/analytics", handlers.LedgerAnalytics)
				r.Get("/export.xlsx", handlers.ExportLedger)
			})
		})
	})

	return r
}
