package main

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/crucial707/hci-inventory/internal/auth"
	"github.com/crucial707/hci-inventory/internal/config"
	"github.com/crucial707/hci-inventory/internal/handlers"
	"github.com/crucial707/hci-inventory/internal/ingest"
	"github.com/crucial707/hci-inventory/internal/middleware"
	"github.com/crucial707/hci-inventory/internal/models"
	"github.com/crucial707/hci-inventory/internal/notify"
	"github.com/crucial707/hci-inventory/internal/repo"
	"github.com/crucial707/hci-inventory/internal/workflow"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// loginAttemptsPerMinute is the per-IP budget for POST /auth/login.
const loginAttemptsPerMinute = 10

// newRouter wires every route onto db. It is split from main so tests can build
// the full API against sqlmock.
func newRouter(db *sql.DB, cfg config.Config, notifier notify.Notifier) http.Handler {
	ttl := time.Duration(cfg.JWTExpireHours) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	tokens := auth.NewTokens([]byte(cfg.JWTSecret), ttl)
	authService := auth.NewService(db, tokens)
	flow := workflow.NewService(db, notifier)

	authHandler := &handlers.AuthHandler{Auth: authService}
	userHandler := &handlers.UserHandler{Auth: authService, Repo: repo.NewUserRepo(db)}
	itemHandler := &handlers.ItemHandler{Repo: repo.NewItemRepo(db)}
	requestHandler := &handlers.RequestHandler{Workflow: flow}
	uploadHandler := &handlers.UploadHandler{Engine: ingest.NewEngine(db)}
	auditHandler := &handlers.AuditHandler{Repo: repo.NewAuditRepo(db)}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			handlers.JSONError(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ready"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// ==========================
	// PUBLIC
	// ==========================
	r.With(
		middleware.LoginRateLimiter(loginAttemptsPerMinute).Middleware,
		middleware.MaxBytes(middleware.DefaultMaxBodyBytes),
	).Post("/auth/login", authHandler.Login)

	// ==========================
	// AUTHENTICATED
	// ==========================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(tokens))

		// Spreadsheet uploads carry their own body limit, so they sit outside the JSON group.
		r.With(
			middleware.RequireCapability(models.CapIngest),
			middleware.MaxBytes(cfg.UploadMaxBytes),
		).Post("/inventory/upload", uploadHandler.Upload)

		r.Group(func(r chi.Router) {
			r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))

			r.Get("/items", itemHandler.ListItems)
			r.Get("/items/{id}", itemHandler.GetItem)

			r.With(middleware.RequireCapability(models.CapRequest)).Post("/requests", requestHandler.Submit)
			r.Get("/requests/mine", requestHandler.ListMine)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireCapability(models.CapDecide))
				r.Get("/requests/pending", requestHandler.ListPending)
				r.Post("/requests/{id}/approve", requestHandler.Approve)
				r.Post("/requests/{id}/reject", requestHandler.Reject)
				r.Get("/approvals", requestHandler.History)
			})

			r.With(middleware.RequireCapability(models.CapViewAudit)).Get("/audit", auditHandler.ListAudit)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireCapability(models.CapManageUsers))
				r.Post("/users", userHandler.CreateUser)
				r.Get("/users", userHandler.ListUsers)
			})
		})
	})

	return r
}
