// Package complaintstracker предоставляет маршруты для основного приложения.
package complaintstracker

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/grigormateeev/complaints-tracker/internal/config"
	"github.com/grigormateeev/complaints-tracker/internal/http/handlers/auth/createadmin"
	"github.com/grigormateeev/complaints-tracker/internal/http/handlers/auth/login"
	"github.com/grigormateeev/complaints-tracker/internal/http/handlers/auth/me"
	"github.com/grigormateeev/complaints-tracker/internal/http/handlers/auth/register"
	"github.com/grigormateeev/complaints-tracker/internal/http/handlers/complaint/health"
	"github.com/grigormateeev/complaints-tracker/internal/http/handlers/complaint/listall"
	"github.com/grigormateeev/complaints-tracker/internal/http/handlers/complaint/listown"
	"github.com/grigormateeev/complaints-tracker/internal/http/handlers/complaint/read"
	"github.com/grigormateeev/complaints-tracker/internal/http/handlers/complaint/submit"
	"github.com/grigormateeev/complaints-tracker/internal/http/handlers/complaint/update"
	"github.com/grigormateeev/complaints-tracker/internal/http/middlewarectx"
	authservice "github.com/grigormateeev/complaints-tracker/internal/services/auth"
	complaintservice "github.com/grigormateeev/complaints-tracker/internal/services/complaint"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config,
	authService *authservice.AuthService, complaintService *complaintservice.ComplaintService) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, authService).ServeHTTP)
		r.Post("/auth/login", login.New(logger, authService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger, cfg.RateLimit, cfg.RateBurst))
			r.Post("/auth/create-admin", createadmin.New(logger, authService).ServeHTTP)
			r.Get("/auth/user", me.New(logger).ServeHTTP)
			r.Post("/complaints", submit.New(logger, complaintService).ServeHTTP)
			r.Get("/complaints/my", listown.New(logger, complaintService).ServeHTTP)
			r.Get("/complaints", listall.New(logger, complaintService).ServeHTTP)
			r.Get("/complaints/{id}", read.New(logger, complaintService).ServeHTTP)
			r.Put("/complaints/{id}", update.New(logger, complaintService).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
