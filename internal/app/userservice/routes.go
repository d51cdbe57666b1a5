// Package userservice предоставляет маршруты и сборку основного приложения.
package userservice

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/clipstream/user-service/internal/http-server/handlers/auth/changepassword"
	"github.com/clipstream/user-service/internal/http-server/handlers/auth/login"
	"github.com/clipstream/user-service/internal/http-server/handlers/auth/logout"
	"github.com/clipstream/user-service/internal/http-server/handlers/auth/refresh"
	"github.com/clipstream/user-service/internal/http-server/handlers/auth/register"
	"github.com/clipstream/user-service/internal/http-server/handlers/user/current"
	"github.com/clipstream/user-service/internal/http-server/handlers/user/updateavatar"
	"github.com/clipstream/user-service/internal/http-server/handlers/user/updatecover"
	"github.com/clipstream/user-service/internal/http-server/handlers/user/updatedetails"
	"github.com/clipstream/user-service/internal/http-server/middlewarectx"
	"github.com/clipstream/user-service/internal/lib/jwt"
	profileservice "github.com/clipstream/user-service/internal/services/profile"
	sessionservice "github.com/clipstream/user-service/internal/services/session"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, jwtMaker *jwt.MakerImpl, sessionService *sessionservice.Service, profileService *profileservice.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/users/register", register.New(logger, sessionService))
		r.Post("/users/login", login.New(logger, sessionService, jwtMaker.AccessTTL(), jwtMaker.RefreshTTL()))
		r.Post("/users/refresh-token", refresh.New(logger, sessionService, jwtMaker.AccessTTL(), jwtMaker.RefreshTTL()))

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.AuthMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/users/logout", logout.New(logger, sessionService))
			r.Post("/users/change-password", changepassword.New(logger, sessionService))
			r.Get("/users/me", current.New(logger, profileService))
			r.Patch("/users/me", updatedetails.New(logger, profileService))
			r.Patch("/users/me/avatar", updateavatar.New(logger, profileService))
			r.Patch("/users/me/cover-image", updatecover.New(logger, profileService))
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
