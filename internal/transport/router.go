package transport

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"skillsync/internal/transport/handler"
	transportMiddleware "skillsync/internal/transport/middleware"
)

func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	projectHandler *handler.ProjectHandler,
	exchangeHandler *handler.ExchangeHandler,
	healthHandler *handler.HealthHandler,
	auth *transportMiddleware.Auth,
	log *zap.Logger,
) *chi.Mux {
	router := chi.NewRouter()

	// Recovery должен быть первым для обработки паник во всех middleware
	router.Use(transportMiddleware.Recovery(log))

	// RequestID для трейсинга запросов
	router.Use(middleware.RequestID)

	// Logging для структурированного логирования всех запросов
	router.Use(transportMiddleware.Logging(log))

	// Timeout для контроля времени выполнения запросов
	router.Use(transportMiddleware.Timeout(500*time.Millisecond, log))

	// Metrics для сбора метрик производительности
	router.Use(transportMiddleware.Metrics)

	// Эндпоинт для Prometheus метрик
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/forgot-password", authHandler.ForgotPassword)
			r.Put("/reset-password/{token}", authHandler.ResetPassword)
			r.With(auth.Protect).Get("/me", authHandler.Me)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(auth.Protect)
			r.Get("/{id}", userHandler.GetUser)
			r.Put("/{id}", userHandler.UpdateUser)
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", projectHandler.ListProjects)
			r.With(auth.Protect).Post("/", projectHandler.CreateProject)
			r.Get("/match/{userId}", projectHandler.MatchProjects)
			// Просмотр доступен и без токена, но с токеном видны контакты участникам
			r.With(auth.Optional).Get("/{id}", projectHandler.GetProject)
			r.With(auth.Protect).Post("/{id}/join", projectHandler.JoinProject)
			r.With(auth.Protect).Put("/{id}/respond", projectHandler.RespondToJoinRequest)
			r.With(auth.Protect).Put("/{id}/complete", projectHandler.CompleteProject)
			r.With(auth.Protect).Put("/{id}/archive", projectHandler.ArchiveProject)
		})

		r.Route("/exchanges", func(r chi.Router) {
			r.Get("/browse", exchangeHandler.BrowseExchanges)
			r.With(auth.Protect).Post("/", exchangeHandler.CreateExchange)
			r.With(auth.Protect).Get("/user/{id}", exchangeHandler.ListUserExchanges)
			r.With(auth.Protect).Put("/{id}/respond", exchangeHandler.RespondToExchange)
			r.With(auth.Protect).Put("/{id}/complete", exchangeHandler.CompleteExchange)
		})
	})

	router.Get("/health", healthHandler.HealthCheck)
	return router
}
