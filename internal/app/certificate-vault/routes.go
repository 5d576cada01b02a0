// Package certificatevault предоставляет маршруты для основного приложения.
package certificatevault

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	achievementlist "github.com/magabrotheeeer/certificate-vault/internal/http/handlers/achievement/list"
	"github.com/magabrotheeeer/certificate-vault/internal/http/handlers/certificate/create"
	"github.com/magabrotheeeer/certificate-vault/internal/http/handlers/certificate/image"
	certificatelist "github.com/magabrotheeeer/certificate-vault/internal/http/handlers/certificate/list"
	"github.com/magabrotheeeer/certificate-vault/internal/http/handlers/user/subscriptioncheck"
	"github.com/magabrotheeeer/certificate-vault/internal/http/handlers/user/verifyemail"
	"github.com/magabrotheeeer/certificate-vault/internal/http/middlewarectx"

	"github.com/magabrotheeeer/certificate-vault/internal/auth"
	certservice "github.com/magabrotheeeer/certificate-vault/internal/services/certificate"
	userservice "github.com/magabrotheeeer/certificate-vault/internal/services/user"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, resolver *auth.Resolver, certificateService *certservice.CertificateService, usrService *userservice.UserService, allowPublicList bool) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Сессионный путь: cookie-доверие, только собственные записи
		r.Get("/achievements", achievementlist.New(logger, resolver, certificateService).ServeHTTP)

		// Выдача и выпуск сертификатов
		r.Get("/certificates", certificatelist.New(logger, resolver, certificateService, allowPublicList).ServeHTTP)
		r.Post("/certificates", create.New(logger, certificateService).ServeHTTP)

		// Группа с обязательной проверкой JWT
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.TokenAuthMiddleware(resolver, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/certificates/{id}/image", image.New(logger, certificateService).ServeHTTP)
		})

		// Пользовательские конечные точки
		r.Get("/verify-email", verifyemail.New(logger, usrService).ServeHTTP)
		r.Get("/subscription-check", subscriptioncheck.New(logger, usrService).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
