package certificatevault

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/certificate-vault/internal/auth"
	"github.com/magabrotheeeer/certificate-vault/internal/cache"
	"github.com/magabrotheeeer/certificate-vault/internal/config"
	"github.com/magabrotheeeer/certificate-vault/internal/lib/jwt"
	"github.com/magabrotheeeer/certificate-vault/internal/lib/sl"
	"github.com/magabrotheeeer/certificate-vault/internal/rabbitmq"
	certservice "github.com/magabrotheeeer/certificate-vault/internal/services/certificate"
	userservice "github.com/magabrotheeeer/certificate-vault/internal/services/user"
	"github.com/magabrotheeeer/certificate-vault/internal/storage"
)

// App инкапсулирует HTTP-сервер и внешние соединения приложения.
type App struct {
	server   *http.Server
	logger   *slog.Logger
	amqpConn *amqp.Connection
}

// New создает приложение: хранилища на файлах, Redis-кеш и издатель событий
// подключаются по возможности — их отказ не мешает выдаче сертификатов.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	certStore := storage.NewCertificateStorage(cfg.CertificatesPath, cfg.LockWait)
	userStore := storage.NewUserStorage(cfg.UsersPath, cfg.LockWait)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	resolver := auth.NewResolver(userStore, jwtMaker)

	var vipCache userservice.Cache
	if cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection); err != nil {
		logger.Warn("redis unavailable, subscription checks go to the store", sl.Err(err))
	} else {
		vipCache = cacheRedis
	}

	var amqpConn *amqp.Connection
	var publisher certservice.EventPublisher
	conn, err := rabbitmq.Connect(cfg.AddressAMQP, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		logger.Warn("rabbitmq unavailable, issuance events will be dropped", sl.Err(err))
	} else {
		ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetCertificateQueues())
		if err != nil {
			logger.Warn("rabbitmq channel setup failed, issuance events will be dropped", sl.Err(err))
			_ = conn.Close()
		} else {
			amqpConn = conn
			publisher = rabbitmq.NewPublisher(ch)
		}
	}

	certificateService := certservice.NewCertificateService(certStore, publisher, logger)
	usrService := userservice.NewUserService(userStore, vipCache, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, resolver, certificateService, usrService, cfg.AllowPublicList)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		amqpConn: amqpConn,
	}, nil
}

// Run запускает HTTP-сервер и корректно гасит его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if a.amqpConn != nil {
			_ = a.amqpConn.Close()
		}
		return err
	}
}
