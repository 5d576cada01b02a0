// Package user содержит бизнес-логику подтверждения почты
// и проверки VIP-подписки пользователя с кешированием статуса.
package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/certificate-vault/internal/lib/sl"
	"github.com/magabrotheeeer/certificate-vault/internal/models"
)

// vipStatusTTL — время жизни закешированного статуса подписки.
const vipStatusTTL = time.Hour

// UserRepository определяет методы хранилища пользователей.
type UserRepository interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	VerifyUserEmail(ctx context.Context, token string) (*models.User, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// UserService реализует бизнес-логику работы с пользователями.
type UserService struct {
	repo  UserRepository
	cache Cache
	log   *slog.Logger
}

// NewUserService создает новый экземпляр UserService.
// cache может быть nil: статус тогда читается напрямую из хранилища.
func NewUserService(repo UserRepository, cache Cache, log *slog.Logger) *UserService {
	return &UserService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func vipCacheKey(email string) string {
	return fmt.Sprintf("user:vip:%s", email)
}

// VerifyEmail подтверждает почту по одноразовому токену
// и сбрасывает закешированный статус пользователя.
func (s *UserService) VerifyEmail(ctx context.Context, token string) (*models.User, error) {
	user, err := s.repo.VerifyUserEmail(ctx, token)
	if err != nil {
		return nil, err
	}

	s.log.Info("email verified", slog.String("user", user.ID))

	if s.cache != nil {
		if err := s.cache.Invalidate(vipCacheKey(user.Email)); err != nil {
			s.log.Warn("failed to invalidate cached status", slog.String("email", user.Email), sl.Err(err))
		}
	}
	return user, nil
}

// SubscriptionStatus возвращает флаг VIP-подписки пользователя по email.
// Значение кешируется на vipStatusTTL.
func (s *UserService) SubscriptionStatus(ctx context.Context, email string) (bool, error) {
	cacheKey := vipCacheKey(email)

	if s.cache != nil {
		var cached bool
		found, err := s.cache.Get(cacheKey, &cached)
		if err != nil {
			s.log.Warn("cache lookup failed", slog.String("key", cacheKey), sl.Err(err))
		} else if found {
			return cached, nil
		}
	}

	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		return false, err
	}

	if s.cache != nil {
		if err := s.cache.Set(cacheKey, user.VIPSubscription, vipStatusTTL); err != nil {
			s.log.Warn("failed to cache status", slog.String("key", cacheKey), sl.Err(err))
		}
	}
	return user.VIPSubscription, nil
}
