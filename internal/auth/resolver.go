package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/certificate-vault/internal/lib/jwt"
	"github.com/magabrotheeeer/certificate-vault/internal/models"
	"github.com/magabrotheeeer/certificate-vault/internal/storage"
)

// UserFinder описывает поиск пользователя для сессионного пути.
type UserFinder interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// TokenParser описывает проверку токена для токенного пути.
type TokenParser interface {
	ParseToken(tokenStr string) (*jwt.CustomClaims, error)
}

// Resolver разрешает учётные данные запроса в принципала одним из двух путей.
type Resolver struct {
	users  UserFinder
	tokens TokenParser
}

// NewResolver создаёт Resolver над таблицей пользователей и парсером токенов.
func NewResolver(users UserFinder, tokens TokenParser) *Resolver {
	return &Resolver{users: users, tokens: tokens}
}

// ResolveSession разрешает принципала по email из сессионной cookie.
// Пустой email или отсутствие пользователя — ErrUnauthenticated,
// анонимного принципала не существует.
func (r *Resolver) ResolveSession(ctx context.Context, email string) (*Principal, error) {
	const op = "auth.ResolveSession"

	if email == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}
	user, err := r.users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %v: %w", op, err, ErrUnauthenticated)
		}
		// Отказ хранилища — не то же самое, что неизвестный пользователь
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Principal{UserID: user.ID, Trust: TrustSession}, nil
}

// ResolveToken разрешает принципала по предъявленному JWT. Идентификатор
// пользователя берётся из claims, дополнительный поиск по таблице не нужен.
// Отсутствие настроенного секрета пробрасывается как jwt.ErrMissingSecret:
// это ошибка конфигурации, а не плохой токен.
func (r *Resolver) ResolveToken(tokenStr string) (*Principal, error) {
	const op = "auth.ResolveToken"

	if tokenStr == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}
	claims, err := r.tokens.ParseToken(tokenStr)
	if err != nil {
		if errors.Is(err, jwt.ErrMissingSecret) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return nil, fmt.Errorf("%s: %v: %w", op, err, ErrInvalidToken)
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%s: empty userId claim: %w", op, ErrInvalidToken)
	}
	return &Principal{UserID: claims.UserID, Trust: TrustToken}, nil
}
