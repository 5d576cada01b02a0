// Package middlewarectx содержит HTTP middleware для разрешения учётных
// данных запроса в принципала и для ограничения частоты запросов.
//
// TokenAuthMiddleware принимает только токенный путь (сильное доверие):
// JWT из cookie "token" или заголовка Authorization. В случае успеха кладет
// принципала в контекст запроса; иначе возвращает 401, а при отсутствии
// настроенного секрета подписи — 500 (проверка не пропускается никогда).
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/certificate-vault/internal/auth"
	"github.com/magabrotheeeer/certificate-vault/internal/http/response"
	"github.com/magabrotheeeer/certificate-vault/internal/lib/jwt"
	"github.com/magabrotheeeer/certificate-vault/internal/lib/sl"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// PrincipalKey — ключ для принципала в контексте.
const PrincipalKey Key = "principal"

// TokenCookieName — имя cookie с JWT.
const TokenCookieName = "token"

// SessionCookieName — имя cookie сессионного пути с email пользователя.
const SessionCookieName = "userEmail"

// TokenResolver описывает разрешение токена в принципала.
type TokenResolver interface {
	ResolveToken(tokenStr string) (*auth.Principal, error)
}

// ExtractToken достает JWT из cookie "token" или заголовка Authorization.
// Пустая строка — токен не предъявлен.
func ExtractToken(r *http.Request) string {
	if cookie, err := r.Cookie(TokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// PrincipalFromContext возвращает принципала, положенного middleware.
func PrincipalFromContext(ctx context.Context) (*auth.Principal, bool) {
	p, ok := ctx.Value(PrincipalKey).(*auth.Principal)
	return p, ok
}

// TokenAuthMiddleware возвращает HTTP middleware, который требует валидный JWT.
//
// Если токен валиден, добавляет принципала в контекст запроса,
// иначе возвращает ошибку с HTTP статусом 401 Unauthorized.
func TokenAuthMiddleware(resolver TokenResolver, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.TokenAuthMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			tokenStr := ExtractToken(r)
			if tokenStr == "" {
				log.Error("no token presented")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}

			principal, err := resolver.ResolveToken(tokenStr)
			if err != nil {
				if errors.Is(err, jwt.ErrMissingSecret) {
					log.Error("signing secret is not configured", sl.Err(err))
					w.WriteHeader(http.StatusInternalServerError)
					render.JSON(w, r, response.Error("internal server error"))
					return
				}
				log.Error("invalid or expired token", sl.Err(err))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid token"))
				return
			}

			ctx := context.WithValue(r.Context(), PrincipalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
