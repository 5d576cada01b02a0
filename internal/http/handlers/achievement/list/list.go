// Package list реализует HTTP-обработчик выдачи достижений текущего пользователя.
//
// Обработчик разрешает принципала сессионным путем: email из cookie и поиск
// по таблице пользователей, без криптографической проверки. Этого уровня
// доверия достаточно только для best-effort фильтрующей выдачи — ничего,
// кроме собственных записей пользователя, отсюда не уходит.
package list

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/certificate-vault/internal/auth"
	"github.com/magabrotheeeer/certificate-vault/internal/http/middlewarectx"
	"github.com/magabrotheeeer/certificate-vault/internal/http/response"
	"github.com/magabrotheeeer/certificate-vault/internal/lib/sl"
	"github.com/magabrotheeeer/certificate-vault/internal/models"
)

// Handler управляет HTTP-запросами на выдачу достижений пользователя.
type Handler struct {
	log      *slog.Logger
	resolver SessionResolver
	service  Service
}

// SessionResolver описывает разрешение сессионной cookie в принципала.
type SessionResolver interface {
	ResolveSession(ctx context.Context, email string) (*auth.Principal, error)
}

// Service описывает интерфейс бизнес-логики выборки сертификатов.
type Service interface {
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Certificate, error)
}

// New создает новый Handler с переданными логгером, резолвером и сервисом.
func New(log *slog.Logger, resolver SessionResolver, service Service) *Handler {
	return &Handler{
		log:      log,
		resolver: resolver,
		service:  service,
	}
}

// ServeHTTP godoc
// @Summary Достижения текущего пользователя
// @Description Возвращает сертификаты пользователя, определенного по сессионной cookie.
// @Tags Achievements
// @Produce json
// @Success 200 {object} response.Response "Список достижений"
// @Failure 401 {object} response.ErrorResponse "Сессия отсутствует или не разрешилась"
// @Failure 500 {object} response.ErrorResponse "Ошибка хранилища"
// @Router /achievements [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.achievement.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var email string
	if cookie, err := r.Cookie(middlewarectx.SessionCookieName); err == nil {
		email = cookie.Value
	}

	principal, err := h.resolver.ResolveSession(r.Context(), email)
	if err != nil {
		if errors.Is(err, auth.ErrUnauthenticated) {
			log.Error("session did not resolve", sl.Err(err))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("unauthorized"))
			return
		}
		log.Error("failed to resolve session", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	res, err := h.service.ListByOwner(r.Context(), principal.UserID)
	if err != nil {
		log.Error("failed to list achievements", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list achievements"))
		return
	}

	log.Info("list achievements", "count", len(res))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"achievements": res,
	}))
}
