// Package subscriptioncheck реализует HTTP-обработчик проверки VIP-подписки.
//
// Проверка идет по сессионной cookie. Отсутствие cookie или неизвестный
// пользователь — это не ошибка, а ответ "подписки нет": фронтенду нужен
// флаг, а не причина.
package subscriptioncheck

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/certificate-vault/internal/http/middlewarectx"
	"github.com/magabrotheeeer/certificate-vault/internal/http/response"
	"github.com/magabrotheeeer/certificate-vault/internal/lib/sl"
	"github.com/magabrotheeeer/certificate-vault/internal/storage"
)

// Handler управляет HTTP-запросами на проверку подписки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики проверки подписки.
type Service interface {
	SubscriptionStatus(ctx context.Context, email string) (bool, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Статус VIP-подписки
// @Description Возвращает флаг VIP-подписки пользователя из сессионной cookie.
// @Tags Users
// @Produce json
// @Success 200 {object} response.Response "Флаг подписки"
// @Failure 500 {object} response.ErrorResponse "Отказ хранилища"
// @Router /subscription-check [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.subscriptioncheck"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var email string
	if cookie, err := r.Cookie(middlewarectx.SessionCookieName); err == nil {
		email = cookie.Value
	}
	if email == "" {
		render.JSON(w, r, response.StatusOKWithData(map[string]any{
			"vip_subscription": false,
			"message":          "User not logged in",
		}))
		return
	}

	vip, err := h.service.SubscriptionStatus(r.Context(), email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			render.JSON(w, r, response.StatusOKWithData(map[string]any{
				"vip_subscription": false,
				"message":          "User not found",
			}))
			return
		}
		log.Error("failed to check subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to check subscription status"))
		return
	}

	message := "No active VIP subscription"
	if vip {
		message = "VIP subscription is active"
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"vip_subscription": vip,
		"message":          message,
	}))
}
