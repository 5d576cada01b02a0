// Package verifyemail реализует HTTP-обработчик подтверждения почты
// по одноразовому токену из письма.
package verifyemail

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/certificate-vault/internal/http/response"
	"github.com/magabrotheeeer/certificate-vault/internal/lib/sl"
	"github.com/magabrotheeeer/certificate-vault/internal/models"
	"github.com/magabrotheeeer/certificate-vault/internal/storage"
)

// Handler управляет HTTP-запросами на подтверждение почты.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики подтверждения почты.
type Service interface {
	VerifyEmail(ctx context.Context, token string) (*models.User, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Подтвердить почту
// @Description Подтверждает почту по одноразовому токену из query-параметра.
// @Tags Users
// @Produce json
// @Param token query string true "Одноразовый токен подтверждения"
// @Success 200 {object} response.Response "Почта подтверждена"
// @Failure 400 {object} response.ErrorResponse "Токен отсутствует или неизвестен"
// @Failure 500 {object} response.ErrorResponse "Отказ хранилища"
// @Router /verify-email [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.verifyemail"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token := r.URL.Query().Get("token")
	if token == "" {
		log.Error("verification token is missing")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("verification token is required"))
		return
	}

	user, err := h.service.VerifyEmail(r.Context(), token)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Error("invalid verification token", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid verification token"))
			return
		}
		log.Error("email verification failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("an error occurred during email verification"))
		return
	}

	log.Info("email verified", slog.String("user", user.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "Email verified successfully",
	}))
}
