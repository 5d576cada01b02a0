// Package image реализует HTTP-обработчик выдачи байтов изображения сертификата.
//
// Маршрут закрыт токенным middleware; сама выдача проходит через проверку
// владения в сервисе до декодирования. Итог для "нет такой записи" и
// "запись чужая" структурно одинаков — 401 без деталей.
package image

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/certificate-vault/internal/auth"
	"github.com/magabrotheeeer/certificate-vault/internal/http/middlewarectx"
	"github.com/magabrotheeeer/certificate-vault/internal/http/response"
	"github.com/magabrotheeeer/certificate-vault/internal/lib/sl"
)

// cacheMaxAge — время жизни приватного кеша изображения в секундах.
const cacheMaxAge = 3600

// Handler управляет HTTP-запросами на выдачу изображения сертификата.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики выдачи изображения.
type Service interface {
	Image(ctx context.Context, principal *auth.Principal, certID string) ([]byte, string, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Изображение сертификата
// @Description Возвращает байты встроенного изображения сертификата его владельцу.
// @Tags Certificates
// @Produce png
// @Param id path string true "Идентификатор сертификата"
// @Success 200 {file} binary "Байты изображения с приватным кеш-заголовком"
// @Failure 401 {object} response.ErrorResponse "Нет сессии, запись чужая или отсутствует"
// @Failure 500 {object} response.ErrorResponse "Отказ хранилища или битое изображение"
// @Security BearerAuth
// @Router /certificates/{id}/image [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.certificate.image"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	certID := chi.URLParam(r, "id")

	principal, ok := middlewarectx.PrincipalFromContext(r.Context())
	if !ok {
		log.Error("principal not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	raw, contentType, err := h.service.Image(r.Context(), principal, certID)
	if err != nil {
		if errors.Is(err, auth.ErrAccessDenied) {
			log.Error("access denied", slog.String("id", certID), sl.Err(err))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("unauthorized"))
			return
		}
		log.Error("failed to retrieve certificate image", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to retrieve certificate image"))
		return
	}

	log.Info("serving certificate image", slog.String("id", certID), slog.Int("size", len(raw)))

	// Приватный кеш: промежуточные кеши не должны отдать изображение
	// одного пользователя другому
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", fmt.Sprintf("private, max-age=%d", cacheMaxAge))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(raw); err != nil {
		log.Error("failed to write image bytes", sl.Err(err))
	}
}
