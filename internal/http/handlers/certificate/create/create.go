// Package create реализует HTTP-обработчик выдачи нового сертификата.
//
// Handler принимает JSON-запрос с данными сертификата, валидирует их,
// вызывает бизнес-логику выдачи и возвращает созданную запись в JSON-формате.
// Аутентификация на этом слое не навязывается: выдачу выполняет доверенный
// внутренний вызывающий (генератор сертификатов курса).
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/certificate-vault/internal/http/response"
	"github.com/magabrotheeeer/certificate-vault/internal/lib/sl"
	"github.com/magabrotheeeer/certificate-vault/internal/models"
	"github.com/magabrotheeeer/certificate-vault/internal/storage"
)

// Handler управляет HTTP-запросами на выдачу сертификатов.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики выдачи сертификатов
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики выдачи сертификата.
type Service interface {
	Issue(ctx context.Context, req models.DummyCertificate) (*models.Certificate, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Выдать новый сертификат
// @Description Создает новую запись сертификата. Возвращает запись с сгенерированным идентификатором.
// @Tags Certificates
// @Accept json
// @Produce json
// @Param request body models.DummyCertificate true "Данные нового сертификата"
// @Success 200 {object} response.Response "Созданная запись"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Отказ хранилища при записи"
// @Router /certificates [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.certificate.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyCertificate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		var validateErrs validator.ValidationErrors
		if errors.As(err, &validateErrs) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.ValidationError(validateErrs))
			return
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("invalid request"))
		return
	}

	cert, err := h.service.Issue(r.Context(), req)
	if err != nil {
		if errors.Is(err, storage.ErrMalformedRecord) {
			log.Error("malformed record", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("invalid certificate data"))
			return
		}
		log.Error("failed to save certificate", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to save certificate"))
		return
	}

	log.Info("certificate issued", slog.String("id", cert.ID), slog.String("owner", cert.UserID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"certificate": cert,
	}))
}
