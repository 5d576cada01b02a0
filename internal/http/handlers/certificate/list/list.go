// Package list реализует HTTP-обработчик выборки сертификатов.
//
// Основной путь — токенный: JWT из cookie или заголовка, владелец берется
// из claims. Дополнительно, только если это явно включено в конфигурации,
// поддерживается неаутентифицированная выборка по ?userId= — осознанно
// низкодоверенная возможность "публичного чтения по известному
// идентификатору", а не молчаливый обход авторизации.
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
	"github.com/magabrotheeeer/certificate-vault/internal/lib/jwt"
	"github.com/magabrotheeeer/certificate-vault/internal/lib/sl"
	"github.com/magabrotheeeer/certificate-vault/internal/models"
)

// Handler управляет HTTP-запросами на выборку сертификатов.
type Handler struct {
	log             *slog.Logger
	resolver        TokenResolver
	service         Service
	allowPublicList bool
}

// TokenResolver описывает разрешение токена в принципала.
type TokenResolver interface {
	ResolveToken(tokenStr string) (*auth.Principal, error)
}

// Service описывает интерфейс бизнес-логики выборки сертификатов.
type Service interface {
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Certificate, error)
}

// New создает новый Handler. allowPublicList включает выборку по ?userId=.
func New(log *slog.Logger, resolver TokenResolver, service Service, allowPublicList bool) *Handler {
	return &Handler{
		log:             log,
		resolver:        resolver,
		service:         service,
		allowPublicList: allowPublicList,
	}
}

// ServeHTTP godoc
// @Summary Сертификаты владельца
// @Description Возвращает сертификаты владельца из токена либо, если разрешено, по ?userId=.
// @Tags Certificates
// @Produce json
// @Param userId query string false "Идентификатор владельца (только при включенной публичной выборке)"
// @Success 200 {object} response.Response "Список сертификатов"
// @Failure 401 {object} response.ErrorResponse "Учетные данные отсутствуют или токен не прошел проверку"
// @Failure 500 {object} response.ErrorResponse "Ошибка хранилища или конфигурации"
// @Router /certificates [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.certificate.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	ownerID, status, errMsg := h.resolveOwner(r, log)
	if errMsg != "" {
		w.WriteHeader(status)
		render.JSON(w, r, response.Error(errMsg))
		return
	}

	res, err := h.service.ListByOwner(r.Context(), ownerID)
	if err != nil {
		log.Error("failed to list certificates", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to fetch certificates"))
		return
	}

	log.Info("list certificates", "count", len(res))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"certificates": res,
	}))
}

// resolveOwner решает, чьи сертификаты выдавать. Возвращает непустое
// сообщение об ошибке вместе с HTTP статусом, когда выдача невозможна.
func (h *Handler) resolveOwner(r *http.Request, log *slog.Logger) (string, int, string) {
	if tokenStr := middlewarectx.ExtractToken(r); tokenStr != "" {
		principal, err := h.resolver.ResolveToken(tokenStr)
		if err != nil {
			if errors.Is(err, jwt.ErrMissingSecret) {
				log.Error("signing secret is not configured", sl.Err(err))
				return "", http.StatusInternalServerError, "internal server error"
			}
			log.Error("invalid token", sl.Err(err))
			return "", http.StatusUnauthorized, "invalid token"
		}
		return principal.UserID, 0, ""
	}

	if h.allowPublicList {
		if ownerID := r.URL.Query().Get("userId"); ownerID != "" {
			log.Info("public list by owner id", slog.String("owner", ownerID))
			return ownerID, 0, ""
		}
	}

	log.Error("no credentials presented")
	return "", http.StatusUnauthorized, "unauthorized"
}
