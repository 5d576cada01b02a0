// Package certificate содержит бизнес-логику выдачи сертификатов,
// их выборки по владельцу и выдачи байтов встроенного изображения.
//
// Любая операция, возвращающая содержимое записи, проходит через проверку
// владения до того, как наружу уйдет хоть один байт.
package certificate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/certificate-vault/internal/auth"
	"github.com/magabrotheeeer/certificate-vault/internal/lib/imaging"
	"github.com/magabrotheeeer/certificate-vault/internal/lib/sl"
	"github.com/magabrotheeeer/certificate-vault/internal/models"
	"github.com/magabrotheeeer/certificate-vault/internal/storage"
)

// CertificateRepository определяет методы хранилища сертификатов.
type CertificateRepository interface {
	// CreateCertificate добавляет запись и возвращает её с идентификатором.
	CreateCertificate(ctx context.Context, req models.DummyCertificate) (*models.Certificate, error)
	// ListCertificates возвращает записи владельца в порядке добавления.
	ListCertificates(ctx context.Context, ownerID string) ([]*models.Certificate, error)
	// GetCertificate возвращает запись по идентификатору.
	GetCertificate(ctx context.Context, id string) (*models.Certificate, error)
}

// EventPublisher публикует события о выдаче сертификатов.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// CertificateService реализует бизнес-логику работы с сертификатами.
type CertificateService struct {
	repo      CertificateRepository
	publisher EventPublisher
	log       *slog.Logger
}

// NewCertificateService создает новый экземпляр CertificateService.
// publisher может быть nil: события тогда не публикуются.
func NewCertificateService(repo CertificateRepository, publisher EventPublisher, log *slog.Logger) *CertificateService {
	return &CertificateService{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// Issue выдает новый сертификат и публикует событие о выдаче.
// Публикация — best-effort: её отказ логируется, но не отменяет выдачу.
func (s *CertificateService) Issue(ctx context.Context, req models.DummyCertificate) (*models.Certificate, error) {
	cert, err := s.repo.CreateCertificate(ctx, req)
	if err != nil {
		return nil, err
	}

	s.log.Info("issued new certificate",
		slog.String("id", cert.ID),
		slog.String("owner", cert.UserID))

	if s.publisher != nil {
		event := models.CertificateIssuedEvent{
			CertificateID: cert.ID,
			UserID:        cert.UserID,
			IssuedAt:      time.Now().UTC(),
		}
		if err := s.publisher.Publish("issued", event); err != nil {
			s.log.Warn("failed to publish issued event", slog.String("id", cert.ID), sl.Err(err))
		}
	}

	return cert, nil
}

// ListByOwner возвращает сертификаты владельца в порядке выдачи.
func (s *CertificateService) ListByOwner(ctx context.Context, ownerID string) ([]*models.Certificate, error) {
	return s.repo.ListCertificates(ctx, ownerID)
}

// Image возвращает байты встроенного изображения сертификата и его content type.
//
// Порядок строго фиксирован: сначала проверка владения, потом декодирование.
// Отсутствующая запись и чужая запись дают один и тот же auth.ErrAccessDenied,
// чтобы по ответу нельзя было отличить "нет такой" от "не твоя".
func (s *CertificateService) Image(ctx context.Context, principal *auth.Principal, certID string) ([]byte, string, error) {
	const op = "certificate.Image"

	cert, err := s.repo.GetCertificate(ctx, certID)
	if err != nil {
		if errors.Is(err, storage.ErrCertificateNotFound) {
			return nil, "", fmt.Errorf("%s: %w", op, auth.ErrAccessDenied)
		}
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	if err := auth.Authorize(principal, cert); err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	raw, contentType, err := imaging.Decode(cert.ImageData)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return raw, contentType, nil
}
