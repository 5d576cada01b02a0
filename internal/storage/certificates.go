package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/certificate-vault/internal/models"
)

// CertificateStorage инкапсулирует файл certificates.json и реализует
// методы выдачи, полного сканирования и фильтрации сертификатов.
type CertificateStorage struct {
	fs       *fileStore
	validate *validator.Validate
}

// NewCertificateStorage создаёт хранилище сертификатов над указанным файлом.
// lockWait ограничивает ожидание блокировки писателя; ноль — значение по умолчанию.
func NewCertificateStorage(path string, lockWait time.Duration) *CertificateStorage {
	return &CertificateStorage{
		fs:       newFileStore(path, lockWait),
		validate: validator.New(),
	}
}

// readAll читает и валидирует всю коллекцию. Отсутствующий или пустой файл —
// пустая коллекция.
func (s *CertificateStorage) readAll() ([]*models.Certificate, error) {
	const op = "storage.CertificateStorage.readAll"

	data, err := s.fs.read()
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return []*models.Certificate{}, nil
	}

	var certs []*models.Certificate
	if err := json.Unmarshal(data, &certs); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", op, err, ErrStoreUnavailable)
	}
	for _, cert := range certs {
		if err := s.validate.Struct(cert); err != nil {
			return nil, fmt.Errorf("%s: certificate %q: %v: %w", op, cert.ID, err, ErrMalformedRecord)
		}
	}
	return certs, nil
}

// CreateCertificate добавляет новую запись в коллекцию и возвращает её
// с сгенерированным идентификатором. Запись держит блокировку писателя
// на весь цикл чтение-изменение-запись, поэтому две конкурентные выдачи
// не затирают друг друга.
func (s *CertificateStorage) CreateCertificate(ctx context.Context, req models.DummyCertificate) (*models.Certificate, error) {
	const op = "storage.CreateCertificate"

	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", op, err, ErrMalformedRecord)
	}

	if err := s.fs.lock(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer s.fs.unlock()

	certs, err := s.readAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cert := &models.Certificate{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Date:      req.Date,
		Score:     req.Score,
		ImageURL:  req.ImageURL,
		ImageData: req.ImageData,
	}
	certs = append(certs, cert)

	data, err := json.MarshalIndent(certs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", op, err, ErrStoreUnavailable)
	}
	if err := s.fs.replace(data); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	created := *cert
	return &created, nil
}

// ListCertificates возвращает сертификаты с совпадающим владельцем
// в порядке добавления. Отсутствие совпадений — пустой срез, а не ошибка.
func (s *CertificateStorage) ListCertificates(ctx context.Context, ownerID string) ([]*models.Certificate, error) {
	const op = "storage.ListCertificates"

	certs, err := s.readAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]*models.Certificate, 0)
	for _, cert := range certs {
		if cert.UserID == ownerID {
			copied := *cert
			result = append(result, &copied)
		}
	}
	return result, nil
}

// GetCertificate возвращает сертификат по идентификатору
// или ErrCertificateNotFound.
func (s *CertificateStorage) GetCertificate(ctx context.Context, id string) (*models.Certificate, error) {
	const op = "storage.GetCertificate"

	certs, err := s.readAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, cert := range certs {
		if cert.ID == id {
			copied := *cert
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", op, ErrCertificateNotFound)
}
