package certificate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/certificate-vault/internal/auth"
	"github.com/magabrotheeeer/certificate-vault/internal/lib/imaging"
	"github.com/magabrotheeeer/certificate-vault/internal/models"
	"github.com/magabrotheeeer/certificate-vault/internal/storage"
)

// RepoMock реализует интерфейс CertificateRepository
type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateCertificate(ctx context.Context, req models.DummyCertificate) (*models.Certificate, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Certificate), args.Error(1)
}

func (m *RepoMock) ListCertificates(ctx context.Context, ownerID string) ([]*models.Certificate, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Certificate), args.Error(1)
}

func (m *RepoMock) GetCertificate(ctx context.Context, id string) (*models.Certificate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Certificate), args.Error(1)
}

// PublisherMock реализует интерфейс EventPublisher
type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(routingKey string, message any) error {
	args := m.Called(routingKey, message)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestIssue_PublishesEvent(t *testing.T) {
	repo := new(RepoMock)
	pub := new(PublisherMock)
	svc := NewCertificateService(repo, pub, discardLogger())

	req := models.DummyCertificate{UserID: "u1", FirstName: "Ivan", LastName: "Petrov", Date: "2026-01-01"}
	created := &models.Certificate{ID: "c1", UserID: "u1", FirstName: "Ivan", LastName: "Petrov", Date: "2026-01-01"}

	repo.On("CreateCertificate", mock.Anything, req).Return(created, nil)
	pub.On("Publish", "issued", mock.MatchedBy(func(msg any) bool {
		event, ok := msg.(models.CertificateIssuedEvent)
		return ok && event.CertificateID == "c1" && event.UserID == "u1"
	})).Return(nil)

	got, err := svc.Issue(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestIssue_PublishFailureDoesNotFailIssuance(t *testing.T) {
	repo := new(RepoMock)
	pub := new(PublisherMock)
	svc := NewCertificateService(repo, pub, discardLogger())

	req := models.DummyCertificate{UserID: "u1", FirstName: "Ivan", LastName: "Petrov", Date: "2026-01-01"}
	created := &models.Certificate{ID: "c1", UserID: "u1"}

	repo.On("CreateCertificate", mock.Anything, req).Return(created, nil)
	pub.On("Publish", "issued", mock.Anything).Return(assert.AnError)

	got, err := svc.Issue(context.Background(), req)
	require.NoError(t, err, "event publishing is best-effort")
	assert.Equal(t, "c1", got.ID)
}

func TestIssue_StoreFailure(t *testing.T) {
	repo := new(RepoMock)
	svc := NewCertificateService(repo, nil, discardLogger())

	req := models.DummyCertificate{UserID: "u1", FirstName: "Ivan", LastName: "Petrov", Date: "2026-01-01"}
	repo.On("CreateCertificate", mock.Anything, req).Return(nil, storage.ErrStoreUnavailable)

	_, err := svc.Issue(context.Background(), req)
	require.ErrorIs(t, err, storage.ErrStoreUnavailable)
}

func TestImage_OwnerGetsBytes(t *testing.T) {
	repo := new(RepoMock)
	svc := NewCertificateService(repo, nil, discardLogger())

	raw := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	cert := &models.Certificate{ID: "c1", UserID: "u1", ImageData: imaging.Encode(raw)}
	repo.On("GetCertificate", mock.Anything, "c1").Return(cert, nil)

	got, ct, err := svc.Image(context.Background(), &auth.Principal{UserID: "u1", Trust: auth.TrustToken}, "c1")
	require.NoError(t, err)
	assert.Equal(t, raw, got)
	assert.Equal(t, "image/png", ct)
}

// TestImage_DenyPrecedesDecode фиксирует порядок: проверка владения идет
// раньше декодирования. Для чужой записи с заведомо битым изображением
// возвращается именно отказ в доступе, а не ошибка декодирования.
func TestImage_DenyPrecedesDecode(t *testing.T) {
	repo := new(RepoMock)
	svc := NewCertificateService(repo, nil, discardLogger())

	cert := &models.Certificate{ID: "c1", UserID: "u1", ImageData: "@@@corrupt@@@"}
	repo.On("GetCertificate", mock.Anything, "c1").Return(cert, nil)

	raw, ct, err := svc.Image(context.Background(), &auth.Principal{UserID: "u2", Trust: auth.TrustToken}, "c1")
	require.ErrorIs(t, err, auth.ErrAccessDenied)
	assert.False(t, errors.Is(err, imaging.ErrCorruptImage), "decode must not run before the ownership check")
	assert.Nil(t, raw, "no bytes may leave on DENY")
	assert.Empty(t, ct)
}

func TestImage_NotFoundAndForeignAreIdentical(t *testing.T) {
	repo := new(RepoMock)
	svc := NewCertificateService(repo, nil, discardLogger())

	repo.On("GetCertificate", mock.Anything, "missing").Return(nil, storage.ErrCertificateNotFound)
	foreign := &models.Certificate{ID: "c1", UserID: "u1", ImageData: imaging.Encode([]byte{1})}
	repo.On("GetCertificate", mock.Anything, "c1").Return(foreign, nil)

	principal := &auth.Principal{UserID: "u2", Trust: auth.TrustToken}

	_, _, errMissing := svc.Image(context.Background(), principal, "missing")
	_, _, errForeign := svc.Image(context.Background(), principal, "c1")

	require.ErrorIs(t, errMissing, auth.ErrAccessDenied)
	require.ErrorIs(t, errForeign, auth.ErrAccessDenied, "absence and mismatch must be indistinguishable")
}

func TestImage_NilPrincipal(t *testing.T) {
	repo := new(RepoMock)
	svc := NewCertificateService(repo, nil, discardLogger())

	cert := &models.Certificate{ID: "c1", UserID: "u1", ImageData: imaging.Encode([]byte{1})}
	repo.On("GetCertificate", mock.Anything, "c1").Return(cert, nil)

	_, _, err := svc.Image(context.Background(), nil, "c1")
	require.ErrorIs(t, err, auth.ErrAccessDenied)
}

func TestImage_CorruptPayloadForOwner(t *testing.T) {
	repo := new(RepoMock)
	svc := NewCertificateService(repo, nil, discardLogger())

	cert := &models.Certificate{ID: "c1", UserID: "u1", ImageData: "@@@corrupt@@@"}
	repo.On("GetCertificate", mock.Anything, "c1").Return(cert, nil)

	_, _, err := svc.Image(context.Background(), &auth.Principal{UserID: "u1", Trust: auth.TrustToken}, "c1")
	require.ErrorIs(t, err, imaging.ErrCorruptImage)
}

func TestListByOwner(t *testing.T) {
	repo := new(RepoMock)
	svc := NewCertificateService(repo, nil, discardLogger())

	certs := []*models.Certificate{{ID: "c1", UserID: "u1"}, {ID: "c3", UserID: "u1"}}
	repo.On("ListCertificates", mock.Anything, "u1").Return(certs, nil)

	got, err := svc.ListByOwner(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, certs, got)
}
