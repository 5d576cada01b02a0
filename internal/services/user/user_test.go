package user

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/certificate-vault/internal/models"
	"github.com/magabrotheeeer/certificate-vault/internal/storage"
)

// RepoMock реализует интерфейс UserRepository
type RepoMock struct{ mock.Mock }

func (m *RepoMock) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) VerifyUserEmail(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// CacheMock реализует интерфейс Cache
type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	if args.Bool(0) {
		*(result.(*bool)) = true
	}
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *CacheMock) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestVerifyEmail_InvalidatesCachedStatus(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	svc := NewUserService(repo, cache, discardLogger())

	verified := &models.User{ID: "u1", Email: "ivan@example.com", Verified: true}
	repo.On("VerifyUserEmail", mock.Anything, "tok-123").Return(verified, nil)
	cache.On("Invalidate", "user:vip:ivan@example.com").Return(nil)

	got, err := svc.VerifyEmail(context.Background(), "tok-123")
	require.NoError(t, err)
	assert.True(t, got.Verified)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestVerifyEmail_UnknownToken(t *testing.T) {
	repo := new(RepoMock)
	svc := NewUserService(repo, nil, discardLogger())

	repo.On("VerifyUserEmail", mock.Anything, "wrong").Return(nil, storage.ErrUserNotFound)

	_, err := svc.VerifyEmail(context.Background(), "wrong")
	require.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestSubscriptionStatus_CacheHitSkipsStore(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	svc := NewUserService(repo, cache, discardLogger())

	cache.On("Get", "user:vip:ivan@example.com", mock.Anything).Return(true, nil)

	vip, err := svc.SubscriptionStatus(context.Background(), "ivan@example.com")
	require.NoError(t, err)
	assert.True(t, vip)

	repo.AssertNotCalled(t, "FindUserByEmail", mock.Anything, mock.Anything)
}

func TestSubscriptionStatus_CacheMissReadsStoreAndCaches(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	svc := NewUserService(repo, cache, discardLogger())

	cache.On("Get", "user:vip:ivan@example.com", mock.Anything).Return(false, nil)
	repo.On("FindUserByEmail", mock.Anything, "ivan@example.com").
		Return(&models.User{ID: "u1", Email: "ivan@example.com", VIPSubscription: true}, nil)
	cache.On("Set", "user:vip:ivan@example.com", true, time.Hour).Return(nil)

	vip, err := svc.SubscriptionStatus(context.Background(), "ivan@example.com")
	require.NoError(t, err)
	assert.True(t, vip)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestSubscriptionStatus_UnknownUser(t *testing.T) {
	repo := new(RepoMock)
	svc := NewUserService(repo, nil, discardLogger())

	repo.On("FindUserByEmail", mock.Anything, "ghost@example.com").Return(nil, storage.ErrUserNotFound)

	_, err := svc.SubscriptionStatus(context.Background(), "ghost@example.com")
	require.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestSubscriptionStatus_WithoutCache(t *testing.T) {
	repo := new(RepoMock)
	svc := NewUserService(repo, nil, discardLogger())

	repo.On("FindUserByEmail", mock.Anything, "ivan@example.com").
		Return(&models.User{ID: "u1", Email: "ivan@example.com", VIPSubscription: false}, nil)

	vip, err := svc.SubscriptionStatus(context.Background(), "ivan@example.com")
	require.NoError(t, err)
	assert.False(t, vip)
}
