package verifyemail

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/certificate-vault/internal/models"
	"github.com/magabrotheeeer/certificate-vault/internal/storage"
)

// ServiceMock реализует интерфейс verifyemail.Service
type ServiceMock struct{ mock.Mock }

func (m *ServiceMock) VerifyEmail(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestVerifyEmailHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		query          string
		setupMock      func(*ServiceMock)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "успешное подтверждение почты",
			query: "?token=tok-123",
			setupMock: func(m *ServiceMock) {
				m.On("VerifyEmail", mock.Anything, "tok-123").
					Return(&models.User{ID: "u1", Email: "ivan@example.com", Verified: true}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   "Email verified successfully",
		},
		{
			name:           "токен отсутствует",
			query:          "",
			setupMock:      func(_ *ServiceMock) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "verification token is required",
		},
		{
			name:  "неизвестный токен",
			query: "?token=stale",
			setupMock: func(m *ServiceMock) {
				m.On("VerifyEmail", mock.Anything, "stale").
					Return(nil, storage.ErrUserNotFound)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "invalid verification token",
		},
		{
			name:  "отказ хранилища",
			query: "?token=tok-123",
			setupMock: func(m *ServiceMock) {
				m.On("VerifyEmail", mock.Anything, "tok-123").
					Return(nil, storage.ErrStoreUnavailable)
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "an error occurred during email verification",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(ServiceMock)
			tt.setupMock(service)

			handler := New(logger, service)

			req := httptest.NewRequest(http.MethodGet, "/verify-email"+tt.query, nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			service.AssertExpectations(t)
		})
	}
}
