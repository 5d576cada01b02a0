package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/certificate-vault/internal/models"
)

// UserStorage инкапсулирует файл users.json. Записи пользователей создаёт
// внешний сервис регистрации; здесь они читаются для разрешения cookie-сессии,
// а меняется только состояние подтверждения почты.
type UserStorage struct {
	fs       *fileStore
	validate *validator.Validate
}

// NewUserStorage создаёт хранилище пользователей над указанным файлом.
func NewUserStorage(path string, lockWait time.Duration) *UserStorage {
	return &UserStorage{
		fs:       newFileStore(path, lockWait),
		validate: validator.New(),
	}
}

func (s *UserStorage) readAll() ([]*models.User, error) {
	const op = "storage.UserStorage.readAll"

	data, err := s.fs.read()
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return []*models.User{}, nil
	}

	var users []*models.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", op, err, ErrStoreUnavailable)
	}
	for _, u := range users {
		if err := s.validate.Struct(u); err != nil {
			return nil, fmt.Errorf("%s: user %q: %v: %w", op, u.ID, err, ErrMalformedRecord)
		}
	}
	return users, nil
}

// FindUserByEmail возвращает пользователя с точным совпадением email
// или ErrUserNotFound.
func (s *UserStorage) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.FindUserByEmail"

	users, err := s.readAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, u := range users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
}

// VerifyUserEmail находит пользователя по одноразовому токену подтверждения,
// помечает его подтверждённым и удаляет токен. Неизвестный или уже
// использованный токен даёт ErrUserNotFound.
func (s *UserStorage) VerifyUserEmail(ctx context.Context, token string) (*models.User, error) {
	const op = "storage.VerifyUserEmail"

	if token == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}

	if err := s.fs.lock(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer s.fs.unlock()

	users, err := s.readAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	idx := -1
	for i, u := range users {
		if u.VerificationToken == token {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}

	users[idx].Verified = true
	users[idx].VerificationToken = ""

	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", op, err, ErrStoreUnavailable)
	}
	if err := s.fs.replace(data); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	verified := *users[idx]
	return &verified, nil
}
