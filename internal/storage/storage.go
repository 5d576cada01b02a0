// Package storage реализует хранилище данных на основе плоских JSON-файлов
// для сертификатов и пользователей. Предоставляет методы добавления,
// полного сканирования и фильтрации записей.
//
// Файл целиком принадлежит хранилищу: вызывающая сторона всегда получает
// копии записей, а не ссылки на внутреннее состояние.
//
// Запись устроена как чтение-изменение-запись всей коллекции и сериализуется
// через семафор с ограниченным ожиданием: зависшая запись превращается в
// ErrStoreUnavailable, а не блокирует процесс навсегда. Файл подменяется
// атомарно (временный файл + rename), поэтому читатели видят либо старый,
// либо новый снимок коллекции, но никогда — частично записанный.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

var (
	// ErrStoreUnavailable — файл не удалось прочитать или записать
	// по любой причине, кроме "ещё не существует".
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrCertificateNotFound — сертификат с таким идентификатором отсутствует.
	ErrCertificateNotFound = errors.New("certificate not found")
	// ErrUserNotFound — пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrMalformedRecord — запись не прошла валидацию схемы на границе хранилища.
	ErrMalformedRecord = errors.New("malformed record")
)

// DefaultLockWait — ожидание блокировки записи по умолчанию.
const DefaultLockWait = 5 * time.Second

// fileStore — низкоуровневый слой работы с одним JSON-файлом.
type fileStore struct {
	path     string
	lockWait time.Duration
	writeSem chan struct{} // Семафор единственного писателя
}

func newFileStore(path string, lockWait time.Duration) *fileStore {
	if lockWait <= 0 {
		lockWait = DefaultLockWait
	}
	return &fileStore{
		path:     path,
		lockWait: lockWait,
		writeSem: make(chan struct{}, 1),
	}
}

// lock захватывает право записи с ограниченным ожиданием.
func (f *fileStore) lock(ctx context.Context) error {
	const op = "storage.lock"
	select {
	case f.writeSem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%s: %v: %w", op, ctx.Err(), ErrStoreUnavailable)
	case <-time.After(f.lockWait):
		return fmt.Errorf("%s: write lock timed out after %s: %w", op, f.lockWait, ErrStoreUnavailable)
	}
}

func (f *fileStore) unlock() {
	<-f.writeSem
}

// read возвращает содержимое файла. Отсутствующий файл — это пустая
// коллекция, а не ошибка.
func (f *fileStore) read() ([]byte, error) {
	const op = "storage.read"
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", op, err, ErrStoreUnavailable)
	}
	return data, nil
}

// replace атомарно подменяет файл новым содержимым.
func (f *fileStore) replace(data []byte) error {
	const op = "storage.replace"

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("%s: %v: %w", op, err, ErrStoreUnavailable)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%s: %v: %w", op, err, ErrStoreUnavailable)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%s: %v: %w", op, err, ErrStoreUnavailable)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%s: %v: %w", op, err, ErrStoreUnavailable)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%s: %v: %w", op, err, ErrStoreUnavailable)
	}
	return nil
}
