// Package jwt реализует генерацию и парсинг JWT токенов с пользовательскими claim полями.
//
// Maker определяет интерфейс для создания и проверки токенов, несущих
// идентификатор пользователя. MakerImpl — конкретная реализация на
// секретном ключе HS256 и сроке жизни токена.
package jwt

import (
	"errors"
	"time"
)

// ErrMissingSecret возвращается, когда секретный ключ подписи не задан.
// Отсутствие секрета никогда не означает "пропустить проверку":
// вызывающая сторона обязана отклонить запрос.
var ErrMissingSecret = errors.New("jwt signing secret is not configured")

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	// GenerateToken создает токен с идентификатором пользователя в claims
	GenerateToken(userID string) (string, error)
	// ParseToken возвращает *CustomClaims с идентификатором пользователя
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
