// Package auth разрешает входящие учётные данные запроса в принципала
// и принимает решение о доступе к записям сертификатов.
//
// Существуют два независимых пути аутентификации с разным уровнем доверия,
// и они намеренно не сливаются в один булев флаг "аутентифицирован":
//
//   - Сессионный путь (TrustSession): email из cookie и поиск по таблице
//     пользователей, без какой-либо криптографической проверки. Целостность
//     cookie — граничное допущение вышестоящего сессионного слоя. Подходит
//     только для best-effort фильтрующих выдач.
//   - Токенный путь (TrustToken): JWT, проверенный подписью на общем секрете.
//     Единственный путь, пригодный для конечных точек с сильными гарантиями
//     (например, выдача байтов изображения).
//
// Каждая конечная точка объявляет минимальный уровень доверия, который
// она принимает.
package auth

import "errors"

var (
	// ErrUnauthenticated — запрос не предъявил ни одной учётной записи
	// либо cookie-сессия не разрешилась в пользователя.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidToken — токен предъявлен, но не прошёл проверку
	// (плохая подпись, истёк, искажён).
	ErrInvalidToken = errors.New("invalid token")
	// ErrAccessDenied — принципал отсутствует, запись чужая или записи нет.
	// Все три случая наружу неразличимы, чтобы не раскрывать существование
	// чужих записей.
	ErrAccessDenied = errors.New("access denied")
)

// TrustLevel — уровень доверия, с которым был разрешён принципал.
type TrustLevel int

const (
	// TrustNone — принципал не разрешён.
	TrustNone TrustLevel = iota
	// TrustSession — слабое доверие: cookie без криптографической проверки.
	TrustSession
	// TrustToken — сильное доверие: криптографически проверенный токен.
	TrustToken
)

func (t TrustLevel) String() string {
	switch t {
	case TrustSession:
		return "session"
	case TrustToken:
		return "token"
	default:
		return "none"
	}
}

// Principal — аутентифицированная личность, разрешённая из учётных данных
// запроса, вместе с уровнем доверия пути, которым она получена.
type Principal struct {
	UserID string
	Trust  TrustLevel
}
