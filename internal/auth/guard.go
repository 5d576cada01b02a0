package auth

import (
	"fmt"

	"github.com/magabrotheeeer/certificate-vault/internal/models"
)

// Authorize решает, может ли принципал получить содержимое записи.
// Единственное правило авторизации в системе — сравнение идентификатора
// принципала с полем владельца записи.
//
// DENY — один путь кода для всех случаев: принципал отсутствует, запись
// отсутствует, владелец не совпал. Проверка обязана выполняться до того,
// как наружу уйдет любой фрагмент записи, включая байты изображения.
func Authorize(p *Principal, cert *models.Certificate) error {
	const op = "auth.Authorize"

	if p == nil || p.UserID == "" || cert == nil || p.UserID != cert.UserID {
		return fmt.Errorf("%s: %w", op, ErrAccessDenied)
	}
	return nil
}
