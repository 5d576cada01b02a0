// Package models содержит доменную модель пользователя системы.
// Структура используется в бизнес‑логике и при работе с хранилищем.
package models

// User представляет запись пользователя в таблице users.
// Запись создаётся внешним сервисом регистрации; здесь она только читается,
// кроме флага Verified и одноразового VerificationToken, которые меняет
// процесс подтверждения почты. Поле Password — непрозрачный хеш пароля,
// принадлежащий внешнему провайдеру учётных данных.
type User struct {
	ID                string `json:"id" validate:"required"`
	Email             string `json:"email" validate:"required,email"` // Уникальный ключ для поиска по cookie
	Name              string `json:"name"`
	Password          string `json:"password,omitempty"`
	Verified          bool   `json:"verified"`
	VerificationToken string `json:"verificationToken,omitempty"` // Одноразовый токен, удаляется после использования
	VIPSubscription   bool   `json:"vip_subscription,omitempty"`
}
