// Package models содержит доменные структуры сертификата достижения,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// Certificate представляет собой запись о выданном сертификате.
// Поле UserID — идентификатор владельца, неизменяемый после выдачи
// и единственный ключ авторизации. Записи не обновляются и не удаляются.
type Certificate struct {
	ID        string  `json:"id" validate:"required"`        // Уникальный идентификатор, генерируется при выдаче
	UserID    string  `json:"userId" validate:"required"`    // Идентификатор пользователя-владельца
	FirstName string  `json:"firstName" validate:"required"` // Имя получателя
	LastName  string  `json:"lastName" validate:"required"`  // Фамилия получателя
	Date      string  `json:"date" validate:"required"`      // Дата выдачи
	Score     float64 `json:"score"`                         // Итоговый балл
	ImageURL  string  `json:"imageUrl,omitempty"`            // Внешняя ссылка на изображение (опционально)
	ImageData string  `json:"imageData,omitempty"`           // Встроенное изображение в base64 (опционально)
}

// DummyCertificate используется для приёма данных о новом сертификате
// из JSON-запроса до их валидации и генерации идентификатора.
type DummyCertificate struct {
	UserID    string  `json:"userId" validate:"required"`
	FirstName string  `json:"firstName" validate:"required"`
	LastName  string  `json:"lastName" validate:"required"`
	Date      string  `json:"date" validate:"required"`
	Score     float64 `json:"score" validate:"gte=0"`
	ImageURL  string  `json:"imageUrl,omitempty" validate:"omitempty,url"`
	ImageData string  `json:"imageData,omitempty" validate:"omitempty,base64"`
}

// CertificateIssuedEvent — сообщение о выдаче сертификата,
// публикуемое в очередь для внешних потребителей (уведомления и т.п.).
type CertificateIssuedEvent struct {
	CertificateID string    `json:"certificate_id"`
	UserID        string    `json:"user_id"`
	IssuedAt      time.Time `json:"issued_at"`
}
