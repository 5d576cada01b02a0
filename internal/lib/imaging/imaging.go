// Package imaging выполняет кодирование и декодирование встроенных
// изображений сертификатов. Изображение хранится внутри JSON-записи
// в виде base64-строки; пакет превращает её обратно в байты и определяет
// content type по содержимому.
package imaging

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
)

// ErrCorruptImage возвращается, когда встроенная base64-строка
// не декодируется или пуста. Ошибка всегда возвращается, а не паникует.
var ErrCorruptImage = errors.New("corrupt image payload")

// Decode декодирует base64-строку во вложенные байты изображения и
// определяет content type по первым байтам. Пустая или повреждённая
// строка даёт ErrCorruptImage.
func Decode(payload string) ([]byte, string, error) {
	const op = "imaging.Decode"

	if payload == "" {
		return nil, "", fmt.Errorf("%s: empty payload: %w", op, ErrCorruptImage)
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %v: %w", op, err, ErrCorruptImage)
	}
	if len(raw) == 0 {
		return nil, "", fmt.Errorf("%s: empty image: %w", op, ErrCorruptImage)
	}
	return raw, sniffContentType(raw), nil
}

// Encode кодирует байты изображения в base64-строку для хранения внутри записи.
func Encode(raw []byte) string {
	return base64.StdEncoding.EncodeToString(raw)
}

// sniffContentType определяет content type по содержимому.
// Исторический формат хранения — PNG, поэтому для неопознанных
// байтов возвращается image/png.
func sniffContentType(raw []byte) string {
	ct := http.DetectContentType(raw)
	if ct == "application/octet-stream" || ct == "text/plain; charset=utf-8" {
		return "image/png"
	}
	return ct
}
