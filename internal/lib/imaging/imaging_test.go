package imaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader — минимальная сигнатура PNG, достаточная для определения content type.
var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

func TestDecode_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		ct   string
	}{
		{
			name: "png изображение",
			raw:  pngHeader,
			ct:   "image/png",
		},
		{
			name: "jpeg изображение",
			raw:  []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00},
			ct:   "image/jpeg",
		},
		{
			name: "неопознанные байты считаются png",
			raw:  []byte{0x01, 0x02, 0x03, 0x04},
			ct:   "image/png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := Encode(tt.raw)

			got, ct, err := Decode(payload)
			require.NoError(t, err)
			assert.Equal(t, tt.raw, got, "decode must reproduce the original bytes exactly")
			assert.Equal(t, tt.ct, ct)
		})
	}
}

func TestDecode_CorruptPayload(t *testing.T) {
	valid := Encode(pngHeader)

	tests := []struct {
		name    string
		payload string
	}{
		{name: "пустая строка", payload: ""},
		{name: "усечённая base64 строка", payload: valid[:len(valid)-1]},
		{name: "не base64 вовсе", payload: "@@@not-base64@@@"},
		{name: "base64 от пустого содержимого", payload: Encode(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, ct, err := Decode(tt.payload)
			require.ErrorIs(t, err, ErrCorruptImage)
			assert.Nil(t, raw)
			assert.Empty(t, ct)
		})
	}
}
