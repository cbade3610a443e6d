package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
)

// GenerateOverBytesUnderRunes генерирует строку, длина которой в рунах будет всегда меньше длины в байтах.
func GenerateOverBytesUnderRunes(count int) string {
	symbol := "😁" // 4 байта, 1 руна
	return strings.Repeat(symbol, count)
}

// JSONBody кодирует v в тело запроса. Паникует на значениях, которые нельзя закодировать.
func JSONBody(v any) io.Reader {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return bytes.NewReader(raw)
}

// DecodeBody читает json тело ответа в map.
func DecodeBody(r io.Reader) (map[string]any, error) {
	var body map[string]any
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return nil, err //nolint:wrapcheck
	}
	return body, nil
}
