package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Localized хранит локализованное поле как исходный JSON объект
// вида {"uz": "...", "ru": "...", "en": "..."}.
// Байты сохраняются как есть, чтобы не терять порядок ключей.
type Localized json.RawMessage

// NewLocalized builds a Localized value from ordered language/value pairs.
// Pairs are written in the order given.
func NewLocalized(pairs ...string) Localized {
	if len(pairs)%2 != 0 {
		panic("models: NewLocalized expects language/value pairs")
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := 0; i < len(pairs); i += 2 {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(pairs[i])
		val, _ := json.Marshal(pairs[i+1])
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')

	return Localized(buf.Bytes())
}

// IsZero reports whether the field holds no JSON at all.
func (l Localized) IsZero() bool {
	return len(bytes.TrimSpace(l)) == 0
}

// Map decodes the field into a plain map. Key order is not preserved.
func (l Localized) Map() (map[string]string, error) {
	if l.IsZero() {
		return nil, nil
	}

	var m map[string]string
	if err := json.Unmarshal(l, &m); err != nil {
		return nil, fmt.Errorf("failed to decode localized field: %w", err)
	}
	return m, nil
}

// MarshalJSON returns the raw JSON object.
func (l Localized) MarshalJSON() ([]byte, error) {
	if l.IsZero() {
		return []byte("null"), nil
	}
	return l, nil
}

// UnmarshalJSON stores a copy of the raw JSON value.
func (l *Localized) UnmarshalJSON(data []byte) error {
	if l == nil {
		return fmt.Errorf("models: UnmarshalJSON on nil Localized")
	}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*l = nil
		return nil
	}
	*l = append(Localized(nil), data...)
	return nil
}

// Value implements driver.Valuer; the field is stored as JSON text.
func (l Localized) Value() (driver.Value, error) {
	if l.IsZero() {
		return nil, nil
	}
	return string(l), nil
}

// Scan implements sql.Scanner.
func (l *Localized) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = nil
	case string:
		*l = Localized(v)
	case []byte:
		*l = append(Localized(nil), v...)
	default:
		return fmt.Errorf("models: cannot scan %T into Localized", src)
	}
	return nil
}
