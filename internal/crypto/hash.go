package crypto

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ErrMalformedHash is returned when a stored digest cannot be parsed.
var ErrMalformedHash = errors.New("malformed argon2id hash")

// Argon2Hasher хеширует секреты (пароли и refresh token) через Argon2id.
// Результат кодируется в PHC формате:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>
//
// Параметры хранятся вместе с хешем, поэтому смена Params не ломает
// проверку уже сохраненных значений.
type Argon2Hasher struct {
	params Params
}

// NewArgon2Hasher creates a hasher with the given cost parameters.
func NewArgon2Hasher(params Params) (*Argon2Hasher, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid argon2 params: %w", err)
	}
	return &Argon2Hasher{params: params}, nil
}

// Hash derives a salted digest of plain.
func (h *Argon2Hasher) Hash(plain string) (string, error) {
	if plain == "" {
		return "", fmt.Errorf("secret cannot be empty")
	}

	salt, err := GenerateSalt(h.params.SaltLen)
	if err != nil {
		return "", err
	}

	key := argon2.IDKey([]byte(plain), salt, h.params.Time, h.params.Memory, h.params.Threads, h.params.KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory,
		h.params.Time,
		h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether plain matches the encoded digest.
// Сравнение выполняется за постоянное время.
func (h *Argon2Hasher) Verify(encoded, plain string) (bool, error) {
	params, salt, key, err := decodeHash(encoded)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey([]byte(plain), salt, params.Time, params.Memory, params.Threads, params.KeyLen)

	return subtle.ConstantTimeCompare(key, computed) == 1, nil
}

// decodeHash разбирает PHC строку на параметры, соль и ключ
func decodeHash(encoded string) (Params, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	if len(parts) != 6 || parts[1] != "argon2id" {
		return Params{}, nil, nil, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return Params{}, nil, nil, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
	if version != argon2.Version {
		return Params{}, nil, nil, fmt.Errorf("%w: unsupported version %d", ErrMalformedHash, version)
	}

	var params Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.Memory, &params.Time, &params.Threads); err != nil {
		return Params{}, nil, nil, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return Params{}, nil, nil, fmt.Errorf("%w: salt: %v", ErrMalformedHash, err)
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return Params{}, nil, nil, fmt.Errorf("%w: key: %v", ErrMalformedHash, err)
	}

	if len(salt) == 0 || len(key) == 0 {
		return Params{}, nil, nil, fmt.Errorf("%w: empty salt or key", ErrMalformedHash)
	}

	params.SaltLen = uint32(len(salt))
	params.KeyLen = uint32(len(key))

	// Нулевые m/t/p приводят к panic внутри argon2.IDKey
	if err := params.Validate(); err != nil {
		return Params{}, nil, nil, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}

	return params, salt, key, nil
}
