package crypto

import (
	"crypto/rand"
	"fmt"
)

// Params описывает стоимость Argon2id
type Params struct {
	Time    uint32 // количество итераций (time cost)
	Memory  uint32 // объем памяти в KiB
	Threads uint8  // количество параллельных потоков
	KeyLen  uint32 // длина выходного ключа в байтах
	SaltLen uint32 // длина соли в байтах
}

// Параметры Argon2id по умолчанию
const (
	// Argon2Time - количество итераций (time cost)
	Argon2Time = 1
	// Argon2Memory - объем памяти в KB (64MB = 64*1024 KB)
	Argon2Memory = 64 * 1024
	// Argon2Threads - количество параллельных потоков
	Argon2Threads = 4
	// Argon2KeyLen - длина выходного ключа в байтах
	Argon2KeyLen = 32
	// SaltSize - размер соли в байтах
	SaltSize = 16
)

// DefaultParams returns the production Argon2id parameters.
func DefaultParams() Params {
	return Params{
		Time:    Argon2Time,
		Memory:  Argon2Memory,
		Threads: Argon2Threads,
		KeyLen:  Argon2KeyLen,
		SaltLen: SaltSize,
	}
}

// Validate rejects parameter sets argon2 cannot work with.
func (p Params) Validate() error {
	if p.Time == 0 {
		return fmt.Errorf("argon2 time must be positive")
	}
	if p.Memory < 8*uint32(p.Threads) {
		return fmt.Errorf("argon2 memory must be at least 8 KiB per thread")
	}
	if p.Threads == 0 {
		return fmt.Errorf("argon2 threads must be positive")
	}
	if p.KeyLen < 16 {
		return fmt.Errorf("argon2 key length must be at least 16 bytes")
	}
	if p.SaltLen < 8 {
		return fmt.Errorf("argon2 salt length must be at least 8 bytes")
	}
	return nil
}

// GenerateSalt генерирует криптографически случайную соль указанного размера
func GenerateSalt(size uint32) ([]byte, error) {
	salt := make([]byte, size)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}
