package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"
)

const (
	keyLanguage = "language"
)

// SaveLanguage saves the preferred content language
func (s *Storage) SaveLanguage(ctx context.Context, lang string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		// Пустое значение сбрасывает выбор
		if lang == "" {
			return bucket.Delete([]byte(keyLanguage))
		}

		if err := bucket.Put([]byte(keyLanguage), []byte(lang)); err != nil {
			return fmt.Errorf("failed to save language: %w", err)
		}

		return nil
	})
}

// GetLanguage retrieves the preferred content language
// Returns "" if no language has been chosen yet
func (s *Storage) GetLanguage(ctx context.Context) (string, error) {
	var lang string

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		lang = string(bucket.Get([]byte(keyLanguage)))
		return nil
	})

	if err != nil {
		return "", fmt.Errorf("failed to get language: %w", err)
	}

	return lang, nil
}
