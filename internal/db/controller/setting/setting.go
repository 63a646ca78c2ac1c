// Package setting provides the settings store: idempotent default
// seeding, plain and effective reads, and writes with selective at-rest
// encryption for sensitive keys.
package setting

import (
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/db/models"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/secrets"
)

const (
	keyQueryPattern = "key = ?"
)

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrSettingKeyEmpty is returned when a key argument is empty.
	ErrSettingKeyEmpty = errors.New("setting key cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrBoxNil is returned when no secrets box was provided.
	ErrBoxNil = errors.New("secrets box is nil")
)

// Store provides settings persistence with selective encryption.
type Store struct {
	db  *gorm.DB
	box *secrets.Box
}

// New creates a settings store. The box encrypts values of sensitive
// keys before they are persisted.
func New(db *gorm.DB, box *secrets.Box) (*Store, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if box == nil {
		return nil, ErrBoxNil
	}

	return &Store{db: db, box: box}, nil
}

// BootstrapDefaults seeds the default settings with insert-if-absent
// semantics. A key that already exists is never overwritten, so repeated
// calls on process start are safe.
func (s *Store) BootstrapDefaults() error {
	for _, def := range Defaults() {
		var existing models.Setting

		err := s.db.Where(keyQueryPattern, def.Key).First(&existing).Error
		if err == nil {
			continue // present, leave untouched
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		value := def.Value
		if IsSensitive(def.Key) {
			sealed, sealErr := s.box.Seal(value)
			if sealErr != nil {
				return sealErr
			}

			value = sealed
		}

		if err := s.db.Create(&models.Setting{
			Key:         def.Key,
			Value:       value,
			Description: def.Description,
		}).Error; err != nil {
			return err
		}
	}

	return nil
}

// Get retrieves the raw stored value for a key, without decryption.
func (s *Store) Get(key string) (string, error) {
	setting, err := s.fetch(key)
	if err != nil {
		return "", err
	}

	return setting.Value, nil
}

// GetEffective retrieves the usable value for a key. For sensitive keys
// the stored ciphertext is decrypted; a value that cannot be decrypted
// degrades to an empty string with a logged warning, never an error.
func (s *Store) GetEffective(key string) (string, error) {
	raw, err := s.Get(key)
	if err != nil {
		return "", err
	}

	if !IsSensitive(key) {
		return raw, nil
	}

	plaintext, err := s.box.Open(raw)
	if err != nil {
		log.Warn().Str("key", key).Msg("stored setting value cannot be decrypted, treating as empty")
		return "", nil
	}

	return plaintext, nil
}

// Set overwrites the value of an existing key, encrypting first for
// sensitive keys. It is update-only: callers configure pre-seeded keys,
// so an absent key is ErrSettingNotFound rather than an insert.
func (s *Store) Set(key, value string) error {
	setting, err := s.fetch(key)
	if err != nil {
		return err
	}

	if IsSensitive(key) {
		sealed, sealErr := s.box.Seal(value)
		if sealErr != nil {
			return sealErr
		}

		value = sealed
	}

	setting.Value = value

	return s.db.Save(setting).Error
}

// ListAll retrieves all settings ordered by key ascending. Values of
// sensitive keys stay in their stored (encrypted) form.
func (s *Store) ListAll() ([]models.Setting, error) {
	var settings []models.Setting

	result := s.db.Order("key ASC").Find(&settings)
	if result.Error != nil {
		return nil, result.Error
	}

	return settings, nil
}

func (s *Store) fetch(key string) (*models.Setting, error) {
	if key == "" {
		return nil, ErrSettingKeyEmpty
	}

	var setting models.Setting

	result := s.db.Where(keyQueryPattern, key).First(&setting)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}

		return nil, result.Error
	}

	return &setting, nil
}
