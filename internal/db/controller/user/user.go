// Package user provides the account store: seed-account bootstrap,
// active-only lookups and credential verification.
package user

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/config"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/db/models"
)

const whereActiveUsername = "username = ? AND active = ?"

// Identity is the immutable value carried by an authenticated session.
// It is built exclusively by the account store so every login/rehydration
// site shares one construction path.
type Identity struct {
	ID       uint64
	Username string
	Role     models.Role
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == models.RoleAdmin
}

// Store provides account lookups and credential verification.
type Store struct {
	db  *gorm.DB
	cfg *config.Config
}

// New creates an account store.
func New(db *gorm.DB, cfg *config.Config) (*Store, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	return &Store{db: db, cfg: cfg}, nil
}

// Bootstrap idempotently ensures the two seed accounts exist. Existing
// accounts are never touched, so repeated calls neither duplicate rows
// nor reset password hashes.
func (s *Store) Bootstrap() error {
	var bootstrap config.Bootstrap
	if s.cfg != nil {
		bootstrap = s.cfg.Bootstrap
	}

	if err := s.ensureSeedAccount("admin", "admin@servicedesk.local", models.RoleAdmin, bootstrap.AdminPassword); err != nil {
		return err
	}

	return s.ensureSeedAccount("staff", "staff@servicedesk.local", models.RoleStaff, bootstrap.StaffPassword)
}

func (s *Store) ensureSeedAccount(username, email string, role models.Role, password string) error {
	var existing models.User

	err := s.db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil // already seeded
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check seed account %s: %w", username, err)
	}

	// No password-looking defaults ship in config. If none is set, a
	// random one is generated and logged exactly once, at creation.
	if password == "" {
		generated, randErr := randomPassword()
		if randErr != nil {
			return fmt.Errorf("failed to generate password for seed account %s: %w", username, randErr)
		}

		password = generated

		log.Warn().
			Str("username", username).
			Str("password", password).
			Msg("no bootstrap password configured, generated one (shown only once)")
	}

	user := models.User{
		Active:   true,
		Username: username,
		Email:    email,
		Password: models.HashPassword(password),
		Role:     role,
	}

	if err := s.db.Create(&user).Error; err != nil {
		return fmt.Errorf("failed to create seed account %s: %w", username, err)
	}

	log.Info().Str("username", username).Str("role", string(role)).Msg("seed account created")

	return nil
}

func randomPassword() (string, error) {
	b := make([]byte, 16) //nolint:mnd
	if _, err := rand.Read(b); err != nil {
		return "", err //nolint:wrapcheck
	}

	return hex.EncodeToString(b), nil
}

// FindByUsername returns the active account with the given username.
// Inactive accounts are invisible: ErrUserNotFound either way.
func (s *Store) FindByUsername(username string) (*models.User, error) {
	var user models.User

	err := s.db.Where(whereActiveUsername, username, true).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}

// FindByID returns the active account with the given id. It is the
// rehydration path for session identities; a deactivated or deleted
// account turns the session anonymous.
func (s *Store) FindByID(id uint64) (*models.User, error) {
	var user models.User

	err := s.db.Where("id = ? AND active = ?", id, true).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}

// VerifyCredentials checks a username/plaintext password pair. Unknown
// user, inactive account and wrong password all yield
// ErrInvalidCredentials so the caller cannot enumerate accounts.
func (s *Store) VerifyCredentials(username, password string) (*models.User, error) {
	user, err := s.FindByUsername(username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	if !user.VerifyPassword(password) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// Identity builds the session identity value for an account.
func (s *Store) Identity(u *models.User) Identity {
	return Identity{
		ID:       u.ID,
		Username: u.Username,
		Role:     u.Role,
	}
}
