package auth

import (
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/quotebook/backend/internal/infrastructure/config"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for any failed login
var ErrInvalidCredentials = errors.New("invalid username or password")

// dummyHash is compared against when the username is wrong so that both
// failure paths cost one bcrypt comparison
var dummyHash = []byte("$2a$10$7EqJtq98hPqEX7fNZaFWoOa6c0ShX4PRtSGyzGkwH8yzsLFhHn3PK")

// AdminCredentials checks the configured administrator username and bcrypt hash
type AdminCredentials struct {
	username     string
	passwordHash []byte
}

// NewAdminCredentials creates a checker. With no hash configured every login fails.
func NewAdminCredentials(cfg config.AdminConfig) *AdminCredentials {
	return &AdminCredentials{
		username:     strings.TrimSpace(cfg.Username),
		passwordHash: []byte(cfg.PasswordHash),
	}
}

// Verify returns nil when username and password match
func (c *AdminCredentials) Verify(username, password string) error {
	if len(c.passwordHash) == 0 {
		return ErrInvalidCredentials
	}
	userOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(username)), []byte(c.username)) == 1

	hash := c.passwordHash
	if !userOK {
		hash = dummyHash
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil || !userOK {
		return ErrInvalidCredentials
	}
	return nil
}

// HashPassword returns a bcrypt hash suitable for admin.password_hash
func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", errors.New("password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
