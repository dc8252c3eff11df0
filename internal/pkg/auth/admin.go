// internal/pkg/auth/admin.go
package auth

import (
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/shopvn/storefront/internal/config"
)

// ErrInvalidCredentials hides which of email or password was wrong
var ErrInvalidCredentials = errors.New("invalid email or password")

// AdminAuthenticator checks the configured admin account
type AdminAuthenticator struct {
	config    *config.Config
	passwords *PasswordManager
	tokens    *JWTManager
}

// NewAdminAuthenticator creates an authenticator for the admin listing
func NewAdminAuthenticator(cfg *config.Config, passwords *PasswordManager, tokens *JWTManager) *AdminAuthenticator {
	return &AdminAuthenticator{
		config:    cfg,
		passwords: passwords,
		tokens:    tokens,
	}
}

// Login returns an admin access token for valid credentials
func (a *AdminAuthenticator) Login(email, password string) (string, time.Time, error) {
	if a.config.Admin.PasswordHash == "" {
		return "", time.Time{}, ErrInvalidCredentials
	}

	want := strings.ToLower(strings.TrimSpace(a.config.Admin.Email))
	got := strings.ToLower(strings.TrimSpace(email))
	emailOK := subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1

	// Always run bcrypt so timing does not reveal the email match
	passwordOK := a.passwords.VerifyPassword(password, a.config.Admin.PasswordHash) == nil
	if !emailOK || !passwordOK {
		return "", time.Time{}, ErrInvalidCredentials
	}

	return a.tokens.GenerateAccessToken(want, true)
}
