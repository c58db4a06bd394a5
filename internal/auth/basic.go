// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package auth

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// BasicAuthManager validates HTTP Basic credentials against a single
// configured admin account. The password is bcrypt-hashed once at startup so
// no plaintext survives initialization.
type BasicAuthManager struct {
	username     string
	passwordHash []byte
}

// NewBasicAuthManager hashes the configured password with cost 12.
func NewBasicAuthManager(username, password string) (*BasicAuthManager, error) {
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return &BasicAuthManager{
		username:     username,
		passwordHash: hash,
	}, nil
}

// ValidateCredentials checks an Authorization header value. Returns the
// username on success.
func (m *BasicAuthManager) ValidateCredentials(authHeader string) (string, error) {
	encoded, ok := strings.CutPrefix(authHeader, "Basic ")
	if !ok {
		return "", fmt.Errorf("invalid authorization header format")
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("failed to decode credentials")
	}

	username, password, found := strings.Cut(string(raw), ":")
	if !found {
		return "", fmt.Errorf("invalid credentials format")
	}

	// Constant-time username compare; bcrypt compare is timing-safe by
	// construction. Both comparisons always run.
	usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(m.username)) == 1
	passwordMatch := bcrypt.CompareHashAndPassword(m.passwordHash, []byte(password)) == nil
	if !(usernameMatch && passwordMatch) {
		return "", fmt.Errorf("invalid username or password")
	}
	return username, nil
}

// ValidateLogin checks a username/password pair directly, used by the login
// endpoint that exchanges credentials for a JWT.
func (m *BasicAuthManager) ValidateLogin(username, password string) error {
	usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(m.username)) == 1
	passwordMatch := bcrypt.CompareHashAndPassword(m.passwordHash, []byte(password)) == nil
	if !(usernameMatch && passwordMatch) {
		return fmt.Errorf("invalid username or password")
	}
	return nil
}

// WWWAuthenticateHeader is the challenge sent with 401 responses.
func (m *BasicAuthManager) WWWAuthenticateHeader() string {
	return `Basic realm="Vocatio", charset="UTF-8"`
}
