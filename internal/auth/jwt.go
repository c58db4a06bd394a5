// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/vocatio/internal/config"
)

// Claims are the JWT claims carried by Vocatio tokens.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// JWTManager creates and validates HS256 tokens.
type JWTManager struct {
	secret  []byte
	timeout time.Duration
}

// NewJWTManager builds a manager from the security config. The secret length
// is enforced by config.Validate; an empty secret is still rejected here so
// the manager cannot be constructed unsigned.
func NewJWTManager(cfg *config.SecurityConfig) (*JWTManager, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	timeout := cfg.SessionTimeout
	if timeout <= 0 {
		timeout = 24 * time.Hour
	}

	return &JWTManager{
		secret:  []byte(cfg.JWTSecret),
		timeout: timeout,
	}, nil
}

// GenerateToken signs a token for an authenticated user.
func (m *JWTManager) GenerateToken(username, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.timeout)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a token. Only HMAC signing methods are
// accepted, guarding against algorithm confusion.
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// SessionTimeout reports the configured token lifetime.
func (m *JWTManager) SessionTimeout() time.Duration {
	return m.timeout
}
