// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package auth

import (
	"encoding/base64"
	"testing"
)

func basicHeader(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

func TestNewBasicAuthManager_Validation(t *testing.T) {
	t.Parallel()

	if _, err := NewBasicAuthManager("", "password123"); err == nil {
		t.Error("empty username accepted")
	}
	if _, err := NewBasicAuthManager("admin", "short"); err == nil {
		t.Error("short password accepted")
	}
}

func TestValidateCredentials(t *testing.T) {
	t.Parallel()

	m, err := NewBasicAuthManager("admin", "correct-horse")
	if err != nil {
		t.Fatalf("NewBasicAuthManager: %v", err)
	}

	tests := []struct {
		name    string
		header  string
		wantErr bool
	}{
		{"valid", basicHeader("admin", "correct-horse"), false},
		{"wrong password", basicHeader("admin", "battery-staple"), true},
		{"wrong username", basicHeader("root", "correct-horse"), true},
		{"not basic", "Bearer abc", true},
		{"bad base64", "Basic !!!", true},
		{"no colon", "Basic " + base64.StdEncoding.EncodeToString([]byte("admincorrect-horse")), true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			username, err := m.ValidateCredentials(tt.header)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if username != "admin" {
				t.Errorf("username = %q", username)
			}
		})
	}
}

func TestValidateLogin(t *testing.T) {
	t.Parallel()

	m, err := NewBasicAuthManager("admin", "correct-horse")
	if err != nil {
		t.Fatalf("NewBasicAuthManager: %v", err)
	}

	if err := m.ValidateLogin("admin", "correct-horse"); err != nil {
		t.Errorf("valid login rejected: %v", err)
	}
	if err := m.ValidateLogin("admin", "wrong"); err == nil {
		t.Error("wrong password accepted")
	}
	if err := m.ValidateLogin("other", "correct-horse"); err == nil {
		t.Error("wrong username accepted")
	}
}
