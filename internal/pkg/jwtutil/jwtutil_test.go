package jwtutil

import (
	"errors"
	"testing"
	"time"
)

const testSecret = "test-secret"

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken(testSecret, time.Hour, 42, "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := ParseToken(testSecret, token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Errorf("Username = %q, want alice", claims.Username)
	}
}

func TestGenerateTokenEmptySecret(t *testing.T) {
	if _, err := GenerateToken("", time.Hour, 1, "alice"); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestParseTokenExpired(t *testing.T) {
	token, err := GenerateToken(testSecret, -time.Minute, 1, "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = ParseToken(testSecret, token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("error = %v, want ErrTokenExpired", err)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(testSecret, time.Hour, 1, "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = ParseToken("other-secret", token)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("error = %v, want ErrTokenInvalid", err)
	}
}

func TestParseTokenMalformed(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"truncated", "eyJhbGciOiJIUzI1NiJ9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseToken(testSecret, tt.token)
			if !errors.Is(err, ErrTokenMalformed) {
				t.Errorf("error = %v, want ErrTokenMalformed", err)
			}
		})
	}
}
