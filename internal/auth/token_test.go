package auth

import (
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func signTestToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func TestCheckWellFormed_ValidToken(t *testing.T) {
	token := signTestToken(t, jwt.MapClaims{"sub": "uid-1", "email": "a@example.com"})

	if err := CheckWellFormed(token); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestCheckWellFormed_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"two segments", "abc.def"},
		{"bad base64", "!!!.???.***"},
		{"missing subject", signTestToken(t, jwt.MapClaims{"email": "a@example.com"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckWellFormed(tt.token)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrMalformedToken) {
				t.Errorf("error = %v, want ErrMalformedToken", err)
			}
		})
	}
}
