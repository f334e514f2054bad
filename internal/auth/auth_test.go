package auth

import (
	"errors"
	"testing"
	"time"
)

func newTestAuthenticator(t *testing.T, ttl time.Duration) *Authenticator {
	t.Helper()

	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	auth, err := NewAuthenticator([]byte("test-signing-secret"), []User{
		{Name: "analyst", PasswordHash: hash, Role: "viewer"},
	}, ttl)
	if err != nil {
		t.Fatalf("new authenticator: %v", err)
	}
	return auth
}

func TestAuthenticateRoundTrip(t *testing.T) {
	auth := newTestAuthenticator(t, time.Hour)

	token, err := auth.Authenticate("analyst", "s3cret")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}

	claims, err := auth.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "analyst" {
		t.Errorf("subject = %q, want analyst", claims.Subject)
	}
	if claims.Role != "viewer" {
		t.Errorf("role = %q, want viewer", claims.Role)
	}
	if claims.TokenID == "" {
		t.Error("token id missing")
	}
}

func TestAuthenticateRejectsBadCredentials(t *testing.T) {
	auth := newTestAuthenticator(t, time.Hour)

	cases := []struct {
		name     string
		user     string
		password string
	}{
		{"wrong password", "analyst", "wrong"},
		{"unknown user", "ghost", "s3cret"},
		{"empty password", "analyst", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := auth.Authenticate(tc.user, tc.password); !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	auth := newTestAuthenticator(t, time.Minute)

	issuedAt := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	auth.WithClock(func() time.Time { return issuedAt })

	token, err := auth.Authenticate("analyst", "s3cret")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	auth.WithClock(func() time.Time { return issuedAt.Add(2 * time.Minute) })
	if _, err := auth.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	auth := newTestAuthenticator(t, time.Hour)

	token, err := auth.Authenticate("analyst", "s3cret")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := auth.Verify(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for tampered token, got %v", err)
	}

	other := newTestAuthenticator(t, time.Hour)
	other.secret = []byte("a-different-secret")
	if _, err := other.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken across secrets, got %v", err)
	}
}

func TestNewAuthenticatorValidation(t *testing.T) {
	hash, err := HashPassword("pw")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	if _, err := NewAuthenticator(nil, nil, time.Hour); err == nil {
		t.Error("expected error for empty secret")
	}
	if _, err := NewAuthenticator([]byte("s"), []User{{Name: "", PasswordHash: hash}}, time.Hour); err == nil {
		t.Error("expected error for nameless user")
	}
	if _, err := NewAuthenticator([]byte("s"), []User{
		{Name: "a", PasswordHash: hash},
		{Name: "a", PasswordHash: hash},
	}, time.Hour); err == nil {
		t.Error("expected error for duplicate user")
	}
}
