// Package auth provides password verification and JWT session tokens for
// the API. Users and the signing secret are injected from configuration at
// startup, never embedded in source.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenIssuer = "analytics.simlane.ai"

var (
	// ErrInvalidCredentials covers unknown users and wrong passwords alike,
	// so responses do not reveal which one failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken covers malformed, expired, and mis-signed tokens.
	ErrInvalidToken = errors.New("invalid token")
)

// User is an API account loaded from configuration.
type User struct {
	Name         string
	PasswordHash string
	Role         string
}

// Claims are the verified contents of a session token.
type Claims struct {
	Subject   string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// Authenticator verifies passwords and issues signed session tokens.
type Authenticator struct {
	secret []byte
	users  map[string]User
	ttl    time.Duration
	now    func() time.Time
}

// NewAuthenticator builds an Authenticator over the given users. A
// non-positive ttl falls back to one hour.
func NewAuthenticator(secret []byte, users []User, ttl time.Duration) (*Authenticator, error) {
	if len(secret) == 0 {
		return nil, errors.New("auth secret is required")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}

	index := make(map[string]User, len(users))
	for _, u := range users {
		name := strings.TrimSpace(u.Name)
		if name == "" || u.PasswordHash == "" {
			return nil, fmt.Errorf("user entry missing name or password hash")
		}
		if _, exists := index[name]; exists {
			return nil, fmt.Errorf("duplicate user %q", name)
		}
		index[name] = u
	}

	return &Authenticator{
		secret: secret,
		users:  index,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// WithClock overrides the wall clock. Intended for tests.
func (a *Authenticator) WithClock(now func() time.Time) *Authenticator {
	a.now = now
	return a
}

// HashPassword derives a bcrypt hash suitable for a configured User.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Authenticate checks a name/password pair and issues a session token.
func (a *Authenticator) Authenticate(name, password string) (string, error) {
	user, ok := a.users[strings.TrimSpace(name)]
	if !ok {
		// Burn a comparison anyway so lookup misses take as long as
		// password mismatches.
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$0000000000000000000000uGZwTEvxCfEjSIdhrptmcyHNzBrvjVO"), []byte(password))
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return a.issue(user)
}

func (a *Authenticator) issue(user User) (string, error) {
	now := a.now().UTC()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   user.Name,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
		Role: user.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a session token.
func (a *Authenticator) Verify(token string) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, ErrInvalidToken
	}

	var parsed sessionClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(func() time.Time { return a.now().UTC() }),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if parsed.Subject == "" || parsed.ExpiresAt == nil {
		return Claims{}, ErrInvalidToken
	}

	return Claims{
		Subject:   parsed.Subject,
		Role:      parsed.Role,
		TokenID:   parsed.ID,
		ExpiresAt: parsed.ExpiresAt.Time.UTC(),
	}, nil
}

// TokenTTL reports the configured session lifetime.
func (a *Authenticator) TokenTTL() time.Duration {
	return a.ttl
}
