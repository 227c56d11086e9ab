package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/19wintersp/VectorAudio/internal/adapter"
)

var (
	// ErrMalformedToken indicates the token could not be parsed locally.
	ErrMalformedToken = errors.New("auth token malformed")

	// ErrTokenExpired indicates the token expiry lies in the past.
	ErrTokenExpired = errors.New("auth token expiry in the past")
)

// TokenInfo holds the claims the client cares about.
type TokenInfo struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// InspectToken parses a session token without verifying its signature (the
// client holds no key for it) and checks its expiry against now.
func InspectToken(raw string, now time.Time) (*TokenInfo, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: empty token", ErrMalformedToken)
	}

	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	if claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing exp claim", ErrMalformedToken)
	}

	info := &TokenInfo{
		Subject:   claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}

	if !now.Before(info.ExpiresAt) {
		return info, fmt.Errorf("%w: expired at %s", ErrTokenExpired, info.ExpiresAt.UTC().Format(time.RFC3339))
	}

	return info, nil
}

// APIErrorFor maps an InspectToken failure to the session error the engine raises.
func APIErrorFor(err error) adapter.APIErrorCode {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrTokenExpired):
		return adapter.APIErrorAuthTokenExpiryTimeInPast
	default:
		return adapter.APIErrorInvalidAuthToken
	}
}

// NewSessionToken issues an HS256 token for subject, valid for ttl from issued.
// Loopback engines and tests use it in place of the AFV API.
func NewSessionToken(subject string, issued time.Time, ttl time.Duration, secret []byte) (string, error) {
	if len(secret) == 0 {
		return "", fmt.Errorf("token secret cannot be empty")
	}

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(issued),
		NotBefore: jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(issued.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}
