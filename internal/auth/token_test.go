package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/19wintersp/VectorAudio/internal/adapter"
)

var testSecret = []byte("test-secret-key")

func TestInspectToken(t *testing.T) {
	issued := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	valid, err := NewSessionToken("1234567", issued, time.Hour, testSecret)
	if err != nil {
		t.Fatalf("NewSessionToken() failed: %v", err)
	}

	tests := []struct {
		name    string
		token   string
		now     time.Time
		wantErr error
	}{
		{
			name:  "valid token",
			token: valid,
			now:   issued.Add(10 * time.Minute),
		},
		{
			name:    "expired token",
			token:   valid,
			now:     issued.Add(2 * time.Hour),
			wantErr: ErrTokenExpired,
		},
		{
			name:    "expiry exactly now is expired",
			token:   valid,
			now:     issued.Add(time.Hour),
			wantErr: ErrTokenExpired,
		},
		{
			name:    "garbage",
			token:   "not-a-jwt",
			now:     issued,
			wantErr: ErrMalformedToken,
		},
		{
			name:    "empty",
			token:   "  ",
			now:     issued,
			wantErr: ErrMalformedToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := InspectToken(tt.token, tt.now)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("InspectToken() error = %v", err)
				}
				if info.Subject != "1234567" {
					t.Errorf("Subject = %q, want 1234567", info.Subject)
				}
				if left := info.ExpiresAt.Sub(tt.now); left != 50*time.Minute {
					t.Errorf("ExpiresAt leaves %v, want 50m", left)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("InspectToken() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestInspectTokenMissingExpiry(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "1234567"}).SignedString(testSecret)
	if err != nil {
		t.Fatalf("SignedString() failed: %v", err)
	}

	if _, err := InspectToken(raw, time.Now()); !errors.Is(err, ErrMalformedToken) {
		t.Errorf("expected ErrMalformedToken, got %v", err)
	}
}

func TestAPIErrorFor(t *testing.T) {
	if got := APIErrorFor(nil); got != 0 {
		t.Errorf("APIErrorFor(nil) = %v", got)
	}
	if got := APIErrorFor(ErrTokenExpired); got != adapter.APIErrorAuthTokenExpiryTimeInPast {
		t.Errorf("APIErrorFor(expired) = %v", got)
	}
	if got := APIErrorFor(ErrMalformedToken); got != adapter.APIErrorInvalidAuthToken {
		t.Errorf("APIErrorFor(malformed) = %v", got)
	}
}

func TestNewSessionTokenRequiresSecret(t *testing.T) {
	if _, err := NewSessionToken("1", time.Now(), time.Hour, nil); err == nil {
		t.Error("expected error for empty secret")
	}
}
