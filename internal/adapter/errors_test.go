package adapter

import (
	"errors"
	"testing"
)

func TestClassifyAPIError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected APIErrorCode
	}{
		{
			name:     "nil error has no code",
			err:      nil,
			expected: 0,
		},
		{
			name:     "401 maps to bad password",
			err:      errors.New("auth request failed: HTTP 401"),
			expected: APIErrorBadPassword,
		},
		{
			name:     "403 maps to rejected credentials",
			err:      errors.New("auth request failed: HTTP 403 Forbidden"),
			expected: APIErrorRejectedCredentials,
		},
		{
			name:     "400 maps to bad request",
			err:      errors.New("HTTP 400: client incompatible"),
			expected: APIErrorBadRequestOrClientIncompatible,
		},
		{
			name:     "expired token wins over unauthorized",
			err:      errors.New("unauthorized: token is expired"),
			expected: APIErrorAuthTokenExpiryTimeInPast,
		},
		{
			name:     "malformed token",
			err:      errors.New("token is malformed: could not base64 decode header"),
			expected: APIErrorInvalidAuthToken,
		},
		{
			name:     "socket failure maps to connection error",
			err:      errors.New("dial tcp: connection refused"),
			expected: APIErrorConnection,
		},
		{
			name:     "unknown maps to other request error",
			err:      errors.New("something odd"),
			expected: APIErrorOtherRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyAPIError(tt.err); got != tt.expected {
				t.Errorf("ClassifyAPIError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestAPIErrorFatality(t *testing.T) {
	for code, info := range APIErrors {
		recoverable := code == APIErrorBadPassword || code == APIErrorRejectedCredentials
		if info.Fatal == recoverable {
			t.Errorf("%s: Fatal = %t, want %t", code, info.Fatal, !recoverable)
		}
		if info.Message == "" {
			t.Errorf("%s: empty user message", code)
		}
	}
}

func TestUnknownAPIErrorCodeDescribesAsOther(t *testing.T) {
	code := APIErrorCode(99)
	if !code.Fatal() {
		t.Error("unknown code should be fatal")
	}
	if code.Info().Name != "OTHER_REQUEST_ERROR" {
		t.Errorf("unexpected info %q", code.Info().Name)
	}
	if code.String() != "APIErrorCode(99)" {
		t.Errorf("unexpected string %q", code.String())
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		event    Event
		expected string
	}{
		{VCCSReceived{Station: "LFPG_TWR", Stations: map[string]int{"LFPG_GND": 121800000}}, "vccs_received station=LFPG_TWR entries=1"},
		{RxClosed{Frequency: 118700000}, "rx_closed frequency=118700000"},
		{APISessionError{Code: APIErrorConnection}, "api_session_error code=CONNECTION_ERROR"},
		{AudioError{}, "audio_error"},
		{AudioDeviceStopped{Device: "Headset"}, `audio_device_stopped device="Headset"`},
		{nil, "<nil>"},
	}

	for _, tt := range tests {
		if got := Describe(tt.event); got != tt.expected {
			t.Errorf("Describe() = %q, want %q", got, tt.expected)
		}
	}
}
