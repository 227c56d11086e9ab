package adapter

import (
	"errors"
	"fmt"
	"strings"
)

// APIErrorCode is the normalized AFV API session failure.
type APIErrorCode int

const (
	APIErrorBadPassword APIErrorCode = iota + 1
	APIErrorRejectedCredentials
	APIErrorConnection
	APIErrorBadRequestOrClientIncompatible
	APIErrorInvalidAuthToken
	APIErrorAuthTokenExpiryTimeInPast
	APIErrorOtherRequest
)

// ErrEngineClosed is returned by Close on an engine already closed.
var ErrEngineClosed = errors.New("engine closed")

// APIErrorInfo describes how a session failure is surfaced.
type APIErrorInfo struct {
	Name string
	// Message is shown to the user.
	Message string
	// LogLine is written to the process log.
	LogLine string
	// Fatal failures tear the session down and raise the alarm.
	Fatal bool
}

// APIErrors is the deterministic description table for every APIErrorCode.
var APIErrors = map[APIErrorCode]APIErrorInfo{
	APIErrorBadPassword: {
		Name:    "BAD_PASSWORD",
		Message: "Could not login to VATSIM.\nInvalid Credentials.\nCheck your password/cid!",
		LogLine: "Got invalid credential errors from AFV API: HTTP 403 or 401",
	},
	APIErrorRejectedCredentials: {
		Name:    "REJECTED_CREDENTIALS",
		Message: "Could not login to VATSIM.\nInvalid Credentials.\nCheck your password/cid!",
		LogLine: "Got invalid credential errors from AFV API: HTTP 403 or 401",
	},
	APIErrorConnection: {
		Name:    "CONNECTION_ERROR",
		Message: "Could not login to VATSIM.\nConnection Error.\nCheck your internet connection.",
		LogLine: "Got connection error from AFV API: local socket or transport error",
		Fatal:   true,
	},
	APIErrorBadRequestOrClientIncompatible: {
		Name:    "BAD_REQUEST_OR_CLIENT_INCOMPATIBLE",
		Message: "Could not login to VATSIM.\nBad Request or Client Incompatible.",
		LogLine: "Got connection error from AFV API: HTTP 400 - Bad Request or Client Incompatible",
		Fatal:   true,
	},
	APIErrorInvalidAuthToken: {
		Name:    "INVALID_AUTH_TOKEN",
		Message: "Could not login to VATSIM.\nInvalid Auth Token.",
		LogLine: "Got connection error from AFV API: Invalid Auth Token Local Parse Error",
		Fatal:   true,
	},
	APIErrorAuthTokenExpiryTimeInPast: {
		Name:    "AUTH_TOKEN_EXPIRED",
		Message: "Could not login to VATSIM.\nAuth Token has expired.\nCheck your system clock.",
		LogLine: "Got connection error from AFV API: Auth Token Expiry in the past",
		Fatal:   true,
	},
	APIErrorOtherRequest: {
		Name:    "OTHER_REQUEST_ERROR",
		Message: "Could not login to VATSIM.\nUnknown Error.",
		LogLine: "Got connection error from AFV API: Unknown Error",
		Fatal:   true,
	},
}

// Info returns the table entry for the code. Unknown codes describe as
// APIErrorOtherRequest.
func (c APIErrorCode) Info() APIErrorInfo {
	if info, ok := APIErrors[c]; ok {
		return info
	}
	return APIErrors[APIErrorOtherRequest]
}

// Fatal reports whether the failure requires tearing the session down.
func (c APIErrorCode) Fatal() bool {
	return c.Info().Fatal
}

func (c APIErrorCode) String() string {
	if info, ok := APIErrors[c]; ok {
		return info.Name
	}
	return fmt.Sprintf("APIErrorCode(%d)", int(c))
}

// apiErrorTokens maps backend error tokens to codes. Order matters: the first
// table with a matching token wins.
var apiErrorTokens = []struct {
	code   APIErrorCode
	tokens []string
}{
	{APIErrorAuthTokenExpiryTimeInPast, []string{"TOKEN EXPIRED", "TOKEN IS EXPIRED", "EXPIRY IN THE PAST"}},
	{APIErrorInvalidAuthToken, []string{"TOKEN MALFORMED", "INVALID TOKEN", "TOKEN IS MALFORMED", "TOKEN UNVERIFIABLE"}},
	{APIErrorBadPassword, []string{"HTTP 401", "UNAUTHORIZED", "BAD PASSWORD"}},
	{APIErrorRejectedCredentials, []string{"HTTP 403", "FORBIDDEN", "REJECTED"}},
	{APIErrorBadRequestOrClientIncompatible, []string{"HTTP 400", "BAD REQUEST", "CLIENT INCOMPATIBLE"}},
	{APIErrorConnection, []string{"CONNECTION REFUSED", "NO SUCH HOST", "TIMEOUT", "CONNECTION RESET", "NETWORK IS UNREACHABLE"}},
}

// ClassifyAPIError maps a backend failure to its normalized code. Unknown
// failures map to APIErrorOtherRequest.
func ClassifyAPIError(err error) APIErrorCode {
	if err == nil {
		return 0
	}

	upperMsg := strings.ToUpper(err.Error())
	for _, entry := range apiErrorTokens {
		for _, token := range entry.tokens {
			if strings.Contains(upperMsg, token) {
				return entry.code
			}
		}
	}

	return APIErrorOtherRequest
}
