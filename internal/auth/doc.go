// Package auth inspects the session tokens issued by the AFV API.
//
// The engine receives a JWT after the credential exchange. Before the voice link
// is opened the token is parsed locally; a token that cannot be parsed or whose
// expiry lies in the past is reported as an API session error rather than being
// sent to the voice server.
package auth
