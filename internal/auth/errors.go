package auth

import (
	"fmt"
	"net/http"
)

// Error codes reported by the verifier
const (
	CodeMissingHeader   = "missing_header"
	CodeMalformedHeader = "malformed_header"
	CodeInvalidToken    = "invalid_token"
	CodeUnauthorized    = "unauthorized"
)

// AuthError describes why a request could not be authorized
type AuthError struct {
	Code        string
	Description string
	StatusCode  int
	// Err is the underlying parser error, if any. It is never sent to clients.
	Err error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Description, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func newAuthError(status int, code, description string, err error) *AuthError {
	return &AuthError{Code: code, Description: description, StatusCode: status, Err: err}
}

func errMissingHeader() *AuthError {
	return newAuthError(http.StatusUnauthorized, CodeMissingHeader, "Authorization header is expected.", nil)
}

func errMalformedHeader(description string) *AuthError {
	return newAuthError(http.StatusUnauthorized, CodeMalformedHeader, description, nil)
}

func errInvalidToken(description string, err error) *AuthError {
	return newAuthError(http.StatusUnauthorized, CodeInvalidToken, description, err)
}

func errUnauthorized(description string) *AuthError {
	return newAuthError(http.StatusForbidden, CodeUnauthorized, description, nil)
}
