package auth

import (
	"errors"
	"net/http"
)

// Failure codes.
const (
	CodeMissingHeader   = "missing_header"
	CodeMalformedHeader = "malformed_header"
	CodeInvalidHeader   = "invalid_header"
	CodeInvalidToken    = "invalid_token"
	CodeInvalidClaims   = "invalid_claims"
	CodeTokenExpired    = "token_expired"
	CodeForbidden       = "forbidden"
	CodeConfiguration   = "configuration_error"
)

// Error is an authentication or authorization failure.
type Error struct {
	Code        string
	Status      int
	Description string
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Description
}

func newError(code string, status int, description string) *Error {
	return &Error{Code: code, Status: status, Description: description}
}

var (
	ErrMissingHeader = newError(CodeMissingHeader, http.StatusUnauthorized, "Authorization header is expected.")
	ErrInvalidToken  = newError(CodeInvalidToken, http.StatusUnauthorized, "Invalid token.")
	ErrTokenExpired  = newError(CodeTokenExpired, http.StatusUnauthorized, "Token expired.")
	ErrForbidden     = newError(CodeForbidden, http.StatusForbidden, "Permission not found.")
	ErrNoPermissions = newError(CodeInvalidClaims, http.StatusBadRequest, "Permissions not included in JWT.")
	ErrWrongClaims   = newError(CodeInvalidClaims, http.StatusUnauthorized, "Incorrect claims. Please, check the audience and issuer.")
	ErrNoDomain      = newError(CodeConfiguration, http.StatusInternalServerError, "AUTH0_DOMAIN not configured.")
	ErrKeysFetch     = newError(CodeConfiguration, http.StatusInternalServerError, "Unable to fetch signing keys.")
	ErrNoKeyID       = newError(CodeInvalidHeader, http.StatusUnauthorized, "Authorization malformed.")
	ErrUnknownKey    = newError(CodeInvalidHeader, http.StatusUnauthorized, "Unable to find the appropriate key.")
	ErrUnparsable    = newError(CodeInvalidHeader, http.StatusUnauthorized, "Unable to parse authentication token.")
)

// AsError extracts an *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var authErr *Error
	if errors.As(err, &authErr) {
		return authErr, true
	}
	return nil, false
}
