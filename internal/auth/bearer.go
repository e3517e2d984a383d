package auth

import (
	"net/http"
	"strings"
)

var (
	errNotBearer = newError(CodeMalformedHeader, http.StatusUnauthorized, `Authorization header must start with "Bearer".`)
	errNoToken   = newError(CodeMalformedHeader, http.StatusUnauthorized, "Token not found.")
	errTooLong   = newError(CodeMalformedHeader, http.StatusUnauthorized, "Authorization header must be bearer token.")
)

// ExtractBearer returns the credential from an Authorization header value of the form "Bearer <token>".
func ExtractBearer(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", ErrMissingHeader
	}

	parts := strings.Fields(header)
	switch {
	case !strings.EqualFold(parts[0], "bearer"):
		return "", errNotBearer
	case len(parts) == 1:
		return "", errNoToken
	case len(parts) > 2:
		return "", errTooLong
	}
	return parts[1], nil
}
