package auth

import (
	"context"
	"slices"
)

// Claims is the verified content of a credential.
type Claims struct {
	Subject string
	// Permissions is nil when the credential carried no permission collection at all.
	Permissions []string
}

// Has reports whether the exact permission string is present.
func (c *Claims) Has(permission string) bool {
	return slices.Contains(c.Permissions, permission)
}

// Authorize checks that claims grant the required permission.
func Authorize(required string, claims *Claims) error {
	if claims == nil || claims.Permissions == nil {
		return ErrNoPermissions
	}
	if !claims.Has(required) {
		return ErrForbidden
	}
	return nil
}

type claimsKey struct{}

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the claims stored by [WithClaims].
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*Claims)
	return claims, ok && claims != nil
}
