package auth

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"sort"

	"github.com/desertthunder/musiclabel/internal/shared"
)

// Verifier turns a bearer credential into verified claims.
type Verifier interface {
	Verify(ctx context.Context, credential string) (*Claims, error)
}

// NewVerifier builds the verifier selected by cfg.Mode.
// The client is used for signing key requests; nil selects a client with cfg.HTTPTimeout.
func NewVerifier(cfg shared.AuthConfig, client *http.Client) (Verifier, error) {
	switch cfg.Mode {
	case shared.ModeDevelopment:
		return NewStaticVerifier(cfg.Tokens), nil
	case shared.ModeProduction:
		return NewJWKSVerifier(JWKSConfig{
			Domain:     cfg.Domain,
			Audience:   cfg.Audience,
			CacheTTL:   cfg.JWKSCacheTTL.Duration,
			Timeout:    cfg.HTTPTimeout.Duration,
			HTTPClient: client,
		}), nil
	default:
		return nil, fmt.Errorf("%w: unknown auth mode %q", shared.ErrInvalidConfig, cfg.Mode)
	}
}

// StaticVerifier accepts a fixed set of opaque tokens, each granting a fixed permission list.
// It is immutable after construction.
type StaticVerifier struct {
	tokens map[string][]string
}

// NewStaticVerifier copies tokens into a new verifier.
func NewStaticVerifier(tokens map[string][]string) *StaticVerifier {
	copied := make(map[string][]string, len(tokens))
	for token, perms := range tokens {
		// A role with an empty list still carries a permission collection.
		if perms == nil {
			perms = []string{}
		}
		copied[token] = slices.Clone(perms)
	}
	return &StaticVerifier{tokens: copied}
}

// Verify looks credential up in the token table.
func (v *StaticVerifier) Verify(_ context.Context, credential string) (*Claims, error) {
	perms, ok := v.tokens[credential]
	if !ok {
		return nil, ErrInvalidToken
	}
	return &Claims{Subject: credential, Permissions: slices.Clone(perms)}, nil
}

// Roles returns the known tokens in sorted order.
func (v *StaticVerifier) Roles() []string {
	roles := make([]string, 0, len(v.tokens))
	for role := range v.tokens {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	return roles
}

// Permissions returns a copy of the permissions granted to role.
func (v *StaticVerifier) Permissions(role string) ([]string, bool) {
	perms, ok := v.tokens[role]
	return slices.Clone(perms), ok
}

var (
	_ Verifier = (*StaticVerifier)(nil)
	_ Verifier = (*JWKSVerifier)(nil)
)
