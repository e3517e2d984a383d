package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWKSConfig configures a [JWKSVerifier].
type JWKSConfig struct {
	// Domain hosts the key set and names the issuer, e.g. "example.auth0.com".
	Domain   string
	Audience string
	CacheTTL time.Duration
	// Timeout bounds each key set request when HTTPClient is nil.
	Timeout    time.Duration
	HTTPClient *http.Client
}

// JWKSVerifier verifies RS256 tokens issued by https://{Domain}/ for Audience.
type JWKSVerifier struct {
	audience string
	issuer   string
	keys     *KeySet
}

// NewJWKSVerifier creates a verifier. An empty domain yields a verifier that fails every call
// with a configuration error.
func NewJWKSVerifier(cfg JWKSConfig) *JWKSVerifier {
	domain := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(cfg.Domain), "https://"), "/")
	if domain == "" {
		return &JWKSVerifier{}
	}

	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	return &JWKSVerifier{
		audience: cfg.Audience,
		issuer:   "https://" + domain + "/",
		keys:     NewKeySet("https://"+domain+"/.well-known/jwks.json", cfg.CacheTTL, client),
	}
}

type tokenClaims struct {
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// Verify validates the signature, expiry, audience and issuer of credential.
func (v *JWKSVerifier) Verify(ctx context.Context, credential string) (*Claims, error) {
	if v.keys == nil {
		return nil, ErrNoDomain
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(v.issuer),
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(credential, claims, func(token *jwt.Token) (any, error) {
		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			return nil, ErrNoKeyID
		}

		key, err := v.keys.Key(ctx, kid)
		switch {
		case errors.Is(err, ErrKeyNotFound):
			return nil, ErrUnknownKey
		case err != nil:
			return nil, ErrKeysFetch
		}
		return key, nil
	}, opts...)
	if err != nil {
		return nil, verifyError(err)
	}
	// Without a configured audience, only tokens that name no audience are accepted.
	if v.audience == "" && len(claims.Audience) > 0 {
		return nil, ErrWrongClaims
	}

	return &Claims{Subject: claims.Subject, Permissions: claims.Permissions}, nil
}

func verifyError(err error) error {
	if authErr, ok := AsError(err); ok {
		return authErr
	}

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenInvalidAudience), errors.Is(err, jwt.ErrTokenInvalidIssuer),
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return ErrWrongClaims
	default:
		return ErrUnparsable
	}
}
