package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAudience = "music-label-api"

type jwksFixture struct {
	key     *rsa.PrivateKey
	kid     string
	server  *httptest.Server
	domain  string
	fetches atomic.Int32
	fail    atomic.Bool
}

func newJWKSFixture(t *testing.T) *jwksFixture {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	f := &jwksFixture{key: key, kid: "test-key"}
	f.server = httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/.well-known/jwks.json" {
			http.NotFound(w, r)
			return
		}
		f.fetches.Add(1)
		if f.fail.Load() {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		f.writeKeys(w)
	}))
	t.Cleanup(f.server.Close)
	f.domain = strings.TrimPrefix(f.server.URL, "https://")
	return f
}

func (f *jwksFixture) writeKeys(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"keys": []map[string]any{
			{"kty": "EC", "kid": "ec-key", "crv": "P-256"},
			{
				"kty": "RSA",
				"kid": f.kid,
				"use": "sig",
				"alg": "RS256",
				"n":   base64.RawURLEncoding.EncodeToString(f.key.PublicKey.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(f.key.PublicKey.E)).Bytes()),
			},
		},
	})
}

func (f *jwksFixture) verifier() *JWKSVerifier {
	return NewJWKSVerifier(JWKSConfig{
		Domain:     f.domain,
		Audience:   testAudience,
		HTTPClient: f.server.Client(),
	})
}

func (f *jwksFixture) claims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":         "auth0|director",
		"iss":         "https://" + f.domain + "/",
		"aud":         testAudience,
		"iat":         time.Now().Unix(),
		"exp":         time.Now().Add(time.Hour).Unix(),
		"permissions": []string{"get:artists", "post:artists"},
	}
}

func (f *jwksFixture) sign(t *testing.T, claims jwt.MapClaims, header map[string]any) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = f.kid
	for k, v := range header {
		if v == nil {
			delete(token.Header, k)
			continue
		}
		token.Header[k] = v
	}
	signed, err := token.SignedString(f.key)
	require.NoError(t, err)
	return signed
}

func TestJWKSVerifier(t *testing.T) {
	f := newJWKSFixture(t)
	v := f.verifier()
	ctx := context.Background()

	t.Run("Valid", func(t *testing.T) {
		claims, err := v.Verify(ctx, f.sign(t, f.claims(), nil))
		require.NoError(t, err)
		assert.Equal(t, "auth0|director", claims.Subject)
		assert.Equal(t, []string{"get:artists", "post:artists"}, claims.Permissions)
		assert.NoError(t, Authorize("post:artists", claims))
	})

	t.Run("Audience list", func(t *testing.T) {
		c := f.claims()
		c["aud"] = []string{"other-api", testAudience}
		_, err := v.Verify(ctx, f.sign(t, c, nil))
		assert.NoError(t, err)
	})

	t.Run("Without permissions claim", func(t *testing.T) {
		c := f.claims()
		delete(c, "permissions")
		claims, err := v.Verify(ctx, f.sign(t, c, nil))
		require.NoError(t, err)
		assert.Nil(t, claims.Permissions)
		assert.ErrorIs(t, Authorize("get:artists", claims), ErrNoPermissions)
	})

	t.Run("Expired", func(t *testing.T) {
		c := f.claims()
		c["exp"] = time.Now().Add(-time.Hour).Unix()
		_, err := v.Verify(ctx, f.sign(t, c, nil))
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("Wrong audience", func(t *testing.T) {
		c := f.claims()
		c["aud"] = "someone-else"
		_, err := v.Verify(ctx, f.sign(t, c, nil))
		assert.ErrorIs(t, err, ErrWrongClaims)
		assert.Equal(t, http.StatusUnauthorized, err.(*Error).Status)
	})

	t.Run("Wrong issuer", func(t *testing.T) {
		c := f.claims()
		c["iss"] = "https://evil.example.com/"
		_, err := v.Verify(ctx, f.sign(t, c, nil))
		assert.ErrorIs(t, err, ErrWrongClaims)
	})

	t.Run("Missing kid", func(t *testing.T) {
		_, err := v.Verify(ctx, f.sign(t, f.claims(), map[string]any{"kid": nil}))
		assert.ErrorIs(t, err, ErrNoKeyID)
	})

	t.Run("Unknown kid", func(t *testing.T) {
		_, err := v.Verify(ctx, f.sign(t, f.claims(), map[string]any{"kid": "rotated-away"}))
		assert.ErrorIs(t, err, ErrUnknownKey)
	})

	t.Run("Signed by another key", func(t *testing.T) {
		other, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)
		token := jwt.NewWithClaims(jwt.SigningMethodRS256, f.claims())
		token.Header["kid"] = f.kid
		signed, err := token.SignedString(other)
		require.NoError(t, err)

		_, err = v.Verify(ctx, signed)
		assert.ErrorIs(t, err, ErrUnparsable)
	})

	t.Run("HS256 rejected", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, f.claims())
		token.Header["kid"] = f.kid
		signed, err := token.SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = v.Verify(ctx, signed)
		assert.ErrorIs(t, err, ErrUnparsable)
	})

	t.Run("Garbage", func(t *testing.T) {
		for _, credential := range []string{"director", "a.b.c", ""} {
			_, err := v.Verify(ctx, credential)
			assert.ErrorIs(t, err, ErrUnparsable, credential)
		}
	})
}

func TestJWKSVerifierWithoutAudience(t *testing.T) {
	f := newJWKSFixture(t)
	v := NewJWKSVerifier(JWKSConfig{Domain: f.domain, HTTPClient: f.server.Client()})
	ctx := context.Background()

	t.Run("Token for another API", func(t *testing.T) {
		c := f.claims()
		c["aud"] = "some-other-api"
		_, err := v.Verify(ctx, f.sign(t, c, nil))
		assert.ErrorIs(t, err, ErrWrongClaims)
	})

	t.Run("Token without audience", func(t *testing.T) {
		c := f.claims()
		delete(c, "aud")
		claims, err := v.Verify(ctx, f.sign(t, c, nil))
		require.NoError(t, err)
		assert.Equal(t, "auth0|director", claims.Subject)
	})
}

func TestJWKSVerifierKeyFetchFailure(t *testing.T) {
	f := newJWKSFixture(t)
	f.fail.Store(true)

	_, err := f.verifier().Verify(context.Background(), f.sign(t, f.claims(), nil))
	assert.ErrorIs(t, err, ErrKeysFetch)
	assert.Equal(t, http.StatusInternalServerError, err.(*Error).Status)
}

func TestJWKSVerifierTimeout(t *testing.T) {
	f := newJWKSFixture(t)
	block := make(chan struct{})
	slow := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer slow.Close()
	defer close(block)

	client := slow.Client()
	client.Timeout = 50 * time.Millisecond
	v := NewJWKSVerifier(JWKSConfig{
		Domain:     strings.TrimPrefix(slow.URL, "https://"),
		Audience:   testAudience,
		HTTPClient: client,
	})

	start := time.Now()
	_, err := v.Verify(context.Background(), f.sign(t, f.claims(), nil))
	assert.ErrorIs(t, err, ErrKeysFetch)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestKeySet(t *testing.T) {
	f := newJWKSFixture(t)
	url := f.server.URL + "/.well-known/jwks.json"
	ctx := context.Background()

	t.Run("Caches keys", func(t *testing.T) {
		set := NewKeySet(url, time.Hour, f.server.Client())
		for range 5 {
			key, err := set.Key(ctx, f.kid)
			require.NoError(t, err)
			assert.Equal(t, 0, key.N.Cmp(f.key.PublicKey.N))
		}
		assert.Equal(t, int32(1), f.fetches.Load())
	})

	t.Run("Skips non RSA keys", func(t *testing.T) {
		set := NewKeySet(url, time.Hour, f.server.Client())
		_, err := set.Key(ctx, "ec-key")
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("Unknown kid does not refetch immediately", func(t *testing.T) {
		f.fetches.Store(0)
		set := NewKeySet(url, time.Hour, f.server.Client())
		_, err := set.Key(ctx, f.kid)
		require.NoError(t, err)
		for range 3 {
			_, err = set.Key(ctx, "unknown")
			assert.ErrorIs(t, err, ErrKeyNotFound)
		}
		assert.Equal(t, int32(1), f.fetches.Load())
	})

	t.Run("Serves stale keys when refresh fails", func(t *testing.T) {
		set := NewKeySet(url, time.Millisecond, f.server.Client())
		_, err := set.Key(ctx, f.kid)
		require.NoError(t, err)

		f.fail.Store(true)
		defer f.fail.Store(false)
		time.Sleep(5 * time.Millisecond)

		key, err := set.Key(ctx, f.kid)
		require.NoError(t, err)
		assert.NotNil(t, key)
	})

	t.Run("Backs off after a failed refresh", func(t *testing.T) {
		set := NewKeySet(url, time.Millisecond, f.server.Client())
		_, err := set.Key(ctx, f.kid)
		require.NoError(t, err)

		f.fail.Store(true)
		defer f.fail.Store(false)
		time.Sleep(5 * time.Millisecond)
		f.fetches.Store(0)

		for range 5 {
			key, err := set.Key(ctx, f.kid)
			require.NoError(t, err)
			assert.NotNil(t, key)
		}
		assert.Equal(t, int32(1), f.fetches.Load())
	})

	t.Run("Failed first fetch is not retried immediately", func(t *testing.T) {
		f.fail.Store(true)
		defer f.fail.Store(false)
		f.fetches.Store(0)

		set := NewKeySet(url, time.Hour, f.server.Client())
		for range 3 {
			_, err := set.Key(ctx, f.kid)
			assert.Error(t, err)
			assert.NotErrorIs(t, err, ErrKeyNotFound)
		}
		assert.Equal(t, int32(1), f.fetches.Load())
	})

	t.Run("Defaults", func(t *testing.T) {
		set := NewKeySet(url, 0, nil)
		assert.Equal(t, defaultCacheTTL, set.ttl)
		assert.Equal(t, defaultTimeout, set.client.Timeout)
		assert.Equal(t, defaultTimeout, set.timeout)
	})
}

func TestKeySetCanceledCaller(t *testing.T) {
	f := newJWKSFixture(t)
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	var fetches atomic.Int32
	gated := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		started <- struct{}{}
		<-release
		f.writeKeys(w)
	}))
	defer gated.Close()

	set := NewKeySet(gated.URL+"/.well-known/jwks.json", time.Hour, gated.Client())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := set.Key(ctx, f.kid)
		done <- err
	}()

	<-started
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	close(release)
	key, err := set.Key(context.Background(), f.kid)
	require.NoError(t, err)
	assert.Equal(t, 0, key.N.Cmp(f.key.PublicKey.N))
	assert.Equal(t, int32(1), fetches.Load())
}

func TestJWKPublicKey(t *testing.T) {
	_, err := jwk{Kty: "RSA"}.publicKey()
	assert.Error(t, err)

	_, err = jwk{Kty: "RSA", N: "!!!", E: "AQAB"}.publicKey()
	assert.Error(t, err)

	_, err = jwk{Kty: "RSA", N: "AQAB", E: "AQ"}.publicKey()
	assert.Error(t, err, "exponent 1")

	key, err := jwk{Kty: "RSA", N: "AQAB", E: "AQAB"}.publicKey()
	require.NoError(t, err)
	assert.Equal(t, 65537, key.E)
}
