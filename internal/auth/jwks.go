package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// ErrKeyNotFound is returned when no signing key matches the requested key id.
var ErrKeyNotFound = errors.New("signing key not found")

const (
	defaultCacheTTL = time.Hour
	defaultTimeout  = 5 * time.Second
	// minRefresh bounds how often an unknown kid can force a refetch.
	minRefresh = 30 * time.Second
)

// KeySet caches RSA signing keys fetched from a JWKS endpoint.
type KeySet struct {
	url     string
	ttl     time.Duration
	timeout time.Duration
	client  *http.Client

	mu          sync.RWMutex
	keys        map[string]*rsa.PublicKey
	fetchedAt   time.Time
	attemptedAt time.Time
	lastErr     error
	group       singleflight.Group
}

// NewKeySet creates a key set for url. Zero ttl selects one hour; a nil client gets a five second timeout.
func NewKeySet(url string, ttl time.Duration, client *http.Client) *KeySet {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	timeout := client.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &KeySet{url: url, ttl: ttl, timeout: timeout, client: client, keys: map[string]*rsa.PublicKey{}}
}

// Key returns the public key for kid, fetching the key set when the cache is stale or lacks kid.
//
// When a refresh fails, keys from the previous fetch are still served and no new fetch is
// attempted for minRefresh. The fetch is shared by concurrent callers and is not canceled
// when the caller that started it goes away.
func (s *KeySet) Key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	s.mu.RLock()
	key := s.keys[kid]
	age := time.Since(s.fetchedAt)
	sinceAttempt := time.Since(s.attemptedAt)
	lastErr := s.lastErr
	s.mu.RUnlock()

	switch {
	case key != nil && age < s.ttl:
		return key, nil
	case lastErr != nil && sinceAttempt < minRefresh:
		if key != nil {
			return key, nil
		}
		return nil, lastErr
	case key == nil && !s.fetchedAt.IsZero() && age < minRefresh:
		return nil, ErrKeyNotFound
	}

	ch := s.group.DoChan("refresh", func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		return nil, s.refresh(fetchCtx)
	})

	var err error
	select {
	case res := <-ch:
		err = res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	s.mu.RLock()
	key = s.keys[kid]
	s.mu.RUnlock()

	switch {
	case key != nil:
		return key, nil
	case err != nil:
		return nil, err
	default:
		return nil, ErrKeyNotFound
	}
}

// refresh fetches the key set and records the outcome of the attempt.
func (s *KeySet) refresh(ctx context.Context) error {
	keys, err := s.fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.attemptedAt = time.Now()
	s.lastErr = err
	if err != nil {
		return err
	}
	s.keys = keys
	s.fetchedAt = s.attemptedAt
	return nil
}

func (s *KeySet) fetch(ctx context.Context) (map[string]*rsa.PublicKey, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch JWKS: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch JWKS: unexpected status %d", resp.StatusCode)
	}

	var set jwkSet
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, fmt.Errorf("decode JWKS: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, jwk := range set.Keys {
		if jwk.Kty != "RSA" || jwk.Kid == "" {
			continue
		}
		key, err := jwk.publicKey()
		if err != nil {
			continue
		}
		keys[jwk.Kid] = key
	}
	return keys, nil
}

type jwkSet struct {
	Keys []jwk `json:"keys"`
}

type jwk struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

func (k jwk) publicKey() (*rsa.PublicKey, error) {
	if k.N == "" || k.E == "" {
		return nil, errors.New("missing modulus or exponent")
	}

	n, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, fmt.Errorf("decode n: %w", err)
	}
	e, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, fmt.Errorf("decode e: %w", err)
	}

	exp := new(big.Int).SetBytes(e)
	if !exp.IsInt64() || exp.Int64() < 2 {
		return nil, errors.New("invalid exponent")
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(n), E: int(exp.Int64())}, nil
}
