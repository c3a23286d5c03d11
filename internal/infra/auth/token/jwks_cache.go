package token

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"sync"
	"time"
)

const (
	defaultJWKSCacheTTL     = 5 * time.Minute
	defaultJWKSMaxStale     = 15 * time.Minute
	defaultJWKSFetchTimeout = 5 * time.Second
)

// jwksCache caches RSA public keys from a JWKS endpoint. Keys are served
// fresh within the TTL and, on fetch failure, stale up to a bounded window
// so a flapping issuer endpoint does not take authentication down with it.
type jwksCache struct {
	url          string
	httpClient   *http.Client
	ttl          time.Duration
	maxStale     time.Duration
	fetchTimeout time.Duration
	now          func() time.Time

	mu         sync.RWMutex
	keys       map[string]*rsa.PublicKey
	expiresAt  time.Time
	staleUntil time.Time
}

type jwksResponse struct {
	Keys []jwkKey `json:"keys"`
}

type jwkKey struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

func newJWKSCache(url string, httpClient *http.Client) *jwksCache {
	return &jwksCache{
		url:          url,
		httpClient:   httpClient,
		ttl:          defaultJWKSCacheTTL,
		maxStale:     defaultJWKSMaxStale,
		fetchTimeout: defaultJWKSFetchTimeout,
		now:          time.Now,
		keys:         map[string]*rsa.PublicKey{},
	}
}

func (c *jwksCache) getKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	if kid == "" {
		return nil, errors.New("token missing kid header")
	}
	now := c.now()

	c.mu.RLock()
	key, ok := c.keys[kid]
	fresh := now.Before(c.expiresAt)
	c.mu.RUnlock()
	if ok && fresh {
		return key, nil
	}

	if err := c.refresh(ctx); err != nil {
		c.mu.RLock()
		key, ok = c.keys[kid]
		stale := now.Before(c.staleUntil)
		c.mu.RUnlock()
		if ok && stale {
			return key, nil
		}
		return nil, err
	}

	c.mu.RLock()
	key, ok = c.keys[kid]
	c.mu.RUnlock()
	if !ok {
		return nil, errors.New("unknown signing key")
	}
	return key, nil
}

func (c *jwksCache) refresh(ctx context.Context) error {
	fetchCtx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, c.url, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.New("jwks fetch failed")
	}

	var payload jwksResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return err
	}

	keys := make(map[string]*rsa.PublicKey, len(payload.Keys))
	for _, jwk := range payload.Keys {
		if jwk.Kty != "RSA" || jwk.Kid == "" {
			continue
		}
		key, err := parseRSAKey(jwk)
		if err != nil {
			continue
		}
		keys[jwk.Kid] = key
	}
	if len(keys) == 0 {
		return errors.New("jwks response contained no usable keys")
	}

	now := c.now()
	c.mu.Lock()
	c.keys = keys
	c.expiresAt = now.Add(c.ttl)
	c.staleUntil = now.Add(c.maxStale)
	c.mu.Unlock()
	return nil
}

func parseRSAKey(jwk jwkKey) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(jwk.N)
	if err != nil {
		return nil, err
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(jwk.E)
	if err != nil {
		return nil, err
	}
	e := 0
	for _, b := range eBytes {
		e = e<<8 | int(b)
	}
	if e <= 0 {
		return nil, errors.New("invalid jwk exponent")
	}
	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: e,
	}, nil
}
