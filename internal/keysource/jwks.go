// A1A T-Pro Authenticate & Authorize Library
// Copyright 2026 Watatek
// SPDX-License-Identifier: Apache-2.0

package keysource

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/config"
	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/keycache"
	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/logging"
	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/metrics"
)

// JWKS fetches signing keys from a JWKS endpoint and serves them through a
// key cache. Safe for concurrent use; overlapping refreshes are serialized
// and last-write-wins on the cache entry.
type JWKS struct {
	url        string
	algorithm  string
	ttl        time.Duration
	httpClient *http.Client
	cache      keycache.Store

	// mu serializes fetches so racing cache misses perform one network
	// call instead of a stampede. Not required by contract, purely a
	// request-volume optimization.
	mu sync.Mutex
}

// NewJWKS creates a JWKS key source from configuration. The cache TTL
// bounds how long a fetched key is served without a refresh.
func NewJWKS(cfg config.JWKSConfig, ttl time.Duration, cache keycache.Store) *JWKS {
	return &JWKS{
		url:       cfg.URL,
		algorithm: cfg.Algorithm,
		ttl:       ttl,
		httpClient: &http.Client{
			Timeout: cfg.ReadTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: cfg.ConnectTimeout,
				}).DialContext,
			},
		},
		cache: cache,
	}
}

// CurrentKey returns the cached signing key, refreshing once on a miss.
func (j *JWKS) CurrentKey(ctx context.Context) (keycache.Key, error) {
	if key, ok := j.cache.Get(CacheName); ok {
		metrics.KeyCacheLookups.WithLabelValues("hit").Inc()
		return key, nil
	}
	metrics.KeyCacheLookups.WithLabelValues("miss").Inc()

	j.mu.Lock()
	defer j.mu.Unlock()

	// Another caller may have refreshed while we waited for the lock.
	if key, ok := j.cache.Get(CacheName); ok {
		return key, nil
	}

	logging.Info().Str("url", j.url).Msg("signing key not in cache, fetching from key endpoint")

	if err := j.refresh(ctx); err != nil {
		return keycache.Key{}, err
	}

	key, ok := j.cache.Get(CacheName)
	if !ok {
		// Refresh reported success but the entry is gone (e.g. evicted by
		// a concurrent Clear). One refresh attempt per call; fail.
		return keycache.Key{}, &Error{Reason: ReasonNoMatchingKey, Err: fmt.Errorf("key absent after refresh")}
	}
	return key, nil
}

// ForceRefresh fetches the key now, overwriting any cached entry.
func (j *JWKS) ForceRefresh(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.refresh(ctx)
}

// refresh performs one fetch-decode-store cycle. Must be called with mu held.
func (j *JWKS) refresh(ctx context.Context) error {
	key, err := j.fetch(ctx)
	if err != nil {
		var kerr *Error
		if errors.As(err, &kerr) {
			metrics.KeyFetches.WithLabelValues(string(kerr.Reason)).Inc()
		}
		logging.Err(err).Str("url", j.url).Msg("failed to refresh signing key")
		return err
	}

	j.cache.Put(CacheName, key, j.ttl)
	metrics.KeyFetches.WithLabelValues("success").Inc()
	logging.Info().Str("algorithm", key.Algorithm).Dur("ttl", j.ttl).Msg("signing key cached")
	return nil
}

// jwksDocument is the wire format of the key-publishing endpoint. The flat
// Secret field is the simplified symmetric variant.
type jwksDocument struct {
	Keys []struct {
		Kty string `json:"kty"`
		Alg string `json:"alg"`
		Use string `json:"use"`
		Kid string `json:"kid"`
		N   string `json:"n"`
		E   string `json:"e"`
		K   string `json:"k"`
	} `json:"keys"`
	Secret string `json:"secret"`
}

func (j *JWKS) fetch(ctx context.Context) (keycache.Key, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, j.url, http.NoBody)
	if err != nil {
		return keycache.Key{}, &Error{Reason: ReasonNetwork, Err: err}
	}

	resp, err := j.httpClient.Do(req)
	if err != nil {
		return keycache.Key{}, &Error{Reason: ReasonNetwork, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return keycache.Key{}, &Error{Reason: ReasonNetwork, Err: fmt.Errorf("key endpoint returned status %d", resp.StatusCode)}
	}

	var doc jwksDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return keycache.Key{}, &Error{Reason: ReasonMalformedResponse, Err: err}
	}

	if j.symmetric() {
		return j.selectSymmetric(&doc)
	}
	return j.selectRSA(&doc)
}

func (j *JWKS) symmetric() bool {
	return strings.HasPrefix(j.algorithm, "HS")
}

// selectRSA picks the first RSA descriptor and decodes its modulus and
// exponent from base64url.
func (j *JWKS) selectRSA(doc *jwksDocument) (keycache.Key, error) {
	if doc.Keys == nil {
		return keycache.Key{}, &Error{Reason: ReasonMalformedResponse, Err: fmt.Errorf("response does not contain a keys array")}
	}
	if len(doc.Keys) == 0 {
		return keycache.Key{}, &Error{Reason: ReasonNoMatchingKey, Err: fmt.Errorf("keys array is empty")}
	}

	for _, k := range doc.Keys {
		if k.Kty != "RSA" {
			continue
		}
		if k.Alg != "" && !strings.HasPrefix(k.Alg, "RS") {
			continue
		}
		if k.N == "" || k.E == "" {
			continue
		}

		nBytes, err := base64URLDecode(k.N)
		if err != nil {
			return keycache.Key{}, &Error{Reason: ReasonDecodeError, Err: fmt.Errorf("modulus: %w", err)}
		}
		eBytes, err := base64URLDecode(k.E)
		if err != nil {
			return keycache.Key{}, &Error{Reason: ReasonDecodeError, Err: fmt.Errorf("exponent: %w", err)}
		}

		e := 0
		for _, b := range eBytes {
			e = e<<8 + int(b)
		}

		return keycache.Key{
			Algorithm: j.algorithm,
			Public: &rsa.PublicKey{
				N: new(big.Int).SetBytes(nBytes),
				E: e,
			},
		}, nil
	}

	return keycache.Key{}, &Error{Reason: ReasonNoMatchingKey, Err: fmt.Errorf("no RSA key descriptor in response")}
}

// selectSymmetric picks the secret: a flat secret field, or the first oct
// descriptor's k parameter.
func (j *JWKS) selectSymmetric(doc *jwksDocument) (keycache.Key, error) {
	if doc.Secret != "" {
		secret, err := base64.StdEncoding.DecodeString(doc.Secret)
		if err != nil {
			return keycache.Key{}, &Error{Reason: ReasonDecodeError, Err: fmt.Errorf("secret: %w", err)}
		}
		return keycache.Key{Algorithm: j.algorithm, Secret: secret}, nil
	}

	if doc.Keys == nil {
		return keycache.Key{}, &Error{Reason: ReasonMalformedResponse, Err: fmt.Errorf("response contains neither keys array nor secret field")}
	}
	if len(doc.Keys) == 0 {
		return keycache.Key{}, &Error{Reason: ReasonNoMatchingKey, Err: fmt.Errorf("keys array is empty")}
	}

	for _, k := range doc.Keys {
		if k.Kty != "oct" || k.K == "" {
			continue
		}
		secret, err := base64URLDecode(k.K)
		if err != nil {
			return keycache.Key{}, &Error{Reason: ReasonDecodeError, Err: fmt.Errorf("secret material: %w", err)}
		}
		return keycache.Key{Algorithm: j.algorithm, Secret: secret}, nil
	}

	return keycache.Key{}, &Error{Reason: ReasonNoMatchingKey, Err: fmt.Errorf("no symmetric key descriptor in response")}
}

// base64URLDecode decodes a base64url string, tolerating missing padding.
func base64URLDecode(s string) ([]byte, error) {
	switch len(s) % 4 {
	case 2:
		s += "=="
	case 3:
		s += "="
	}
	return base64.URLEncoding.DecodeString(s)
}
