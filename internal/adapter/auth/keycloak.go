package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrKeyNotFound  = errors.New("signing key not found")
)

type wellKnown struct {
	Issuer  string `json:"issuer"`
	JWKSURI string `json:"jwks_uri"`
}

type jsonWebKey struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type jwksResponse struct {
	Keys []jsonWebKey `json:"keys"`
}

// KeycloakAdapter validates bearer tokens against the identity provider's
// published keys. Keys are cached after the first fetch and refreshed when an
// unknown kid shows up (key rotation).
type KeycloakAdapter struct {
	httpClient   *resty.Client
	wellKnownURL string

	mu   sync.Mutex
	keys map[string]*rsa.PublicKey
}

func NewKeycloakAdapter(wellKnownURL string) *KeycloakAdapter {
	return &KeycloakAdapter{
		httpClient:   resty.New().SetTimeout(5 * time.Second),
		wellKnownURL: wellKnownURL,
	}
}

// ValidateToken parses and verifies an RS256 token, returning its claims.
func (a *KeycloakAdapter) ValidateToken(ctx context.Context, raw string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method %s: %w", t.Method.Alg(), ErrInvalidToken)
		}
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, fmt.Errorf("missing kid header: %w", ErrInvalidToken)
		}
		return a.publicKey(ctx, kid)
	})
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (a *KeycloakAdapter) publicKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	a.mu.Lock()
	key, ok := a.keys[kid]
	a.mu.Unlock()
	if ok {
		return key, nil
	}

	if err := a.refreshKeys(ctx); err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	key, ok = a.keys[kid]
	if !ok {
		return nil, fmt.Errorf("kid %s: %w", kid, ErrKeyNotFound)
	}
	return key, nil
}

func (a *KeycloakAdapter) refreshKeys(ctx context.Context) error {
	var wk wellKnown
	resp, err := a.httpClient.R().SetContext(ctx).SetResult(&wk).Get(a.wellKnownURL)
	if err != nil {
		return fmt.Errorf("fetch well-known: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("fetch well-known: status %d", resp.StatusCode())
	}

	var jwks jwksResponse
	resp, err = a.httpClient.R().SetContext(ctx).SetResult(&jwks).Get(wk.JWKSURI)
	if err != nil {
		return fmt.Errorf("fetch jwks: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("fetch jwks: status %d", resp.StatusCode())
	}

	keys := make(map[string]*rsa.PublicKey, len(jwks.Keys))
	for _, k := range jwks.Keys {
		if k.Kty != "RSA" {
			continue
		}
		pub, err := parseRSAKey(k)
		if err != nil {
			continue
		}
		keys[k.Kid] = pub
	}

	a.mu.Lock()
	a.keys = keys
	a.mu.Unlock()
	return nil
}

func parseRSAKey(key jsonWebKey) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(key.N)
	if err != nil {
		return nil, fmt.Errorf("decode modulus: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(key.E)
	if err != nil {
		return nil, fmt.Errorf("decode exponent: %w", err)
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: int(new(big.Int).SetBytes(eBytes).Int64()),
	}, nil
}
