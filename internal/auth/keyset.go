package auth

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"net/http"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// LocalKeyID is the kid under which the local HMAC secret is registered
const LocalKeyID = "local"

// ErrKeyNotFound is returned when a token names a kid that is not trusted
var ErrKeyNotFound = errors.New("signing key not found")

type trustedKey struct {
	key    interface{}
	family string
}

// KeySet is the fixed set of keys trusted to sign access tokens.
// It is filled at startup and only read afterwards.
type KeySet struct {
	keys map[string]trustedKey
}

// NewKeySet returns an empty key set
func NewKeySet() *KeySet {
	return &KeySet{keys: make(map[string]trustedKey)}
}

// AddHMAC trusts an HS256 secret under kid
func (s *KeySet) AddHMAC(kid string, secret []byte) {
	s.keys[kid] = trustedKey{key: secret, family: "HS"}
}

// AddRSA trusts an RSA public key under kid
func (s *KeySet) AddRSA(kid string, key *rsa.PublicKey) {
	s.keys[kid] = trustedKey{key: key, family: "RS"}
}

// Len returns the number of trusted keys
func (s *KeySet) Len() int {
	return len(s.keys)
}

// Keyfunc resolves the verification key for a parsed token header
func (s *KeySet) Keyfunc(token *jwt.Token) (interface{}, error) {
	kid, _ := token.Header["kid"].(string)
	if kid == "" {
		return nil, fmt.Errorf("%w: token header has no kid", ErrKeyNotFound)
	}
	trusted, ok := s.keys[kid]
	if !ok {
		return nil, fmt.Errorf("%w: kid %q", ErrKeyNotFound, kid)
	}
	switch token.Method.(type) {
	case *jwt.SigningMethodRSA:
		if trusted.family != "RS" {
			return nil, fmt.Errorf("kid %q does not hold an RSA key", kid)
		}
	case *jwt.SigningMethodHMAC:
		if trusted.family != "HS" {
			return nil, fmt.Errorf("kid %q does not hold an HMAC key", kid)
		}
	default:
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return trusted.key, nil
}

// AddJWKS trusts every RSA signing key of a JWKS document.
// Keys of other types or marked for encryption are skipped.
func (s *KeySet) AddJWKS(ctx context.Context, document []byte) error {
	jwks, err := keyfunc.NewJWKSetJSON(document)
	if err != nil {
		return fmt.Errorf("decoding jwks: %w", err)
	}
	entries, err := jwks.Storage().KeyReadAll(ctx)
	if err != nil {
		return fmt.Errorf("reading jwks keys: %w", err)
	}

	added := 0
	for _, entry := range entries {
		meta := entry.Marshal()
		key, ok := entry.Key().(*rsa.PublicKey)
		if !ok || (meta.USE != "" && meta.USE != "sig") || meta.KID == "" {
			log.WithField("kid", meta.KID).Debug("Skipping unsupported JWKS entry")
			continue
		}
		s.AddRSA(meta.KID, key)
		added++
	}
	if added == 0 {
		return errors.New("jwks document contains no usable RSA signing keys")
	}
	return nil
}

// LoadJWKS downloads a JWKS document and trusts its RSA keys
func (s *KeySet) LoadJWKS(ctx context.Context, client *http.Client, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	res, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching jwks from %s: %w", url, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching jwks from %s: unexpected status %d", url, res.StatusCode)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(res.Body).Decode(&raw); err != nil {
		return fmt.Errorf("reading jwks from %s: %w", url, err)
	}
	if err := s.AddJWKS(ctx, raw); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"url": url, "keys": s.Len()}).Info("Loaded JWKS signing keys")
	return nil
}
