package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Issuer signs access tokens with the local HMAC secret.
// Tokens it produces are accepted by a Verifier whose key set holds the same secret under LocalKeyID.
type Issuer struct {
	secret   []byte
	issuer   string
	audience string
	now      func() time.Time
}

// NewIssuer creates a token issuer
func NewIssuer(secret []byte, issuer, audience string) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, errors.New("cannot issue tokens without a signing secret")
	}
	return &Issuer{secret: secret, issuer: issuer, audience: audience, now: time.Now}, nil
}

// Issue returns a signed token for subject granting permissions, valid for ttl
func (i *Issuer) Issue(subject string, permissions []string, ttl time.Duration) (string, error) {
	now := i.now()
	if permissions == nil {
		permissions = []string{}
	}
	claims := Claims{
		Permissions: permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   subject,
			Issuer:    i.issuer,
			Audience:  jwt.ClaimStrings{i.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["kid"] = LocalKeyID
	return token.SignedString(i.secret)
}
