package auth

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// SetLevel adjusts the verbosity of the auth logger
func SetLevel(level logrus.Level) {
	log.SetLevel(level)
}

// GetLevel returns the current level of the auth logger
func GetLevel() logrus.Level {
	return log.GetLevel()
}

// Claims is the decoded payload of an access token
type Claims struct {
	// Permissions is nil when the token carries no permissions claim
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// HasPermission reports whether permission is granted by the claim set
func (c *Claims) HasPermission(permission string) bool {
	return slices.Contains(c.Permissions, permission)
}

// Verifier validates bearer tokens against a fixed key set, issuer and audience
type Verifier struct {
	keys     *KeySet
	issuer   string
	audience string
	now      func() time.Time
}

// NewVerifier creates a verifier trusting keys for tokens of issuer addressed to audience
func NewVerifier(keys *KeySet, issuer, audience string) *Verifier {
	return &Verifier{
		keys:     keys,
		issuer:   issuer,
		audience: audience,
		now:      time.Now,
	}
}

// Verify extracts the bearer token from an Authorization header value, decodes it and checks
// that it grants permission. The returned error is always an *AuthError.
func (v *Verifier) Verify(authorizationHeader, permission string) (*Claims, error) {
	token, err := BearerToken(authorizationHeader)
	if err != nil {
		return nil, err
	}
	claims, err := v.Decode(token)
	if err != nil {
		return nil, err
	}
	if err := CheckPermission(claims, permission); err != nil {
		return nil, err
	}
	return claims, nil
}

// BearerToken returns the token of an "Authorization: Bearer <token>" header value
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", errMissingHeader()
	}
	parts := strings.Fields(header)
	switch {
	case len(parts) == 0:
		return "", errMissingHeader()
	case !strings.EqualFold(parts[0], "bearer"):
		return "", errMalformedHeader(`Authorization header must start with "Bearer".`)
	case len(parts) == 1:
		return "", errMalformedHeader("Token not found.")
	case len(parts) > 2:
		return "", errMalformedHeader("Authorization header must be bearer token.")
	}
	return parts[1], nil
}

// Decode validates the token signature, issuer, audience and expiry and returns its claims
func (v *Verifier) Decode(token string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"RS256", "HS256"}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(v.now),
	)

	claims := &Claims{}
	parsed, err := parser.ParseWithClaims(token, claims, v.keys.Keyfunc)
	if err != nil {
		log.WithError(err).Debug("Rejected access token")
		return nil, errInvalidToken(describeTokenError(err), err)
	}
	if !parsed.Valid {
		return nil, errInvalidToken("Unable to parse authentication token.", nil)
	}
	return claims, nil
}

// CheckPermission fails with an unauthorized error unless claims grant permission
func CheckPermission(claims *Claims, permission string) error {
	if claims.Permissions == nil {
		return errUnauthorized("Permissions not included in JWT.")
	}
	if !claims.HasPermission(permission) {
		return errUnauthorized("Permission not found.")
	}
	return nil
}

func describeTokenError(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "Token expired."
	case errors.Is(err, jwt.ErrTokenInvalidIssuer), errors.Is(err, jwt.ErrTokenInvalidAudience):
		return "Incorrect claims. Please, check the audience and issuer."
	case errors.Is(err, ErrKeyNotFound):
		return "Unable to find the appropriate key."
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "Token signature is invalid."
	default:
		return "Unable to parse authentication token."
	}
}
