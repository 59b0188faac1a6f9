package middleware

import (
	"errors"
	"net/http"

	"github.com/franciscosanchezn/coffee-shop-api/internal/auth"
	"github.com/franciscosanchezn/coffee-shop-api/internal/models"
	"github.com/gin-gonic/gin"
)

// claimsKey is the gin context key holding the verified *auth.Claims
const claimsKey = "claims"

// TokenVerifier checks an Authorization header value for a permission
type TokenVerifier interface {
	Verify(authorizationHeader, permission string) (*auth.Claims, error)
}

// RequiresAuth rejects the request unless its bearer token grants permission.
// On success the decoded claims are available through ClaimsFromContext.
func RequiresAuth(verifier TokenVerifier, permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := verifier.Verify(c.GetHeader("Authorization"), permission)
		if err != nil {
			respondWithAuthError(c, permission, err)
			return
		}

		c.Set(claimsKey, claims)
		if claims.Subject != "" {
			c.Set(loggerKey, RequestLogger(c).WithField("subject", claims.Subject))
		}
		c.Next()
	}
}

// ClaimsFromContext returns the claims stored by RequiresAuth
func ClaimsFromContext(c *gin.Context) (*auth.Claims, bool) {
	value, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok
}

// respondWithAuthError aborts with the error envelope carrying the auth error's status
func respondWithAuthError(c *gin.Context, permission string, err error) {
	var authErr *auth.AuthError
	if !errors.As(err, &authErr) {
		authErr = &auth.AuthError{
			Code:        auth.CodeInvalidToken,
			Description: "Unable to parse authentication token.",
			StatusCode:  http.StatusUnauthorized,
			Err:         err,
		}
	}

	RequestLogger(c).WithError(err).WithField("permission", permission).Info("Request not authorized")
	c.AbortWithStatusJSON(authErr.StatusCode, models.NewAPIError(authErr.StatusCode, authErr.Description))
}
