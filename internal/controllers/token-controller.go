package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/franciscosanchezn/coffee-shop-api/internal/middleware"
	"github.com/gin-gonic/gin"
)

const testTokenTTL = 24 * time.Hour

// TokenIssuer signs access tokens
type TokenIssuer interface {
	Issue(subject string, permissions []string, ttl time.Duration) (string, error)
}

// TokenController issues locally signed tokens for development
type TokenController struct {
	issuer TokenIssuer
}

// NewTokenController creates a new TokenController
func NewTokenController(issuer TokenIssuer) *TokenController {
	return &TokenController{issuer: issuer}
}

// IssueTestToken godoc
// @Summary Issue a development token
// @Description Sign a token granting the comma separated permissions. Only mounted in development.
// @Tags development
// @Produce json
// @Param permissions query string false "Comma separated permissions" default(get:drinks-detail)
// @Param subject query string false "Token subject" default(dev-user)
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} models.APIError
// @Router /test-token [get]
func (tc *TokenController) IssueTestToken(c *gin.Context) {
	var permissions []string
	for _, p := range strings.Split(c.Query("permissions"), ",") {
		if p = strings.TrimSpace(p); p != "" {
			permissions = append(permissions, p)
		}
	}
	subject := c.DefaultQuery("subject", "dev-user")

	token, err := tc.issuer.Issue(subject, permissions, testTokenTTL)
	if err != nil {
		middleware.RequestLogger(c).WithError(err).Error("Could not generate token")
		abortWithStatus(c, http.StatusUnprocessableEntity)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"token":      token,
		"type":       "Bearer",
		"expires_in": int(testTokenTTL.Seconds()),
	})
}
