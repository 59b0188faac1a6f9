package controllers

import (
	"errors"
	"net/http"

	"github.com/franciscosanchezn/coffee-shop-api/internal/middleware"
	"github.com/franciscosanchezn/coffee-shop-api/internal/models"
	"github.com/franciscosanchezn/coffee-shop-api/internal/services"
	"github.com/gin-gonic/gin"
)

var (
	errMalformedBody = errors.New("request body must be a JSON object")
	errMissingField  = errors.New("title and recipe are required")
	errInvalidID     = errors.New("drink id must be a positive integer")
	errBodyTooLarge  = errors.New("request body too large")
)

// statusFor maps an error to its response status. Anything unrecognised is
// reported as unprocessable without further distinction.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errMalformedBody),
		errors.Is(err, errMissingField),
		errors.Is(err, services.ErrDrinkTitleTaken):
		return http.StatusBadRequest
	case errors.Is(err, errInvalidID),
		errors.Is(err, services.ErrDrinkNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusUnprocessableEntity
	}
}

// respondError aborts the request with the error envelope for err
func respondError(ctx *gin.Context, err error) {
	status := statusFor(err)
	entry := middleware.RequestLogger(ctx).WithError(err).WithField("status", status)
	if status == http.StatusUnprocessableEntity {
		entry.Error("Request could not be processed")
	} else {
		entry.Debug("Request rejected")
	}
	abortWithStatus(ctx, status)
}

func abortWithStatus(ctx *gin.Context, status int) {
	ctx.AbortWithStatusJSON(status, models.NewAPIError(status, models.MessageForStatus(status)))
}

// NotFound answers unknown routes with the error envelope
func NotFound(ctx *gin.Context) {
	abortWithStatus(ctx, http.StatusNotFound)
}

// MethodNotAllowed answers known routes called with the wrong method
func MethodNotAllowed(ctx *gin.Context) {
	abortWithStatus(ctx, http.StatusMethodNotAllowed)
}
