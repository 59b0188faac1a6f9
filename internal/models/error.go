package models

import "net/http"

// APIError is the error envelope returned by every failing endpoint
type APIError struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}

// Messages for the generic error responses
const (
	MsgBadRequest       = "bad request"
	MsgNotFound         = "resource not found"
	MsgMethodNotAllowed = "method not allowed"
	MsgTooLarge         = "request entity too large"
	MsgUnprocessable    = "unprocessable"
	MsgInternalServer   = "internal server error"
)

// NewAPIError creates a new API error with the given status and message
func NewAPIError(status int, message string) APIError {
	return APIError{
		Success: false,
		Error:   status,
		Message: message,
	}
}

// MessageForStatus returns the default message for a status code
func MessageForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return MsgBadRequest
	case http.StatusNotFound:
		return MsgNotFound
	case http.StatusMethodNotAllowed:
		return MsgMethodNotAllowed
	case http.StatusRequestEntityTooLarge:
		return MsgTooLarge
	case http.StatusUnprocessableEntity:
		return MsgUnprocessable
	default:
		return MsgInternalServer
	}
}
