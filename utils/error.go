package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrKind is a machine-readable error code exposed to API clients.
type ErrKind string

const (
	KindNotFound          ErrKind = "notFound"
	KindForbidden         ErrKind = "forbidden"
	KindSelfBooking       ErrKind = "selfBooking"
	KindAlreadyBooked     ErrKind = "alreadyBooked"
	KindCapacityExceeded  ErrKind = "capacityExceeded"
	KindInvalidTransition ErrKind = "invalidTransition"
	KindAlreadySubmitted  ErrKind = "alreadySubmitted"
	KindStoreUnavailable  ErrKind = "storeUnavailable"
	KindValidation        ErrKind = "validation"
	KindInternal          ErrKind = "internal"
)

// AppError carries an error kind alongside a human-readable message.
type AppError struct {
	Kind    ErrKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// NewAppError builds an AppError with the given kind and message.
func NewAppError(kind ErrKind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

// WrapAppError builds an AppError that wraps an underlying cause.
func WrapAppError(kind ErrKind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the error kind, defaulting to internal.
func KindOf(err error) ErrKind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error kind to its HTTP status code.
func HTTPStatus(kind ErrKind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindStoreUnavailable:
		return http.StatusServiceUnavailable
	case KindInternal:
		return http.StatusInternalServerError
	default:
		// Business-rule failures: selfBooking, alreadyBooked,
		// capacityExceeded, invalidTransition, alreadySubmitted,
		// validation.
		return http.StatusBadRequest
	}
}

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				Logger := GetLogger()
				Logger.Error("Unhandled panic", zap.Any("error", err))

				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	Logger := GetLogger()
	Logger.Warn(message, zap.String("details", details))
	c.JSON(status, ErrorResponse{Message: message, Details: details})
}

// RespondError maps a service error to its HTTP status and writes the
// standardized error body with the machine-readable code.
func RespondError(c *gin.Context, err error) {
	kind := KindOf(err)
	message := err.Error()
	var ae *AppError
	if errors.As(err, &ae) {
		message = ae.Message
	}
	if kind == KindInternal {
		GetLogger().Error("request failed", zap.Error(err))
		message = "Something went wrong!"
	}
	c.JSON(HTTPStatus(kind), ErrorResponse{Message: message, Code: string(kind)})
}
