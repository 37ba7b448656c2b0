package services

import (
	"errors"
	"strings"

	"google.golang.org/genai"
)

var (
	ErrSourceShot       = errors.New("source image should not be generated via API")
	ErrNoImageGenerated = errors.New("no image generated")
	ErrNoTextGenerated  = errors.New("no structured response generated")
	ErrContentBlocked   = errors.New("content blocked by provider")
	ErrNoCredential     = errors.New("no provider credential configured")
)

const (
	CapacityMessage = "The AI service is currently reaching its capacity limit. Please wait 30-60 seconds and try again."
	GenericMessage  = "An unexpected error occurred. Please try again."
)

// ValidationError is a local validation failure raised before any provider call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func providerError(err error) (genai.APIError, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return *apiErrPtr, true
	}
	return genai.APIError{}, false
}

// IsTransient reports provider server errors (HTTP 5xx) that may succeed on retry.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if apiErr, ok := providerError(err); ok {
		return apiErr.Code >= 500
	}
	return strings.Contains(err.Error(), "500")
}

// ClassifyError turns a provider failure into the short message shown next to the product or shot.
func ClassifyError(err error) string {
	if err == nil {
		return ""
	}
	if apiErr, ok := providerError(err); ok {
		if apiErr.Code == 429 || apiErr.Status == "RESOURCE_EXHAUSTED" {
			return CapacityMessage
		}
	}
	msg := err.Error()
	if strings.Contains(msg, "RESOURCE_EXHAUSTED") || strings.Contains(msg, "429") {
		return CapacityMessage
	}
	if strings.TrimSpace(msg) == "" {
		return GenericMessage
	}
	return msg
}
