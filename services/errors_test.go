package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"
)

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(genai.APIError{Code: 500, Status: "INTERNAL"}))
	assert.True(t, IsTransient(fmt.Errorf("wrapped: %w", genai.APIError{Code: 503})))
	assert.True(t, IsTransient(&genai.APIError{Code: 502}))
	assert.True(t, IsTransient(errors.New("upstream returned 500")))
	assert.False(t, IsTransient(genai.APIError{Code: 400}))
	assert.False(t, IsTransient(genai.APIError{Code: 429, Status: "RESOURCE_EXHAUSTED"}))
	assert.False(t, IsTransient(errors.New("bad request")))
	assert.False(t, IsTransient(nil))
}

func TestClassifyError(t *testing.T) {
	assert.Equal(t, CapacityMessage, ClassifyError(genai.APIError{Code: 429, Status: "RESOURCE_EXHAUSTED"}))
	assert.Equal(t, CapacityMessage, ClassifyError(errors.New("RESOURCE_EXHAUSTED: quota")))
	assert.Equal(t, "no image generated", ClassifyError(ErrNoImageGenerated))
	assert.Equal(t, GenericMessage, ClassifyError(errors.New("")))
	assert.Empty(t, ClassifyError(nil))
}

func TestValidationError(t *testing.T) {
	err := fmt.Errorf("wrap: %w", NewValidationError("Please upload a model face image."))
	assert.True(t, IsValidationError(err))
	assert.False(t, IsValidationError(errors.New("other")))
}
