package services

import (
	"testing"

	"sareeapi/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeToPNG(t *testing.T) {
	out, err := NormalizeToPNG(models.NewImage(jpegBytes(t), "image/jpeg"))
	require.NoError(t, err)
	assert.Equal(t, "image/png", out.MIMEType)

	mimeType, err := DetectImageMIME(out.Data)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mimeType)

	_, err = NormalizeToPNG(models.NewImage([]byte("text"), "image/jpeg"))
	assert.Error(t, err)
}

func TestDetectImageMIME(t *testing.T) {
	mimeType, err := DetectImageMIME(jpegBytes(t))
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mimeType)

	_, err = DetectImageMIME([]byte("%PDF-1.4"))
	assert.Error(t, err)

	_, err = DetectImageMIME(nil)
	assert.Error(t, err)
}

func TestMaskCredential(t *testing.T) {
	assert.Equal(t, "AIza********cdef", MaskCredential("AIza12345678cdef"))
	assert.Equal(t, "****", MaskCredential("abcd"))
}
