package services

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/disintegration/imaging"

	"sareeapi/models"
)

var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
	"image/gif":  true,
	"image/bmp":  true,
}

// DetectImageMIME sniffs the content type of an upload and rejects anything that is not an image.
func DetectImageMIME(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty image")
	}
	mimeType := http.DetectContentType(data)
	if !allowedImageTypes[mimeType] {
		return "", fmt.Errorf("unsupported file type: %s", mimeType)
	}
	return mimeType, nil
}

// NormalizeToPNG re-encodes an image as PNG, applying EXIF orientation.
func NormalizeToPNG(img models.Image) (models.Image, error) {
	decoded, err := imaging.Decode(bytes.NewReader(img.Data), imaging.AutoOrientation(true))
	if err != nil {
		return models.Image{}, fmt.Errorf("failed to decode image: %w", err)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, decoded, imaging.PNG); err != nil {
		return models.Image{}, fmt.Errorf("failed to encode image to png: %w", err)
	}
	return models.NewImage(buf.Bytes(), "image/png"), nil
}
