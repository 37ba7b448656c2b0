package models

import (
	"encoding/base64"
	"encoding/json"
)

// Image is an in-memory raster blob. Data is never rewritten after creation.
type Image struct {
	Data     []byte
	MIMEType string
}

func NewImage(data []byte, mimeType string) Image {
	return Image{Data: data, MIMEType: mimeType}
}

func (i Image) Empty() bool {
	return len(i.Data) == 0
}

func (i Image) Base64() string {
	return base64.StdEncoding.EncodeToString(i.Data)
}

func (i Image) DataURL() string {
	return "data:" + i.MIMEType + ";base64," + i.Base64()
}

// MarshalJSON keeps snapshots small; the bytes are served by the image endpoints.
func (i Image) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		MIMEType string `json:"mime_type"`
		Size     int    `json:"size"`
	}{i.MIMEType, len(i.Data)})
}
