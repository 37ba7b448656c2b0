package models

type FeedbackIn struct {
	Feedback string `json:"feedback" validate:"max=2000"`
}

type CopyDetailsIn struct {
	// 1-based display position among the products of the details stage
	Position string `json:"position" validate:"required"`
}

type ToggleDetailIn struct {
	Field DetailField `json:"field" validate:"required,oneof=season wear"`
	Item  string      `json:"item" validate:"required"`
}

type SelectAllIn struct {
	Selected bool `json:"selected"`
}

type PublishOut struct {
	ObjectKey   string `json:"object_key"`
	DownloadURL string `json:"download_url"`
	Products    int    `json:"products"`
}
