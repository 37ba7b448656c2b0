package models

type ShotType string

const (
	// ShotSource is the unmodified upload, never sent to the generator.
	ShotSource  ShotType = "source"
	ShotModel   ShotType = "model"
	ShotProduct ShotType = "product"
)

const (
	ShotIDSource          = "source-1"
	ShotIDFullBody        = "full-body"
	ShotIDBackProfile     = "back-profile"
	ShotIDLeftProfile     = "left-profile"
	ShotIDRightProfile    = "right-profile"
	ShotIDDetailedProfile = "detailed-profile"
	ShotIDSeatingProfile  = "seating-profile"
	ShotIDFabricProfile   = "fabric-profile"
	ShotIDMannequinView   = "mannequin-view"
)

type ShotSpec struct {
	ID     string   `json:"id"`
	Label  string   `json:"label"`
	Type   ShotType `json:"type"`
	Prompt string   `json:"prompt"`
}

// UsesReference reports whether the try-on image may anchor this shot.
func (s ShotSpec) UsesReference() bool {
	return s.ID != ShotIDMannequinView
}

// UsesFace reports whether the model face is attached for this shot.
func (s ShotSpec) UsesFace() bool {
	return s.Type == ShotModel && s.ID != ShotIDMannequinView
}

type Shot struct {
	ShotSpec
	Result   StageState[Image] `json:"result"`
	Selected bool              `json:"selected"`
	Feedback string            `json:"feedback"`
	Refining bool              `json:"refining"`
}

// Image returns the generated (or source) image when the shot succeeded.
func (s Shot) Image() (Image, bool) {
	return s.Result.Data()
}

// ActiveFeedback is the correction sent to the generator: only while refining.
func (s Shot) ActiveFeedback() string {
	if !s.Refining {
		return ""
	}
	return s.Feedback
}

type PhotoSummary struct {
	Generated int `json:"generated"`
	Failed    int `json:"failed"`
}
