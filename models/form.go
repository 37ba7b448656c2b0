package models

const MaxProductImages = 5

const (
	DefaultFigureDesc     = "Female model, Indian ethnicity, height 5'8\", slim build, fair complexion, elegant posture."
	DefaultBackgroundDesc = "Clean, white studio background with soft natural lighting. Minimalist aesthetic."
	DefaultAttireDesc     = "Traditional Indian Saree with blouse. High quality fabric."
)

// SceneContext is the free-text description shared by every generation request of a workflow.
type SceneContext struct {
	FigureDesc     string `json:"figure_desc"`
	BackgroundDesc string `json:"background_desc"`
	AttireDesc     string `json:"attire_desc"`
}

func DefaultScene() SceneContext {
	return SceneContext{
		FigureDesc:     DefaultFigureDesc,
		BackgroundDesc: DefaultBackgroundDesc,
		AttireDesc:     DefaultAttireDesc,
	}
}

// WithDefaults fills blank descriptions.
func (s SceneContext) WithDefaults() SceneContext {
	def := DefaultScene()
	if s.FigureDesc == "" {
		s.FigureDesc = def.FigureDesc
	}
	if s.BackgroundDesc == "" {
		s.BackgroundDesc = def.BackgroundDesc
	}
	if s.AttireDesc == "" {
		s.AttireDesc = def.AttireDesc
	}
	return s
}

// SareeForm is the upload submitted to start a workflow.
type SareeForm struct {
	ProductImages []Image
	ModelFace     *Image
	Scene         SceneContext
}
