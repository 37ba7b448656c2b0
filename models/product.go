package models

import "slices"

type Stage int

const (
	StageVisualize Stage = iota + 2
	StagePhotography
	StageDetails
	StageExport
)

func (s Stage) String() string {
	switch s {
	case StageVisualize:
		return "visualize"
	case StagePhotography:
		return "photography"
	case StageDetails:
		return "details"
	case StageExport:
		return "export"
	}
	return "unknown"
}

// ParseStage accepts the stage number (2..5) or its name.
func ParseStage(value string) (Stage, bool) {
	for _, s := range []Stage{StageVisualize, StagePhotography, StageDetails, StageExport} {
		if value == s.String() || value == string(rune('0'+int(s))) {
			return s, true
		}
	}
	return 0, false
}

// Product is one saree moving through the pipeline.
type Product struct {
	ID     string `json:"id"`
	Source Image  `json:"source"`

	// try-on image; the analysis is kept beside it
	Visualize         StageState[Image] `json:"visualize"`
	Analysis          *AnalysisResult   `json:"analysis,omitempty"`
	VisualizeSelected bool              `json:"visualize_selected"`

	Photography         StageState[PhotoSummary] `json:"photography"`
	Shots               []Shot                   `json:"shots"`
	PhotographySelected bool                     `json:"photography_selected"`

	Details         ProductDetails      `json:"details"`
	Listing         StageState[SEOData] `json:"listing"`
	DetailsSelected bool                `json:"details_selected"`

	ExportSelected bool `json:"export_selected"`
}

func NewProduct(id string, source Image, shots []Shot) Product {
	return Product{
		ID:                  id,
		Source:              source,
		Visualize:           Idle[Image](),
		VisualizeSelected:   true,
		Photography:         Idle[PhotoSummary](),
		Shots:               shots,
		PhotographySelected: true,
		Details:             DefaultDetails(),
		Listing:             Idle[SEOData](),
		DetailsSelected:     true,
		ExportSelected:      true,
	}
}

// Clone returns a copy whose shots and details can be changed without touching p.
func (p Product) Clone() Product {
	out := p
	out.Shots = slices.Clone(p.Shots)
	out.Details = p.Details.Clone()
	if p.Analysis != nil {
		a := *p.Analysis
		a.StyleMetrics = slices.Clone(p.Analysis.StyleMetrics)
		out.Analysis = &a
	}
	return out
}

func (p Product) TryOn() (Image, bool) {
	return p.Visualize.Data()
}

func (p Product) ShotIndex(shotID string) int {
	return slices.IndexFunc(p.Shots, func(s Shot) bool { return s.ID == shotID })
}

// Selected reports the inclusion flag of a stage.
func (p Product) Selected(stage Stage) bool {
	switch stage {
	case StageVisualize:
		return p.VisualizeSelected
	case StagePhotography:
		return p.PhotographySelected
	case StageDetails:
		return p.DetailsSelected
	case StageExport:
		return p.ExportSelected
	}
	return false
}

func (p *Product) SetSelected(stage Stage, selected bool) {
	switch stage {
	case StageVisualize:
		p.VisualizeSelected = selected
	case StagePhotography:
		p.PhotographySelected = selected
		for i := range p.Shots {
			p.Shots[i].Selected = selected
		}
	case StageDetails:
		p.DetailsSelected = selected
	case StageExport:
		p.ExportSelected = selected
	}
}

// StageStatus reports the status of a stage. Export has no status of its own.
func (p Product) StageStatus(stage Stage) StageStatus {
	switch stage {
	case StageVisualize:
		return p.Visualize.Status()
	case StagePhotography:
		return p.Photography.Status()
	case StageDetails:
		return p.Listing.Status()
	}
	return StatusIdle
}

// Eligible reports whether the product may take part in the stage after prev.
func (p Product) Eligible(prev Stage) bool {
	return p.Selected(prev) && p.StageStatus(prev) == StatusSuccess
}

// SKU returns the derived SKU once the listing was generated.
func (p Product) SKU() string {
	if p.Details.SEO != nil {
		return p.Details.SEO.SKU
	}
	return ""
}
