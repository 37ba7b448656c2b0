package models

// Field names follow the provider response schema and the exported Details.json document.

type StyleMetric struct {
	Attribute string  `json:"attribute"`
	Value     float64 `json:"value"`
	FullMark  float64 `json:"fullMark"`
}

type AnalysisResult struct {
	EngagementRate float64       `json:"engagementRate"`
	ConversionRate float64       `json:"conversionRate"`
	Rating         float64       `json:"rating"`
	Reasoning      string        `json:"reasoning"`
	StyleMetrics   []StyleMetric `json:"styleMetrics"`
}

// FailedAnalysis is the zeroed result shown when the analysis request fails.
func FailedAnalysis() *AnalysisResult {
	return &AnalysisResult{
		Reasoning:    "Analysis failed.",
		StyleMetrics: []StyleMetric{},
	}
}

type SEOData struct {
	SEOTitle       string `json:"seoTitle"`
	SEODescription string `json:"seoDescription"`
	SKU            string `json:"sku"`
}
