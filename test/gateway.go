package test

import (
	"bytes"
	"context"
	"image/color"
	"sync"

	"github.com/disintegration/imaging"

	"sareeapi/models"
	"sareeapi/services"
)

// FakeImage returns a small valid PNG filled with c.
func FakeImage(c color.Color) models.Image {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, imaging.New(4, 4, c), imaging.PNG); err != nil {
		panic(err)
	}
	return models.NewImage(buf.Bytes(), "image/png")
}

func FakeAnalysis() *models.AnalysisResult {
	return &models.AnalysisResult{
		EngagementRate: 7.5,
		ConversionRate: 3.2,
		Rating:         8.1,
		Reasoning:      "Rich zari border with a festive palette.",
		StyleMetrics: []models.StyleMetric{
			{Attribute: "Elegance", Value: 90, FullMark: 100},
			{Attribute: "Trendiness", Value: 70, FullMark: 100},
			{Attribute: "Versatility", Value: 65, FullMark: 100},
			{Attribute: "Color Appeal", Value: 85, FullMark: 100},
			{Attribute: "Fabric Quality", Value: 80, FullMark: 100},
		},
	}
}

// StaticCredentials always yields the same key. An empty key means none is configured.
type StaticCredentials string

func (c StaticCredentials) Active() (string, bool) {
	return string(c), c != ""
}

// FakeGateway records every request and answers with the configured funcs, or with
// canned results when a func is nil.
type FakeGateway struct {
	mu sync.Mutex

	ShotFunc     func(ctx context.Context, req services.ShotRequest) (*models.Image, error)
	TryOnFunc    func(ctx context.Context, req services.TryOnRequest) (*models.Image, error)
	AnalysisFunc func(ctx context.Context, req services.AnalysisRequest) (*models.AnalysisResult, error)
	SEOFunc      func(ctx context.Context, req services.SEORequest) (*models.SEOData, error)

	ShotCalls     []services.ShotRequest
	TryOnCalls    []services.TryOnRequest
	AnalysisCalls []services.AnalysisRequest
	SEOCalls      []services.SEORequest
}

var (
	TryOnColor = color.NRGBA{R: 200, G: 30, B: 60, A: 255}
	ShotColor  = color.NRGBA{R: 30, G: 120, B: 200, A: 255}
)

func (g *FakeGateway) RequestShot(ctx context.Context, req services.ShotRequest) (*models.Image, error) {
	g.mu.Lock()
	g.ShotCalls = append(g.ShotCalls, req)
	fn := g.ShotFunc
	g.mu.Unlock()
	if fn != nil {
		return fn(ctx, req)
	}
	img := FakeImage(ShotColor)
	return &img, nil
}

func (g *FakeGateway) RequestTryOn(ctx context.Context, req services.TryOnRequest) (*models.Image, error) {
	g.mu.Lock()
	g.TryOnCalls = append(g.TryOnCalls, req)
	fn := g.TryOnFunc
	g.mu.Unlock()
	if fn != nil {
		return fn(ctx, req)
	}
	img := FakeImage(TryOnColor)
	return &img, nil
}

func (g *FakeGateway) RequestAnalysis(ctx context.Context, req services.AnalysisRequest) (*models.AnalysisResult, error) {
	g.mu.Lock()
	g.AnalysisCalls = append(g.AnalysisCalls, req)
	fn := g.AnalysisFunc
	g.mu.Unlock()
	if fn != nil {
		return fn(ctx, req)
	}
	return FakeAnalysis(), nil
}

func (g *FakeGateway) RequestSEOCopy(ctx context.Context, req services.SEORequest) (*models.SEOData, error) {
	g.mu.Lock()
	g.SEOCalls = append(g.SEOCalls, req)
	fn := g.SEOFunc
	g.mu.Unlock()
	if fn != nil {
		return fn(ctx, req)
	}
	return &models.SEOData{
		SEOTitle:       "Banarasi Silk Saree in Crimson",
		SEODescription: "Handwoven banarasi silk with a zari border.",
		SKU:            "PLACEHOLDER",
	}, nil
}

// ShotIDs returns the shot ids requested so far, in call order.
func (g *FakeGateway) ShotIDs() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	ids := make([]string, 0, len(g.ShotCalls))
	for _, c := range g.ShotCalls {
		ids = append(ids, c.Spec.ID)
	}
	return ids
}

func (g *FakeGateway) Counts() (shots, tryOns, analyses, seo int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.ShotCalls), len(g.TryOnCalls), len(g.AnalysisCalls), len(g.SEOCalls)
}
