package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"sareeapi/models"
	"sareeapi/pkg/logger"
)

// GenerationGateway is the boundary to the image and text generation provider.
type GenerationGateway interface {
	RequestShot(ctx context.Context, req ShotRequest) (*models.Image, error)
	RequestTryOn(ctx context.Context, req TryOnRequest) (*models.Image, error)
	RequestAnalysis(ctx context.Context, req AnalysisRequest) (*models.AnalysisResult, error)
	RequestSEOCopy(ctx context.Context, req SEORequest) (*models.SEOData, error)
}

type ShotRequest struct {
	Saree      models.Image
	Face       *models.Image
	Reference  *models.Image
	Spec       models.ShotSpec
	Scene      models.SceneContext
	Feedback   string
	Credential string
}

type TryOnRequest struct {
	Saree      models.Image
	Face       *models.Image
	Scene      models.SceneContext
	Credential string
}

type AnalysisRequest struct {
	Saree      models.Image
	AttireDesc string
	Credential string
}

type SEORequest struct {
	Saree      models.Image
	Fabric     string
	Design     string
	AttireDesc string
	Credential string
}

type GatewayOptions struct {
	ImageModel string
	TextModel  string
	Retry      RetryPolicy
}

type GoogleGateway struct {
	clients    *ClientCache
	limiter    *ProviderLimiter
	retry      RetryPolicy
	imageModel string
	textModel  string
}

func NewGoogleGateway(clients *ClientCache, limiter *ProviderLimiter, opts GatewayOptions) *GoogleGateway {
	if opts.ImageModel == "" {
		opts.ImageModel = "gemini-2.5-flash-image"
	}
	if opts.TextModel == "" {
		opts.TextModel = "gemini-2.5-flash"
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = DefaultRetryPolicy()
	}
	return &GoogleGateway{
		clients:    clients,
		limiter:    limiter,
		retry:      opts.Retry,
		imageModel: opts.ImageModel,
		textModel:  opts.TextModel,
	}
}

func imagePart(img models.Image, fallbackMIME string) *genai.Part {
	mimeType := img.MIMEType
	if mimeType == "" {
		mimeType = fallbackMIME
	}
	return &genai.Part{InlineData: &genai.Blob{Data: img.Data, MIMEType: mimeType}}
}

func present(img *models.Image) bool {
	return img != nil && !img.Empty()
}

var analysisSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"engagementRate": {Type: genai.TypeNumber},
		"conversionRate": {Type: genai.TypeNumber},
		"rating":         {Type: genai.TypeNumber},
		"reasoning":      {Type: genai.TypeString},
		"styleMetrics": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"attribute": {Type: genai.TypeString},
					"value":     {Type: genai.TypeNumber},
					"fullMark":  {Type: genai.TypeNumber},
				},
			},
		},
	},
}

var seoSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"seoTitle":       {Type: genai.TypeString},
		"seoDescription": {Type: genai.TypeString},
		"sku":            {Type: genai.TypeString},
	},
}

// generate waits for a rate limiter token and issues one provider call.
func (g *GoogleGateway) generate(ctx context.Context, credential, model string, parts []*genai.Part, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if credential == "" {
		return nil, ErrNoCredential
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	client, err := g.clients.Get(ctx, credential)
	if err != nil {
		return nil, err
	}
	result, err := client.GenerateContent(ctx, model, []*genai.Content{{Parts: parts}}, config)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("empty response from %s", model)
	}
	if result.UsageMetadata != nil {
		logger.Debug("Provider usage", logger.Fields{
			"model":         model,
			"input_tokens":  result.UsageMetadata.PromptTokenCount,
			"output_tokens": result.UsageMetadata.CandidatesTokenCount,
			"total_tokens":  result.UsageMetadata.TotalTokenCount,
		})
	}
	if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
		return nil, fmt.Errorf("%w: %s %s", ErrContentBlocked, result.PromptFeedback.BlockReason, result.PromptFeedback.BlockReasonMessage)
	}
	return result, nil
}

// FirstInlineImage returns the first image part of the response.
func FirstInlineImage(result *genai.GenerateContentResponse) (*models.Image, error) {
	if result == nil {
		return nil, ErrNoImageGenerated
	}
	for _, cand := range result.Candidates {
		for _, rating := range cand.SafetyRatings {
			if rating.Blocked {
				return nil, fmt.Errorf("%w: %s", ErrContentBlocked, rating.Category)
			}
		}
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			inline := part.InlineData
			if inline == nil || len(inline.Data) == 0 {
				continue
			}
			mimeType := inline.MIMEType
			if mimeType == "" {
				mimeType = "image/png"
			}
			if !strings.HasPrefix(mimeType, "image/") {
				continue
			}
			img := models.NewImage(inline.Data, mimeType)
			return &img, nil
		}
	}
	return nil, ErrNoImageGenerated
}

func (g *GoogleGateway) generateImage(ctx context.Context, credential string, parts []*genai.Part) (*models.Image, error) {
	result, err := g.generate(ctx, credential, g.imageModel, parts, &genai.GenerateContentConfig{
		CandidateCount:     1,
		ResponseModalities: []string{"IMAGE"},
	})
	if err != nil {
		return nil, err
	}
	return FirstInlineImage(result)
}

func (g *GoogleGateway) generateJSON(ctx context.Context, credential string, parts []*genai.Part, schema *genai.Schema, out any) error {
	result, err := g.generate(ctx, credential, g.textModel, parts, &genai.GenerateContentConfig{
		CandidateCount:   1,
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		return err
	}
	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return ErrNoTextGenerated
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("failed to decode provider response: %w", err)
	}
	return nil
}

// RequestShot generates one photography shot, retrying transient failures.
// The reference image is skipped for the mannequin view and the face only goes to model shots.
func (g *GoogleGateway) RequestShot(ctx context.Context, req ShotRequest) (*models.Image, error) {
	if req.Spec.Type == models.ShotSource {
		return nil, ErrSourceShot
	}
	useReference := present(req.Reference) && req.Spec.UsesReference()
	useFace := present(req.Face) && req.Spec.UsesFace()

	parts := []*genai.Part{imagePart(req.Saree, "image/jpeg")}
	if useReference {
		parts = append(parts, imagePart(*req.Reference, "image/png"))
	}
	if useFace {
		parts = append(parts, imagePart(*req.Face, "image/jpeg"))
	}
	prompt := BuildShotPrompt(req.Spec, req.Scene, req.Feedback, newShotLayout(useReference, useFace))
	parts = append(parts, &genai.Part{Text: prompt})

	return Retry(ctx, g.retry, func(ctx context.Context) (*models.Image, error) {
		return g.generateImage(ctx, req.Credential, parts)
	})
}

// RequestTryOn makes a single attempt.
func (g *GoogleGateway) RequestTryOn(ctx context.Context, req TryOnRequest) (*models.Image, error) {
	hasFace := present(req.Face)
	parts := []*genai.Part{imagePart(req.Saree, "image/jpeg")}
	if hasFace {
		parts = append(parts, imagePart(*req.Face, "image/jpeg"))
	}
	parts = append(parts, &genai.Part{Text: BuildTryOnPrompt(req.Scene, hasFace)})
	return g.generateImage(ctx, req.Credential, parts)
}

func (g *GoogleGateway) RequestAnalysis(ctx context.Context, req AnalysisRequest) (*models.AnalysisResult, error) {
	parts := []*genai.Part{
		imagePart(req.Saree, "image/jpeg"),
		{Text: BuildAnalysisPrompt(req.AttireDesc)},
	}
	var result models.AnalysisResult
	if err := g.generateJSON(ctx, req.Credential, parts, analysisSchema, &result); err != nil {
		return nil, err
	}
	if result.StyleMetrics == nil {
		result.StyleMetrics = []models.StyleMetric{}
	}
	return &result, nil
}

func (g *GoogleGateway) RequestSEOCopy(ctx context.Context, req SEORequest) (*models.SEOData, error) {
	parts := []*genai.Part{
		imagePart(req.Saree, "image/jpeg"),
		{Text: BuildSEOPrompt(req.Fabric, req.Design, req.AttireDesc)},
	}
	var result models.SEOData
	if err := g.generateJSON(ctx, req.Credential, parts, seoSchema, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
