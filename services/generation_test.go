package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"sareeapi/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeCall struct {
	model string
	parts []*genai.Part
}

type scriptedGenerator struct {
	mu      sync.Mutex
	calls   []fakeCall
	results []func() (*genai.GenerateContentResponse, error)
}

func (g *scriptedGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, fakeCall{model: model, parts: contents[0].Parts})
	i := len(g.calls) - 1
	if i >= len(g.results) {
		i = len(g.results) - 1
	}
	return g.results[i]()
}

func imageResponse() (*genai.GenerateContentResponse, error) {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{InlineData: &genai.Blob{Data: []byte("generated"), MIMEType: "image/png"}},
			}},
		}},
	}, nil
}

func textResponse(text string) func() (*genai.GenerateContentResponse, error) {
	return func() (*genai.GenerateContentResponse, error) {
		return &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
			}},
		}, nil
	}
}

func serverError() (*genai.GenerateContentResponse, error) {
	return nil, genai.APIError{Code: 500, Status: "INTERNAL"}
}

func newTestGateway(t *testing.T, gen *scriptedGenerator) (*GoogleGateway, *[]time.Duration) {
	t.Helper()
	clients, err := NewClientCache(func(ctx context.Context, apiKey string) (ContentGenerator, error) {
		return gen, nil
	})
	require.NoError(t, err)

	var delays []time.Duration
	retry := DefaultRetryPolicy()
	retry.Sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	return NewGoogleGateway(clients, NewProviderLimiter(0, 1), GatewayOptions{Retry: retry}), &delays
}

func shotRequest(shotID string) ShotRequest {
	spec, _ := LookupShotSpec(shotID)
	face := models.NewImage([]byte("face"), "image/jpeg")
	ref := models.NewImage([]byte("ref"), "image/png")
	return ShotRequest{
		Saree:      models.NewImage([]byte("saree"), "image/jpeg"),
		Face:       &face,
		Reference:  &ref,
		Spec:       spec,
		Scene:      models.DefaultScene(),
		Credential: "key-1",
	}
}

func TestRequestShotRetriesTransientErrors(t *testing.T) {
	gen := &scriptedGenerator{results: []func() (*genai.GenerateContentResponse, error){serverError, serverError, imageResponse}}
	gw, delays := newTestGateway(t, gen)

	img, err := gw.RequestShot(context.Background(), shotRequest(models.ShotIDFullBody))
	require.NoError(t, err)
	assert.Equal(t, []byte("generated"), img.Data)
	assert.Len(t, gen.calls, 3)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, *delays)
	assert.Equal(t, "gemini-2.5-flash-image", gen.calls[0].model)
}

func TestRequestShotFailsAfterThreeAttempts(t *testing.T) {
	gen := &scriptedGenerator{results: []func() (*genai.GenerateContentResponse, error){serverError}}
	gw, _ := newTestGateway(t, gen)

	_, err := gw.RequestShot(context.Background(), shotRequest(models.ShotIDFullBody))
	assert.Error(t, err)
	assert.Len(t, gen.calls, 3)
}

func TestRequestShotAttachments(t *testing.T) {
	gen := &scriptedGenerator{results: []func() (*genai.GenerateContentResponse, error){imageResponse}}
	gw, _ := newTestGateway(t, gen)
	ctx := context.Background()

	_, err := gw.RequestShot(ctx, shotRequest(models.ShotIDFullBody))
	require.NoError(t, err)
	// saree, reference, face, prompt
	assert.Len(t, gen.calls[0].parts, 4)
	assert.Equal(t, "image/png", gen.calls[0].parts[1].InlineData.MIMEType)

	_, err = gw.RequestShot(ctx, shotRequest(models.ShotIDFabricProfile))
	require.NoError(t, err)
	// product shots never carry the face
	assert.Len(t, gen.calls[1].parts, 3)

	_, err = gw.RequestShot(ctx, shotRequest(models.ShotIDMannequinView))
	require.NoError(t, err)
	// neither reference nor face
	assert.Len(t, gen.calls[2].parts, 2)
	assert.NotContains(t, gen.calls[2].parts[1].Text, "Reference Look")
}

func TestRequestShotRejectsSource(t *testing.T) {
	gen := &scriptedGenerator{results: []func() (*genai.GenerateContentResponse, error){imageResponse}}
	gw, _ := newTestGateway(t, gen)

	_, err := gw.RequestShot(context.Background(), shotRequest(models.ShotIDSource))
	assert.ErrorIs(t, err, ErrSourceShot)
	assert.Empty(t, gen.calls)
}

func TestRequestTryOnSingleAttempt(t *testing.T) {
	gen := &scriptedGenerator{results: []func() (*genai.GenerateContentResponse, error){serverError, imageResponse}}
	gw, _ := newTestGateway(t, gen)

	_, err := gw.RequestTryOn(context.Background(), TryOnRequest{
		Saree:      models.NewImage([]byte("saree"), "image/jpeg"),
		Scene:      models.DefaultScene(),
		Credential: "key-1",
	})
	assert.Error(t, err)
	assert.Len(t, gen.calls, 1)
}

func TestRequestAnalysis(t *testing.T) {
	gen := &scriptedGenerator{results: []func() (*genai.GenerateContentResponse, error){
		textResponse(`{"engagementRate":72,"conversionRate":4.5,"rating":8,"reasoning":"Rich zari","styleMetrics":[{"attribute":"Traditional","value":90,"fullMark":100}]}`),
	}}
	gw, _ := newTestGateway(t, gen)

	result, err := gw.RequestAnalysis(context.Background(), AnalysisRequest{
		Saree:      models.NewImage([]byte("saree"), "image/jpeg"),
		AttireDesc: models.DefaultAttireDesc,
		Credential: "key-1",
	})
	require.NoError(t, err)
	assert.Equal(t, 8.0, result.Rating)
	assert.Equal(t, "Traditional", result.StyleMetrics[0].Attribute)
	assert.Equal(t, "gemini-2.5-flash", gen.calls[0].model)
}

func TestRequestSEOCopyPropagatesFailure(t *testing.T) {
	gen := &scriptedGenerator{results: []func() (*genai.GenerateContentResponse, error){textResponse("")}}
	gw, _ := newTestGateway(t, gen)

	_, err := gw.RequestSEOCopy(context.Background(), SEORequest{Credential: "key-1"})
	assert.ErrorIs(t, err, ErrNoTextGenerated)
}

func TestGatewayRequiresCredential(t *testing.T) {
	gen := &scriptedGenerator{results: []func() (*genai.GenerateContentResponse, error){imageResponse}}
	gw, _ := newTestGateway(t, gen)

	_, err := gw.RequestTryOn(context.Background(), TryOnRequest{})
	assert.True(t, errors.Is(err, ErrNoCredential))
	assert.Empty(t, gen.calls)
}

func TestFirstInlineImageBlocked(t *testing.T) {
	_, err := FirstInlineImage(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{SafetyRatings: []*genai.SafetyRating{{Blocked: true, Category: genai.HarmCategoryHarassment}}}},
	})
	assert.ErrorIs(t, err, ErrContentBlocked)

	_, err = FirstInlineImage(&genai.GenerateContentResponse{})
	assert.ErrorIs(t, err, ErrNoImageGenerated)
}
