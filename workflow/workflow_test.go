package workflow

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"sync"
	"testing"
	"time"

	"sareeapi/models"
	"sareeapi/services"
	"sareeapi/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.March, 5, 14, 7, 0, 0, time.UTC)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) Publish(sessionID string, e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *recordingSink) ofType(t EventType) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Event
	for _, e := range s.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func newTestWorkflow(gw services.GenerationGateway, creds CredentialSource) (*Workflow, *recordingSink) {
	sink := &recordingSink{}
	n := 0
	w := New(Options{
		Gateway:     gw,
		Credentials: creds,
		Events:      sink,
		SessionID:   "session-1",
		Now:         func() time.Time { return fixedNow },
		NewID: func() string {
			n++
			return fmt.Sprintf("p%d", n)
		},
	})
	return w, sink
}

func testForm(images int) models.SareeForm {
	form := models.SareeForm{Scene: models.SceneContext{}}
	for i := 0; i < images; i++ {
		form.ProductImages = append(form.ProductImages, test.FakeImage(color.NRGBA{R: uint8(10 * i), A: 255}))
	}
	face := test.FakeImage(color.White)
	form.ModelFace = &face
	return form
}

func startedWorkflow(t *testing.T, gw *test.FakeGateway, images int) (*Workflow, *recordingSink) {
	w, sink := newTestWorkflow(gw, test.StaticCredentials("test-key"))
	_, err := w.Start(testForm(images))
	require.NoError(t, err)
	return w, sink
}

func TestStartValidation(t *testing.T) {
	noFace := testForm(1)
	noFace.ModelFace = nil

	tests := []struct {
		name string
		form models.SareeForm
		msg  string
	}{
		{"no images", testForm(0), MsgNoProductImages},
		{"too many images", testForm(6), MsgTooManyImages},
		{"no face", noFace, MsgNoModelFace},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := newTestWorkflow(&test.FakeGateway{}, test.StaticCredentials("k"))
			_, err := w.Start(tt.form)
			require.Error(t, err)
			assert.True(t, services.IsValidationError(err))
			assert.Equal(t, tt.msg, err.Error())
			assert.Empty(t, w.Snapshot())
		})
	}
}

func TestStartCreatesFreshProducts(t *testing.T) {
	w, sink := startedWorkflow(t, &test.FakeGateway{}, 3)

	products := w.Snapshot()
	require.Len(t, products, 3)
	for i, p := range products {
		assert.Equal(t, fmt.Sprintf("p%d", i+1), p.ID)
		assert.True(t, p.Visualize.IsIdle())
		assert.True(t, p.VisualizeSelected)
		assert.True(t, p.ExportSelected)
		assert.Len(t, p.Shots, 9)
		assert.Equal(t, models.ProductTypeSeasonal, p.Details.ProductType)
	}
	scene := w.Scene()
	assert.Equal(t, models.DefaultFigureDesc, scene.FigureDesc)
	assert.Len(t, sink.ofType(EventWorkflow), 1)
}

func TestSnapshotIsACopy(t *testing.T) {
	w, _ := startedWorkflow(t, &test.FakeGateway{}, 1)

	snap := w.Snapshot()
	snap[0].Details.Fabric = "changed"
	snap[0].Shots[1].Feedback = "changed"

	p, err := w.Product("p1")
	require.NoError(t, err)
	assert.Empty(t, p.Details.Fabric)
	assert.Empty(t, p.Shots[1].Feedback)
}

func TestProductNotFound(t *testing.T) {
	w, _ := startedWorkflow(t, &test.FakeGateway{}, 1)

	_, err := w.Product("missing")
	assert.True(t, errors.Is(err, ErrProductNotFound))
	_, err = w.Shot("p1", "missing")
	assert.True(t, errors.Is(err, ErrShotNotFound))
}

func TestResetClearsProducts(t *testing.T) {
	w, _ := startedWorkflow(t, &test.FakeGateway{}, 2)
	w.Reset()
	assert.Empty(t, w.Snapshot())

	err := w.RunVisualize(t.Context())
	assert.True(t, errors.Is(err, ErrNotStarted))
}

func TestToggleSelectionPhotographyCascades(t *testing.T) {
	w, _ := startedWorkflow(t, &test.FakeGateway{}, 1)

	p, err := w.ToggleSelection(models.StagePhotography, "p1")
	require.NoError(t, err)
	assert.False(t, p.PhotographySelected)
	for _, s := range p.Shots {
		assert.False(t, s.Selected)
	}

	p, err = w.ToggleSelection(models.StagePhotography, "p1")
	require.NoError(t, err)
	assert.True(t, p.PhotographySelected)
	for _, s := range p.Shots {
		assert.True(t, s.Selected)
	}

	_, err = w.ToggleSelection(models.Stage(9), "p1")
	assert.True(t, errors.Is(err, ErrUnknownStage))
}

func TestSelectAllOnlyTouchesSuccessfulProducts(t *testing.T) {
	calls := 0
	gw := &test.FakeGateway{}
	gw.TryOnFunc = func(ctx context.Context, req services.TryOnRequest) (*models.Image, error) {
		calls++
		if calls == 2 {
			return nil, errors.New("boom")
		}
		img := test.FakeImage(test.TryOnColor)
		return &img, nil
	}
	w, _ := startedWorkflow(t, gw, 2)
	require.NoError(t, w.RunVisualize(t.Context()))

	n, err := w.SelectAll(models.StageVisualize, false)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	products := w.Snapshot()
	assert.False(t, products[0].VisualizeSelected)
	assert.True(t, products[1].VisualizeSelected)

	n, err = w.SelectAll(models.StageExport, false)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	for _, p := range w.Snapshot() {
		assert.False(t, p.ExportSelected)
	}
}
