package workflow

import (
	"context"
	"errors"
	"testing"

	"sareeapi/models"
	"sareeapi/services"
	"sareeapi/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func visualizedWorkflow(t *testing.T, gw *test.FakeGateway, images int) *Workflow {
	w, _ := startedWorkflow(t, gw, images)
	require.NoError(t, w.RunVisualize(t.Context()))
	return w
}

func TestPhotographyRequiresVisualizedSelection(t *testing.T) {
	w, _ := startedWorkflow(t, &test.FakeGateway{}, 1)

	err := w.RunPhotography(t.Context())
	require.Error(t, err)
	assert.Equal(t, MsgNothingToProceed, err.Error())

	require.NoError(t, w.RunVisualize(t.Context()))
	_, err = w.ToggleSelection(models.StageVisualize, "p1")
	require.NoError(t, err)

	_, err = w.StartPhotography()
	require.Error(t, err)
	assert.Equal(t, MsgNothingToProceed, err.Error())
}

func TestRunPhotographyGeneratesShotsInOrder(t *testing.T) {
	gw := &test.FakeGateway{}
	w := visualizedWorkflow(t, gw, 1)

	require.NoError(t, w.RunPhotography(t.Context()))

	p, err := w.Product("p1")
	require.NoError(t, err)
	summary, ok := p.Photography.Data()
	require.True(t, ok)
	assert.Equal(t, models.PhotoSummary{Generated: 8, Failed: 0}, summary)

	assert.Equal(t, []string{
		models.ShotIDFullBody,
		models.ShotIDBackProfile,
		models.ShotIDLeftProfile,
		models.ShotIDRightProfile,
		models.ShotIDDetailedProfile,
		models.ShotIDSeatingProfile,
		models.ShotIDFabricProfile,
		models.ShotIDMannequinView,
	}, gw.ShotIDs())

	source, ok := p.Shots[0].Image()
	require.True(t, ok)
	assert.Equal(t, p.Source.Data, source.Data)

	tryOn, _ := p.TryOn()
	for _, call := range gw.ShotCalls {
		require.NotNil(t, call.Reference)
		assert.Equal(t, tryOn.Data, call.Reference.Data)
		assert.Empty(t, call.Feedback)
		assert.Equal(t, "test-key", call.Credential)
	}
}

func TestShotFailureIsIsolated(t *testing.T) {
	gw := &test.FakeGateway{
		ShotFunc: func(ctx context.Context, req services.ShotRequest) (*models.Image, error) {
			if req.Spec.ID == models.ShotIDBackProfile {
				return nil, errors.New("no image generated")
			}
			img := test.FakeImage(test.ShotColor)
			return &img, nil
		},
	}
	w := visualizedWorkflow(t, gw, 1)
	require.NoError(t, w.RunPhotography(t.Context()))

	p, err := w.Product("p1")
	require.NoError(t, err)
	assert.True(t, p.Photography.IsSuccess())
	summary, _ := p.Photography.Data()
	assert.Equal(t, models.PhotoSummary{Generated: 7, Failed: 1}, summary)

	back := p.Shots[p.ShotIndex(models.ShotIDBackProfile)]
	assert.True(t, back.Result.IsError())
	assert.Equal(t, "no image generated", back.Result.Reason())
	assert.True(t, p.Shots[p.ShotIndex(models.ShotIDLeftProfile)].Result.IsSuccess())
}

func TestCancelPhotographyFailsPendingItems(t *testing.T) {
	started := make(chan struct{})
	gw := &test.FakeGateway{}
	w := visualizedWorkflow(t, gw, 2)
	gw.ShotFunc = func(ctx context.Context, req services.ShotRequest) (*models.Image, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	}

	n, err := w.StartPhotography()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	<-started
	assert.Equal(t, 1, w.CancelRuns())
	w.Wait()

	for _, p := range w.Snapshot() {
		assert.True(t, p.Photography.IsError())
		assert.Equal(t, MsgCancelled, p.Photography.Reason())
		for _, s := range p.Shots {
			assert.False(t, s.Result.IsLoading(), s.ID)
		}
	}
	first := w.Snapshot()[0]
	assert.True(t, first.Shots[0].Result.IsSuccess())
	assert.Equal(t, MsgCancelled, first.Shots[1].Result.Reason())
	assert.Len(t, gw.ShotIDs(), 1)
}

func TestRegenerateShot(t *testing.T) {
	gw := &test.FakeGateway{}
	w := visualizedWorkflow(t, gw, 1)
	require.NoError(t, w.RunPhotography(t.Context()))

	_, err := w.RegenerateShot(t.Context(), "p1", models.ShotIDSource)
	assert.True(t, errors.Is(err, services.ErrSourceShot))

	_, err = w.ToggleShotRefining("p1", models.ShotIDLeftProfile)
	require.NoError(t, err)
	shot, err := w.RegenerateShot(t.Context(), "p1", models.ShotIDLeftProfile)
	require.NoError(t, err)
	assert.True(t, shot.Result.IsSuccess())

	calls := gw.ShotCalls
	last := calls[len(calls)-1]
	assert.Equal(t, models.ShotIDLeftProfile, last.Spec.ID)
	assert.Equal(t, services.DefaultRefineFeedback(models.ShotIDLeftProfile), last.Feedback)
}

func TestRegenerateShotRequiresVisualizedProduct(t *testing.T) {
	w, _ := startedWorkflow(t, &test.FakeGateway{}, 1)

	_, err := w.RegenerateShot(t.Context(), "p1", models.ShotIDFullBody)
	assert.True(t, errors.Is(err, ErrNotEligible))
}

func TestShotToggles(t *testing.T) {
	w, _ := startedWorkflow(t, &test.FakeGateway{}, 1)

	shot, err := w.ToggleShotSelection("p1", models.ShotIDFabricProfile)
	require.NoError(t, err)
	assert.False(t, shot.Selected)

	shot, err = w.ToggleShotRefining("p1", models.ShotIDFullBody)
	require.NoError(t, err)
	assert.True(t, shot.Refining)
	assert.Empty(t, shot.Feedback)

	shot, err = w.UpdateShotFeedback("p1", models.ShotIDFullBody, "drape the pallu lower")
	require.NoError(t, err)
	assert.Equal(t, "drape the pallu lower", shot.ActiveFeedback())

	shot, err = w.ToggleShotRefining("p1", models.ShotIDFullBody)
	require.NoError(t, err)
	assert.False(t, shot.Refining)
	assert.Empty(t, shot.ActiveFeedback())
	assert.Equal(t, "drape the pallu lower", shot.Feedback)

	_, err = w.ToggleShotSelection("p1", "missing")
	assert.True(t, errors.Is(err, ErrShotNotFound))
}

func TestStartPhotographyTwiceQueuesEachProductOnce(t *testing.T) {
	release := make(chan struct{})
	gw := &test.FakeGateway{}
	w := visualizedWorkflow(t, gw, 2)
	gw.ShotFunc = func(ctx context.Context, req services.ShotRequest) (*models.Image, error) {
		<-release
		img := test.FakeImage(test.ShotColor)
		return &img, nil
	}

	first, err := w.StartPhotography()
	require.NoError(t, err)
	assert.Equal(t, 2, first)

	second, err := w.StartPhotography()
	require.NoError(t, err)
	assert.Zero(t, second)

	close(release)
	w.Wait()

	for _, p := range w.Snapshot() {
		assert.True(t, p.Photography.IsSuccess(), p.ID)
	}
	assert.Len(t, gw.ShotIDs(), 2*(len(services.BuildShotPlan())-1))
}
