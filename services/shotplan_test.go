package services

import (
	"testing"

	"sareeapi/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildShotPlan(t *testing.T) {
	plan := BuildShotPlan()
	require.Len(t, plan, 9)

	ids := make([]string, 0, len(plan))
	for _, shot := range plan {
		ids = append(ids, shot.ID)
		assert.True(t, shot.Result.IsIdle())
		assert.True(t, shot.Selected)
		assert.False(t, shot.Refining)
		assert.Empty(t, shot.Feedback)
	}
	assert.Equal(t, []string{
		"source-1", "full-body", "back-profile", "left-profile", "right-profile",
		"detailed-profile", "seating-profile", "fabric-profile", "mannequin-view",
	}, ids)
	assert.Equal(t, models.ShotSource, plan[0].Type)
	assert.Empty(t, plan[0].Prompt)
	assert.Equal(t, models.ShotProduct, plan[7].Type)
	assert.Equal(t, models.ShotProduct, plan[8].Type)
}

func TestBuildShotPlanIsFresh(t *testing.T) {
	first := BuildShotPlan()
	first[1].Feedback = "more light"
	first[1].Result = models.Succeeded(models.NewImage([]byte{1}, "image/png"))

	second := BuildShotPlan()
	assert.Empty(t, second[1].Feedback)
	assert.True(t, second[1].Result.IsIdle())
	for i := range second {
		assert.Equal(t, first[i].ShotSpec, second[i].ShotSpec)
	}
}

func TestDefaultRefineFeedback(t *testing.T) {
	assert.Contains(t, DefaultRefineFeedback(models.ShotIDBackProfile), "full-body back view")
	assert.Contains(t, DefaultRefineFeedback(models.ShotIDLeftProfile), "left profile view")
	assert.Empty(t, DefaultRefineFeedback(models.ShotIDFullBody))
	assert.Empty(t, DefaultRefineFeedback(models.ShotIDMannequinView))
}
