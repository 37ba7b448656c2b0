package services

import (
	"testing"

	"sareeapi/models"

	"github.com/stretchr/testify/assert"
)

func TestBuildShotPromptNumbering(t *testing.T) {
	spec, _ := LookupShotSpec(models.ShotIDFullBody)
	prompt := BuildShotPrompt(spec, models.DefaultScene(), "", newShotLayout(true, true))

	assert.Contains(t, prompt, "- IMAGE 2: Reference Look (Lighting/Style Anchor).")
	assert.Contains(t, prompt, "- IMAGE 3: Model Face (Identity Source).")
	assert.Contains(t, prompt, "Generate a photorealistic Full Body Profile.")
	assert.Contains(t, prompt, models.DefaultBackgroundDesc)
	assert.NotContains(t, prompt, "USER CORRECTION")
}

func TestBuildShotPromptWithoutReference(t *testing.T) {
	spec, _ := LookupShotSpec(models.ShotIDBackProfile)
	prompt := BuildShotPrompt(spec, models.DefaultScene(), "turn left", newShotLayout(false, true))

	assert.Contains(t, prompt, "- IMAGE 2: Model Face (Identity Source).")
	assert.NotContains(t, prompt, "Reference Look")
	assert.Contains(t, prompt, `USER CORRECTION: "turn left"`)
}

func TestPromptsKeepUserTextVerbatim(t *testing.T) {
	scene := models.DefaultScene()
	scene.BackgroundDesc = "Haveli courtyard,\nwarm \"golden\" light"
	feedback := "keep the \"zari\" border\nvisible"

	spec, _ := LookupShotSpec(models.ShotIDLeftProfile)
	shot := BuildShotPrompt(spec, scene, feedback, newShotLayout(true, true))
	assert.Contains(t, shot, "\"Haveli courtyard,\nwarm \"golden\" light\"")
	assert.Contains(t, shot, "USER CORRECTION: \"keep the \"zari\" border\nvisible\"")
	assert.NotContains(t, shot, `\n`)
	assert.NotContains(t, shot, `\"`)

	tryOn := BuildTryOnPrompt(scene, true)
	assert.Contains(t, tryOn, "3. BACKGROUND: \"Haveli courtyard,\nwarm \"golden\" light\"")
}

func TestBuildTryOnPrompt(t *testing.T) {
	withFace := BuildTryOnPrompt(models.DefaultScene(), true)
	assert.Contains(t, withFace, "- IMAGE 2: Model Face.")
	assert.Contains(t, withFace, "exact facial features of the person in Image 2")

	noFace := BuildTryOnPrompt(models.DefaultScene(), false)
	assert.NotContains(t, noFace, "IMAGE 2")
	assert.Contains(t, noFace, "Generate a consistent model face.")
}

func TestBuildAnalysisAndSEOPrompts(t *testing.T) {
	analysis := BuildAnalysisPrompt("Silk saree")
	assert.Contains(t, analysis, "Context: Silk saree.")
	assert.Contains(t, analysis, "Engagement Rate (0-100%)")

	seo := BuildSEOPrompt("Silk", "Zari border", "Festive")
	assert.Contains(t, seo, "- Fabric: Silk")
	assert.Contains(t, seo, "- Design: Zari border")
	assert.Contains(t, seo, "return empty string for SKU")
}
