package services

import (
	"fmt"
	"strings"

	"sareeapi/models"
)

// promptWriter skips blank optional lines so prompts stay compact.
type promptWriter struct {
	b strings.Builder
}

func (w *promptWriter) line(format string, args ...any) {
	w.b.WriteString(fmt.Sprintf(format, args...))
	w.b.WriteByte('\n')
}

func (w *promptWriter) lineIf(cond bool, format string, args ...any) {
	if cond {
		w.line(format, args...)
	}
}

func (w *promptWriter) blank() {
	w.b.WriteByte('\n')
}

func (w *promptWriter) String() string {
	return strings.TrimSpace(w.b.String())
}

// shotLayout numbers the images attached to a shot request. IMAGE 1 is always the saree.
type shotLayout struct {
	referenceIndex int
	faceIndex      int
}

func (l shotLayout) useReference() bool { return l.referenceIndex > 0 }
func (l shotLayout) useFace() bool      { return l.faceIndex > 0 }

func newShotLayout(hasReference, hasFace bool) shotLayout {
	layout := shotLayout{}
	next := 2
	if hasReference {
		layout.referenceIndex = next
		next++
	}
	if hasFace {
		layout.faceIndex = next
	}
	return layout
}

func BuildShotPrompt(spec models.ShotSpec, scene models.SceneContext, feedback string, layout shotLayout) string {
	var w promptWriter
	w.line("You are an expert fashion photographer generating e-commerce imagery.")
	w.blank()
	w.line("INPUTS:")
	w.line("- IMAGE 1: Saree Product (Source).")
	w.lineIf(layout.useReference(), "- IMAGE %d: Reference Look (Lighting/Style Anchor).", layout.referenceIndex)
	w.lineIf(layout.useFace(), "- IMAGE %d: Model Face (Identity Source).", layout.faceIndex)
	w.blank()
	w.line("MANDATORY CONFIGURATION:")
	w.blank()
	w.line("A. BACKGROUND:")
	w.line("\"%s\"", scene.BackgroundDesc)
	w.line("- You MUST use this description for the background.")
	w.lineIf(layout.useReference(), "- Do NOT blindly copy the background from Image %d if it contradicts the text description. The text description is the authority for the setting.", layout.referenceIndex)
	w.blank()
	w.line("B. FACE IDENTITY:")
	w.lineIf(layout.useFace(), "- CRITICAL: The model MUST have the exact facial features of the person in IMAGE %d.", layout.faceIndex)
	w.line("- Do not create a generic face.")
	w.blank()
	w.line("C. SHOT EXECUTION:")
	w.line("Generate a photorealistic %s.", spec.Label)
	w.line("%s", spec.Prompt)
	if feedback != "" {
		w.blank()
		w.line("USER CORRECTION: \"%s\"", feedback)
	}
	w.blank()
	w.line("VISUAL HARMONY:")
	w.lineIf(layout.useReference(), "- Use Image %d for lighting, color grading, and blouse design.", layout.referenceIndex)
	w.line("- Ensure the saree (Image 1) is rendered perfectly.")
	return w.String()
}

func BuildTryOnPrompt(scene models.SceneContext, hasFace bool) string {
	var w promptWriter
	w.line("Generate a photorealistic, high-fashion e-commerce product image of a model wearing the saree shown in the first image.")
	w.blank()
	w.line("INPUTS:")
	w.line("- IMAGE 1: Saree (Texture, Print, Border).")
	w.lineIf(hasFace, "- IMAGE 2: Model Face.")
	w.blank()
	w.line("STRICT REQUIREMENTS:")
	w.line("1. SAREE: The saree must be an EXACT VISUAL CLONE of Image 1 (Fabric, Print, Border).")
	if hasFace {
		w.line("2. FACE: The model MUST have the exact facial features of the person in Image 2.")
	} else {
		w.line("2. FACE: Generate a consistent model face.")
	}
	w.line("3. BACKGROUND: \"%s\"", scene.BackgroundDesc)
	w.line("   - Strictly generate the image in this background setting.")
	w.line("4. POSE: Standing straight, front-facing, Nivi drape, crisp pleats.")
	w.blank()
	w.line("Model Description: %s", scene.FigureDesc)
	w.line("Attire Details: %s", scene.AttireDesc)
	w.blank()
	w.line("Lighting: Soft, commercial studio lighting.")
	return w.String()
}

func BuildAnalysisPrompt(attireDesc string) string {
	var w promptWriter
	w.line("Analyze this saree for e-commerce. Context: %s.", attireDesc)
	w.line("Estimate Engagement Rate (0-100%%), Conversion Rate (0-10%%), Rating (0-10).")
	w.line("Provide 5 style attributes for radar chart (Traditional, Modern, Occasion, Fabric Quality, Color Vibrancy) 0-100.")
	return w.String()
}

func BuildSEOPrompt(fabric, design, attireDesc string) string {
	var w promptWriter
	w.line("Generate an SEO Title (max 50 characters) and an SEO Product Description (max 50 words) for this saree.")
	w.blank()
	w.line("Context:")
	w.line("- Fabric: %s", fabric)
	w.line("- Design: %s", design)
	w.line("- Additional Info: %s", attireDesc)
	w.blank()
	w.line("Note: SKU will be generated programmatically, return empty string for SKU in JSON.")
	return w.String()
}
