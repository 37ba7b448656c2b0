package services

import "sareeapi/models"

var shotCatalog = []models.ShotSpec{
	{
		ID:    models.ShotIDSource,
		Label: "Original Product",
		Type:  models.ShotSource,
	},
	{
		ID:     models.ShotIDFullBody,
		Label:  "Full Body Profile",
		Type:   models.ShotModel,
		Prompt: "Full body fashion shot of the model standing straight, facing camera, showcasing the entire saree drape and blouse. Visual harmony with reference.",
	},
	{
		ID:     models.ShotIDBackProfile,
		Label:  "Back Profile",
		Type:   models.ShotModel,
		Prompt: "Full-body studio photograph from a back three-quarter angle. Model turned away from the camera, showcasing the back design of the blouse, hair styling, and the fall of the saree. Elegant standing posture.",
	},
	{
		ID:     models.ShotIDLeftProfile,
		Label:  "Left Side Profile",
		Type:   models.ShotModel,
		Prompt: "The shot must be a left profile view, side angle full body shot. Left shoulder is facing the camera, and pallu is on the left shoulder.",
	},
	{
		ID:     models.ShotIDRightProfile,
		Label:  "Right Side Profile",
		Type:   models.ShotModel,
		Prompt: "The shot must be a Right profile view, side angle full body shot. Right shoulder is facing the camera, and pallu is on the left shoulder.",
	},
	{
		ID:     models.ShotIDDetailedProfile,
		Label:  "Detailed Profile",
		Type:   models.ShotModel,
		Prompt: "The shot must be a close-up view, Model facing the camera, with the same studio background. Picture taken till the upper Stomach.",
	},
	{
		ID:     models.ShotIDSeatingProfile,
		Label:  "Seating Profile",
		Type:   models.ShotModel,
		Prompt: "Model sitting elegantly on a prop (chair or stool), saree draped naturally with pleats arranged on the floor. Visual harmony with reference.",
	},
	{
		ID:     models.ShotIDFabricProfile,
		Label:  "Fabric Profile",
		Type:   models.ShotProduct,
		Prompt: "Extreme close-up macro photography of the saree fabric texture, embroidery, and material details. Flat lay style. Visual harmony with reference.",
	},
	{
		ID:     models.ShotIDMannequinView,
		Label:  "Mannequin View",
		Type:   models.ShotProduct,
		Prompt: "Front full-length mannequin view of a saree display, standing upright with perfect showroom posture, a neutral, expressionless mannequin face, smooth matte skin finish, the saree draped neatly with crisp pleats, the pallu arranged elegantly over the shoulder, and the blouse perfectly fitted.",
	},
}

var refineDefaults = map[string]string{
	models.ShotIDLeftProfile:     "The shot must be a left profile view, side angle full body shot. Left shoulder is facing the camera, and pallu is on the left shoulder.",
	models.ShotIDRightProfile:    "The shot must be a Right profile view, side angle full body shot. Right shoulder is facing the camera, and pallu is on the left shoulder.",
	models.ShotIDDetailedProfile: "The shot must be a close-up view, Model facing the camera, with the same studio background. Picture taken till the upper Stomach.",
	models.ShotIDBackProfile:     "The shot must be a full-body back view, the Model holding the pallu with the right hand, a Complete backside view of the model, and the model facing other side of the camera",
}

// BuildShotPlan returns a fresh copy of the 9 shot catalog: idle, selected, not refining.
// Index 0 is always the source pass-through.
func BuildShotPlan() []models.Shot {
	plan := make([]models.Shot, 0, len(shotCatalog))
	for _, spec := range shotCatalog {
		plan = append(plan, models.Shot{
			ShotSpec: spec,
			Result:   models.Idle[models.Image](),
			Selected: true,
		})
	}
	return plan
}

// DefaultRefineFeedback is the correction seeded when refining is turned on with no feedback.
func DefaultRefineFeedback(shotID string) string {
	return refineDefaults[shotID]
}

func LookupShotSpec(shotID string) (models.ShotSpec, bool) {
	for _, spec := range shotCatalog {
		if spec.ID == shotID {
			return spec, true
		}
	}
	return models.ShotSpec{}, false
}
