package workflow

import (
	"fmt"

	"sareeapi/models"
)

func checkStage(stage models.Stage) error {
	switch stage {
	case models.StageVisualize, models.StagePhotography, models.StageDetails, models.StageExport:
		return nil
	}
	return fmt.Errorf("%w: %d", ErrUnknownStage, stage)
}

// ToggleSelection flips the inclusion flag of one product for a stage.
func (w *Workflow) ToggleSelection(stage models.Stage, productID string) (models.Product, error) {
	if err := checkStage(stage); err != nil {
		return models.Product{}, err
	}
	err := w.update(productID, func(p *models.Product) error {
		p.SetSelected(stage, !p.Selected(stage))
		return nil
	})
	if err != nil {
		return models.Product{}, err
	}
	return w.Product(productID)
}

// SelectAll sets the flag on every product whose stage finished successfully.
// Export has no status, so it applies to every product.
func (w *Workflow) SelectAll(stage models.Stage, selected bool) (int, error) {
	if err := checkStage(stage); err != nil {
		return 0, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	var n int
	for i := range w.products {
		p := &w.products[i]
		if stage != models.StageExport && p.StageStatus(stage) != models.StatusSuccess {
			continue
		}
		p.SetSelected(stage, selected)
		n++
	}
	return n, nil
}
