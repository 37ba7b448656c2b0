package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/getsentry/sentry-go"

	"sareeapi/models"
	"sareeapi/pkg/logger"
	"sareeapi/services"
)

// preparePhotography gates stage 3 and marks every pending item loading up front.
func (w *Workflow) preparePhotography() ([]string, string, error) {
	if len(w.filter(func(p models.Product) bool { return p.Eligible(models.StageVisualize) })) == 0 {
		return nil, "", validation(MsgNothingToProceed)
	}
	cred, err := w.credential()
	if err != nil {
		return nil, "", err
	}

	ids := w.claim(func(p models.Product) bool {
		return p.Eligible(models.StageVisualize) && !p.Photography.IsSuccess() && !p.Photography.IsLoading()
	}, func(p *models.Product) {
		p.Photography = models.Loading[models.PhotoSummary]()
		if allIdle(p.Shots) {
			p.Shots = services.BuildShotPlan()
		}
		for i := range p.Shots {
			if !p.Shots[i].Result.IsSuccess() {
				p.Shots[i].Result = models.Loading[models.Image]()
			}
		}
	})
	for _, id := range ids {
		w.publishProduct(models.StagePhotography, id, models.StatusLoading, "")
	}
	return ids, cred, nil
}

func allIdle(shots []models.Shot) bool {
	for _, s := range shots {
		if !s.Result.IsIdle() {
			return false
		}
	}
	return true
}

// RunPhotography generates the shot set of every product that passed stage 2.
func (w *Workflow) RunPhotography(ctx context.Context) error {
	ids, cred, err := w.preparePhotography()
	if err != nil {
		return err
	}
	ctx, done := w.runs.begin(ctx)
	defer done()
	return w.photograph(ctx, cred, ids)
}

// StartPhotography runs stage 3 in the background and returns the number of queued products.
func (w *Workflow) StartPhotography() (int, error) {
	ids, cred, err := w.preparePhotography()
	if err != nil {
		return 0, err
	}
	if len(ids) > 0 {
		w.background(models.StagePhotography, func(ctx context.Context) error {
			return w.photograph(ctx, cred, ids)
		})
	}
	return len(ids), nil
}

func (w *Workflow) photograph(ctx context.Context, cred string, ids []string) error {
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		w.photographOne(ctx, cred, id)
	}
	if err := ctx.Err(); err != nil {
		w.abandon(ids)
		return err
	}
	return nil
}

// abandon fails whatever is still loading for the given products.
func (w *Workflow) abandon(ids []string) {
	for _, id := range ids {
		var touched bool
		_ = w.update(id, func(p *models.Product) error {
			for i := range p.Shots {
				if p.Shots[i].Result.IsLoading() {
					p.Shots[i].Result = models.Failed[models.Image](MsgCancelled)
				}
			}
			if p.Photography.IsLoading() {
				p.Photography = models.Failed[models.PhotoSummary](MsgCancelled)
				touched = true
			}
			return nil
		})
		if touched {
			w.publishProduct(models.StagePhotography, id, models.StatusError, MsgCancelled)
		}
	}
}

func (w *Workflow) photographOne(ctx context.Context, cred, id string) {
	unlock, err := w.locks.Lock(ctx, id)
	if err != nil {
		return
	}
	defer unlock()

	p, err := w.Product(id)
	if err != nil || !p.Photography.IsLoading() {
		return
	}
	log := w.log.WithContext(logger.Fields{"product_id": id})

	var summary models.PhotoSummary
	for _, shot := range p.Shots {
		if ctx.Err() != nil {
			return
		}
		if shot.Result.IsSuccess() {
			if shot.Type != models.ShotSource {
				summary.Generated++
			}
			continue
		}
		if shot.Type == models.ShotSource {
			w.setShot(id, shot.ID, models.Succeeded(p.Source))
			continue
		}
		if w.generateShot(ctx, cred, p, shot.ID) {
			summary.Generated++
		} else {
			summary.Failed++
		}
	}
	if ctx.Err() != nil {
		return
	}

	_ = w.update(id, func(p *models.Product) error {
		p.Photography = models.Succeeded(summary)
		return nil
	})
	w.publishProduct(models.StagePhotography, id, models.StatusSuccess, "")
	log.Info("Photography finished", logger.Fields{"generated": summary.Generated, "failed": summary.Failed})
}

func (w *Workflow) setShot(productID, shotID string, state models.StageState[models.Image]) {
	if err := w.updateShot(productID, shotID, func(s *models.Shot) { s.Result = state }); err != nil {
		return
	}
	w.publishShot(productID, shotID, state.Status(), state.Reason())
}

// generateShot requests one shot with the current feedback and stores the outcome on the shot.
func (w *Workflow) generateShot(ctx context.Context, cred string, p models.Product, shotID string) bool {
	shot, err := w.Shot(p.ID, shotID)
	if err != nil {
		return false
	}
	w.setShot(p.ID, shotID, models.Loading[models.Image]())

	req := services.ShotRequest{
		Saree:      p.Source,
		Face:       w.faceImage(),
		Spec:       shot.ShotSpec,
		Scene:      w.Scene(),
		Feedback:   shot.ActiveFeedback(),
		Credential: cred,
	}
	if tryOn, ok := p.TryOn(); ok {
		req.Reference = &tryOn
	}

	img, err := w.gateway.RequestShot(ctx, req)
	if err != nil {
		reason := failureReason(ctx, err)
		if ctx.Err() == nil && !services.IsTransient(err) {
			sentry.CaptureException(fmt.Errorf("shot %s: %w", shotID, err))
		}
		w.log.Warn("Shot failed", logger.Fields{"product_id": p.ID, "shot_id": shotID, "error": err.Error()})
		w.setShot(p.ID, shotID, models.Failed[models.Image](reason))
		return false
	}
	w.setShot(p.ID, shotID, models.Succeeded(*img))
	return true
}

// RegenerateShot repeats one shot of a product that passed stage 2.
func (w *Workflow) RegenerateShot(ctx context.Context, productID, shotID string) (models.Shot, error) {
	p, err := w.Product(productID)
	if err != nil {
		return models.Shot{}, err
	}
	if !p.Eligible(models.StageVisualize) {
		return models.Shot{}, fmt.Errorf("%w: %s", ErrNotEligible, productID)
	}
	shot, err := w.Shot(productID, shotID)
	if err != nil {
		return models.Shot{}, err
	}
	if shot.Type == models.ShotSource {
		return models.Shot{}, services.ErrSourceShot
	}
	cred, err := w.credential()
	if err != nil {
		return models.Shot{}, err
	}

	ctx, done := w.runs.begin(ctx)
	defer done()
	unlock, err := w.locks.Lock(ctx, productID)
	if err != nil {
		return models.Shot{}, err
	}
	defer unlock()

	// the product may have changed while waiting for the lock
	if p, err = w.Product(productID); err != nil {
		return models.Shot{}, err
	}
	w.generateShot(ctx, cred, p, shotID)
	w.refreshSummary(productID)
	return w.Shot(productID, shotID)
}

// refreshSummary recounts a finished product after a single shot changed.
func (w *Workflow) refreshSummary(productID string) {
	_ = w.update(productID, func(p *models.Product) error {
		if !p.Photography.IsSuccess() {
			return nil
		}
		var summary models.PhotoSummary
		for _, s := range p.Shots {
			if s.Type == models.ShotSource {
				continue
			}
			switch {
			case s.Result.IsSuccess():
				summary.Generated++
			case s.Result.IsError():
				summary.Failed++
			}
		}
		p.Photography = models.Succeeded(summary)
		return nil
	})
}

func (w *Workflow) ToggleShotSelection(productID, shotID string) (models.Shot, error) {
	err := w.updateShot(productID, shotID, func(s *models.Shot) { s.Selected = !s.Selected })
	if err != nil {
		return models.Shot{}, err
	}
	return w.Shot(productID, shotID)
}

// ToggleShotRefining switches the correction box of a shot. Turning it on with no feedback
// seeds the default correction for that view.
func (w *Workflow) ToggleShotRefining(productID, shotID string) (models.Shot, error) {
	err := w.updateShot(productID, shotID, func(s *models.Shot) {
		s.Refining = !s.Refining
		if s.Refining && strings.TrimSpace(s.Feedback) == "" {
			s.Feedback = services.DefaultRefineFeedback(s.ID)
		}
	})
	if err != nil {
		return models.Shot{}, err
	}
	return w.Shot(productID, shotID)
}

func (w *Workflow) UpdateShotFeedback(productID, shotID, feedback string) (models.Shot, error) {
	err := w.updateShot(productID, shotID, func(s *models.Shot) { s.Feedback = feedback })
	if err != nil {
		return models.Shot{}, err
	}
	return w.Shot(productID, shotID)
}
