package workflow

import (
	"context"

	"github.com/getsentry/sentry-go"
	"golang.org/x/sync/errgroup"

	"sareeapi/models"
	"sareeapi/pkg/logger"
	"sareeapi/services"
)

func (w *Workflow) prepareVisualize() ([]string, string, error) {
	w.mu.RLock()
	started := len(w.products) > 0
	w.mu.RUnlock()
	if !started {
		return nil, "", ErrNotStarted
	}
	cred, err := w.credential()
	if err != nil {
		return nil, "", err
	}
	ids := w.claim(func(p models.Product) bool {
		return !p.Visualize.IsSuccess() && !p.Visualize.IsLoading()
	}, func(p *models.Product) {
		p.Visualize = models.Loading[models.Image]()
	})
	for _, id := range ids {
		w.publishProduct(models.StageVisualize, id, models.StatusLoading, "")
	}
	return ids, cred, nil
}

// RunVisualize generates the try-on image and analysis of every product not yet visualized.
// Products are handled one after another; the two requests of a product run together.
func (w *Workflow) RunVisualize(ctx context.Context) error {
	ids, cred, err := w.prepareVisualize()
	if err != nil {
		return err
	}
	ctx, done := w.runs.begin(ctx)
	defer done()
	return w.visualize(ctx, cred, ids)
}

// StartVisualize runs stage 2 in the background and returns the number of queued products.
func (w *Workflow) StartVisualize() (int, error) {
	ids, cred, err := w.prepareVisualize()
	if err != nil {
		return 0, err
	}
	if len(ids) > 0 {
		w.background(models.StageVisualize, func(ctx context.Context) error {
			return w.visualize(ctx, cred, ids)
		})
	}
	return len(ids), nil
}

func (w *Workflow) visualize(ctx context.Context, cred string, ids []string) error {
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		w.visualizeOne(ctx, cred, id)
	}
	if err := ctx.Err(); err != nil {
		w.abandonVisualize(ids)
		return err
	}
	return nil
}

// abandonVisualize fails the claimed products a cancelled run never reached.
func (w *Workflow) abandonVisualize(ids []string) {
	for _, id := range ids {
		var touched bool
		_ = w.update(id, func(p *models.Product) error {
			if p.Visualize.IsLoading() {
				p.Visualize = models.Failed[models.Image](MsgCancelled)
				touched = true
			}
			return nil
		})
		if touched {
			w.publishProduct(models.StageVisualize, id, models.StatusError, MsgCancelled)
		}
	}
}

func (w *Workflow) setVisualize(id string, state models.StageState[models.Image], analysis *models.AnalysisResult) {
	err := w.update(id, func(p *models.Product) error {
		p.Visualize = state
		if analysis != nil {
			p.Analysis = analysis
		}
		return nil
	})
	if err != nil {
		return
	}
	w.publishProduct(models.StageVisualize, id, state.Status(), state.Reason())
}

func (w *Workflow) visualizeOne(ctx context.Context, cred, id string) {
	unlock, err := w.locks.Lock(ctx, id)
	if err != nil {
		return
	}
	defer unlock()

	p, err := w.Product(id)
	if err != nil {
		return
	}
	// a regeneration may have finished it while it waited in the queue
	if !p.Visualize.IsLoading() {
		return
	}

	scene := w.Scene()
	face := w.faceImage()
	log := w.log.WithContext(logger.Fields{"product_id": id})

	var tryOn *models.Image
	var analysis *models.AnalysisResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		img, err := w.gateway.RequestTryOn(gctx, services.TryOnRequest{
			Saree:      p.Source,
			Face:       face,
			Scene:      scene,
			Credential: cred,
		})
		if err != nil {
			return err
		}
		tryOn = img
		return nil
	})
	g.Go(func() error {
		result, err := w.gateway.RequestAnalysis(gctx, services.AnalysisRequest{
			Saree:      p.Source,
			AttireDesc: scene.AttireDesc,
			Credential: cred,
		})
		if err != nil {
			// analysis never fails the product
			log.Warn("Analysis failed", logger.Fields{"error": err.Error()})
			analysis = models.FailedAnalysis()
			return nil
		}
		analysis = result
		return nil
	})

	if err := g.Wait(); err != nil {
		reason := failureReason(ctx, err)
		if ctx.Err() == nil {
			sentry.CaptureException(err)
		}
		log.Warn("Try-on failed", logger.Fields{"error": err.Error()})
		w.setVisualize(id, models.Failed[models.Image](reason), nil)
		return
	}
	w.setVisualize(id, models.Succeeded(*tryOn), analysis)
	log.Info("Product visualized")
}

// RegenerateTryOn repeats the try-on request of one product. The analysis is kept.
func (w *Workflow) RegenerateTryOn(ctx context.Context, productID string) (models.Product, error) {
	if _, err := w.Product(productID); err != nil {
		return models.Product{}, err
	}
	cred, err := w.credential()
	if err != nil {
		return models.Product{}, err
	}
	ctx, done := w.runs.begin(ctx)
	defer done()

	unlock, err := w.locks.Lock(ctx, productID)
	if err != nil {
		return models.Product{}, err
	}
	defer unlock()

	p, err := w.Product(productID)
	if err != nil {
		return models.Product{}, err
	}
	w.setVisualize(productID, models.Loading[models.Image](), nil)

	img, err := w.gateway.RequestTryOn(ctx, services.TryOnRequest{
		Saree:      p.Source,
		Face:       w.faceImage(),
		Scene:      w.Scene(),
		Credential: cred,
	})
	if err != nil {
		w.setVisualize(productID, models.Failed[models.Image](failureReason(ctx, err)), nil)
	} else {
		w.setVisualize(productID, models.Succeeded(*img), nil)
	}
	return w.Product(productID)
}
