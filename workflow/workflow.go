package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"sareeapi/models"
	"sareeapi/pkg/logger"
	"sareeapi/services"
)

// CredentialSource yields the provider credential used for live calls.
type CredentialSource interface {
	Active() (string, bool)
}

type Options struct {
	Gateway     services.GenerationGateway
	Credentials CredentialSource
	Events      EventSink
	SessionID   string
	Now         func() time.Time
	NewID       func() string
}

// Workflow owns the ordered product list of one session and drives it through the stages.
type Workflow struct {
	mu       sync.RWMutex
	products []models.Product
	face     *models.Image
	scene    models.SceneContext

	gateway     services.GenerationGateway
	credentials CredentialSource
	events      EventSink
	sessionID   string
	now         func() time.Time
	newID       func() string

	locks *keyedLocks
	runs  *runRegistry
	log   *logger.Logger
}

func New(opts Options) *Workflow {
	if opts.Events == nil {
		opts.Events = discardSink{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.New().String() }
	}
	return &Workflow{
		scene:       models.DefaultScene(),
		gateway:     opts.Gateway,
		credentials: opts.Credentials,
		events:      opts.Events,
		sessionID:   opts.SessionID,
		now:         opts.Now,
		newID:       opts.NewID,
		locks:       newKeyedLocks(),
		runs:        newRunRegistry(),
		log:         logger.WithContext(logger.Fields{"session_id": opts.SessionID}),
	}
}

// Start validates the upload form and replaces the product list with one fresh product per image.
// Running batches of the previous list are cancelled.
func (w *Workflow) Start(form models.SareeForm) ([]models.Product, error) {
	if len(form.ProductImages) == 0 {
		return nil, validation(MsgNoProductImages)
	}
	if len(form.ProductImages) > models.MaxProductImages {
		return nil, validation(MsgTooManyImages)
	}
	if form.ModelFace == nil || form.ModelFace.Empty() {
		return nil, validation(MsgNoModelFace)
	}
	for _, img := range form.ProductImages {
		if img.Empty() {
			return nil, validation(MsgNoProductImages)
		}
	}

	w.runs.cancelAll()

	products := make([]models.Product, 0, len(form.ProductImages))
	for _, img := range form.ProductImages {
		products = append(products, models.NewProduct(w.newID(), img, services.BuildShotPlan()))
	}
	face := *form.ModelFace

	w.mu.Lock()
	w.products = products
	w.face = &face
	w.scene = form.Scene.WithDefaults()
	w.mu.Unlock()
	w.locks.reset()

	w.log.Info("Workflow started", logger.Fields{"products": len(products)})
	w.publish(Event{Type: EventWorkflow, Status: "started"})
	return w.Snapshot(), nil
}

// Reset discards every product and cancels running batches.
func (w *Workflow) Reset() {
	w.runs.cancelAll()
	w.mu.Lock()
	w.products = nil
	w.face = nil
	w.scene = models.DefaultScene()
	w.mu.Unlock()
	w.locks.reset()
	w.publish(Event{Type: EventWorkflow, Status: "reset"})
}

func (w *Workflow) Snapshot() []models.Product {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]models.Product, 0, len(w.products))
	for _, p := range w.products {
		out = append(out, p.Clone())
	}
	return out
}

func (w *Workflow) Scene() models.SceneContext {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.scene
}

func (w *Workflow) Product(id string) (models.Product, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, p := range w.products {
		if p.ID == id {
			return p.Clone(), nil
		}
	}
	return models.Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, id)
}

// Shot returns one shot of a product.
func (w *Workflow) Shot(productID, shotID string) (models.Shot, error) {
	p, err := w.Product(productID)
	if err != nil {
		return models.Shot{}, err
	}
	i := p.ShotIndex(shotID)
	if i < 0 {
		return models.Shot{}, fmt.Errorf("%w: %s", ErrShotNotFound, shotID)
	}
	return p.Shots[i], nil
}

// filter returns clones of the products matching keep, in list order.
func (w *Workflow) filter(keep func(models.Product) bool) []models.Product {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []models.Product
	for _, p := range w.products {
		if keep(p) {
			out = append(out, p.Clone())
		}
	}
	return out
}

// update applies fn to the stored product under the write lock.
func (w *Workflow) update(id string, fn func(p *models.Product) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i := range w.products {
		if w.products[i].ID == id {
			return fn(&w.products[i])
		}
	}
	return fmt.Errorf("%w: %s", ErrProductNotFound, id)
}

// claim selects and marks products in one critical section, so two runs never pick the same product.
func (w *Workflow) claim(keep func(models.Product) bool, mark func(p *models.Product)) []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	var ids []string
	for i := range w.products {
		if keep(w.products[i]) {
			mark(&w.products[i])
			ids = append(ids, w.products[i].ID)
		}
	}
	return ids
}

func (w *Workflow) updateShot(productID, shotID string, fn func(s *models.Shot)) error {
	return w.update(productID, func(p *models.Product) error {
		i := p.ShotIndex(shotID)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrShotNotFound, shotID)
		}
		fn(&p.Shots[i])
		return nil
	})
}

func (w *Workflow) faceImage() *models.Image {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.face == nil {
		return nil
	}
	face := *w.face
	return &face
}

// credential resolves the active provider key; a missing key aborts the whole stage.
func (w *Workflow) credential() (string, error) {
	if w.credentials == nil {
		return "", services.ErrNoCredential
	}
	key, ok := w.credentials.Active()
	if !ok || key == "" {
		return "", services.ErrNoCredential
	}
	return key, nil
}

func (w *Workflow) publish(e Event) {
	e.At = w.now()
	w.events.Publish(w.sessionID, e)
}

func (w *Workflow) publishProduct(stage models.Stage, productID string, status models.StageStatus, reason string) {
	w.publish(Event{Type: EventProduct, Stage: stage.String(), ProductID: productID, Status: string(status), Error: reason})
}

func (w *Workflow) publishShot(productID, shotID string, status models.StageStatus, reason string) {
	w.publish(Event{Type: EventShot, Stage: models.StagePhotography.String(), ProductID: productID, ShotID: shotID, Status: string(status), Error: reason})
}

// failureReason classifies an error for display, mapping cancellation to a fixed notice.
func failureReason(ctx context.Context, err error) string {
	if ctx.Err() != nil {
		return MsgCancelled
	}
	return services.ClassifyError(err)
}
