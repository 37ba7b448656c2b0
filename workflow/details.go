package workflow

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/getsentry/sentry-go"

	"sareeapi/models"
	"sareeapi/pkg/logger"
	"sareeapi/services"
)

// DetailsProducts lists the products that take part in stage 4, in display order.
func (w *Workflow) DetailsProducts() []models.Product {
	return w.filter(func(p models.Product) bool { return p.Eligible(models.StagePhotography) })
}

// ProceedToDetails checks that at least one product can enter stage 4.
func (w *Workflow) ProceedToDetails() ([]models.Product, error) {
	products := w.DetailsProducts()
	if len(products) == 0 {
		return nil, validation(MsgNothingToProceed)
	}
	w.publish(Event{Type: EventWorkflow, Stage: models.StageDetails.String(), Status: "entered"})
	return products, nil
}

func (w *Workflow) UpdateDetails(productID string, patch models.DetailsPatch) (models.Product, error) {
	err := w.update(productID, func(p *models.Product) error {
		d := &p.Details
		assign(&d.VendorCode, patch.VendorCode)
		assign(&d.CostPrice, patch.CostPrice)
		assign(&d.SalePrice, patch.SalePrice)
		assign(&d.MRP, patch.MRP)
		assign(&d.Fabric, patch.Fabric)
		assign(&d.Design, patch.Design)
		assign(&d.BlouseIncluded, patch.BlouseIncluded)
		if patch.ProductType != nil {
			d.ProductType = *patch.ProductType
			if d.ProductType == models.ProductTypeNOS {
				d.Season = slices.Clone(models.Seasons)
			}
		}
		return nil
	})
	if err != nil {
		return models.Product{}, err
	}
	return w.Product(productID)
}

func assign(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

// ToggleDetailItem adds or removes a season or wear occasion.
func (w *Workflow) ToggleDetailItem(productID string, field models.DetailField, item string) (models.Product, error) {
	if !slices.Contains(field.Allowed(), item) {
		return models.Product{}, validation(MsgUnknownDetailItem)
	}
	err := w.update(productID, func(p *models.Product) error {
		list := &p.Details.Season
		if field == models.DetailFieldWear {
			list = &p.Details.Wear
		}
		if i := slices.Index(*list, item); i >= 0 {
			*list = slices.Delete(slices.Clone(*list), i, i+1)
		} else {
			*list = append(slices.Clone(*list), item)
		}
		return nil
	})
	if err != nil {
		return models.Product{}, err
	}
	return w.Product(productID)
}

// CopyDetails copies the detail record of the product at a 1-based position among the
// stage 4 products onto the target. The SEO record is not copied.
func (w *Workflow) CopyDetails(targetID, position string) (models.Product, error) {
	if _, err := w.Product(targetID); err != nil {
		return models.Product{}, err
	}
	candidates := w.DetailsProducts()
	n, err := strconv.Atoi(strings.TrimSpace(position))
	if err != nil || n < 1 || n > len(candidates) {
		return models.Product{}, validation(MsgInvalidPosition)
	}
	source := candidates[n-1]
	if source.ID == targetID {
		return models.Product{}, validation(MsgSelfCopy)
	}

	details := source.Details.Clone()
	details.SEO = nil
	err = w.update(targetID, func(p *models.Product) error {
		p.Details = details
		p.Listing = models.Idle[models.SEOData]()
		return nil
	})
	if err != nil {
		return models.Product{}, err
	}
	return w.Product(targetID)
}

// GenerateSEO asks the provider for listing copy and stamps the derived SKU on it.
// Provider failures are stored on the product, not returned.
func (w *Workflow) GenerateSEO(ctx context.Context, productID string) (models.Product, error) {
	p, err := w.Product(productID)
	if err != nil {
		return models.Product{}, err
	}
	if !p.Eligible(models.StagePhotography) {
		return models.Product{}, fmt.Errorf("%w: %s", ErrNotEligible, productID)
	}
	if p.Details.Fabric == "" || p.Details.Design == "" || p.Details.CostPrice == "" {
		return models.Product{}, validation(MsgMissingSEOFields)
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

	w.setListing(productID, models.Loading[models.SEOData](), nil)
	seo, err := w.gateway.RequestSEOCopy(ctx, services.SEORequest{
		Saree:      p.Source,
		Fabric:     p.Details.Fabric,
		Design:     p.Details.Design,
		AttireDesc: w.Scene().AttireDesc,
		Credential: cred,
	})
	if err != nil {
		if ctx.Err() == nil {
			sentry.CaptureException(err)
		}
		w.log.Warn("SEO generation failed", logger.Fields{"product_id": productID, "error": err.Error()})
		w.setListing(productID, models.Failed[models.SEOData](failureReason(ctx, err)), nil)
		return w.Product(productID)
	}

	// the provider's sku is a placeholder
	current, err := w.Product(productID)
	if err != nil {
		return models.Product{}, err
	}
	seo.SKU = services.DeriveSKU(current.Details.VendorCode, current.Details.CostPrice, current.Details.ProductType, w.now())
	w.setListing(productID, models.Succeeded(*seo), seo)
	return w.Product(productID)
}

func (w *Workflow) setListing(id string, state models.StageState[models.SEOData], seo *models.SEOData) {
	err := w.update(id, func(p *models.Product) error {
		p.Listing = state
		if seo != nil {
			record := *seo
			p.Details.SEO = &record
		}
		return nil
	})
	if err != nil {
		return
	}
	w.publishProduct(models.StageDetails, id, state.Status(), state.Reason())
}
