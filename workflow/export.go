package workflow

import (
	"sareeapi/models"
	"sareeapi/services"
)

// ExportCandidates lists the products that go into the archive.
func (w *Workflow) ExportCandidates() []models.Product {
	return w.filter(func(p models.Product) bool {
		return p.Eligible(models.StagePhotography) && p.ExportSelected
	})
}

func (w *Workflow) exportable() ([]models.Product, error) {
	products := w.ExportCandidates()
	if len(products) == 0 {
		return nil, validation(MsgNothingToDownload)
	}
	return products, nil
}

// BuildArchive packages the export candidates into a zip named after today's date.
func (w *Workflow) BuildArchive() (*services.Archive, []models.Product, error) {
	products, err := w.exportable()
	if err != nil {
		return nil, nil, err
	}
	archive, err := services.BuildArchive(products, w.now())
	if err != nil {
		return nil, nil, err
	}
	return archive, products, nil
}

// CatalogSheet renders the export candidates as a spreadsheet.
func (w *Workflow) CatalogSheet() ([]byte, error) {
	products, err := w.exportable()
	if err != nil {
		return nil, err
	}
	return services.BuildCatalogSheet(products)
}
