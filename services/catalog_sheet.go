package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"sareeapi/languageutil"
	"sareeapi/models"
)

const catalogSheetName = "Catalog"

var catalogHeaders = []interface{}{
	"Folder", "SKU", "Vendor Code", "Fabric", "Design", "Cost Price", "Sale Price", "MRP",
	"Blouse Included", "Product Type", "Season", "Wear", "SEO Title", "SEO Description",
	"Rating", "Engagement Rate", "Conversion Rate",
}

func catalogRow(p models.Product) []interface{} {
	d := p.Details
	var title, description string
	if d.SEO != nil {
		title, description = d.SEO.SEOTitle, d.SEO.SEODescription
	}
	folder := p.SKU()
	if folder == "" {
		folder = p.ID
	}
	row := []interface{}{
		SafeFolderName(folder), p.SKU(), d.VendorCode, languageutil.Label(d.Fabric), languageutil.Label(d.Design),
		d.CostPrice, d.SalePrice, d.MRP, d.BlouseIncluded, string(d.ProductType),
		languageutil.JoinLabels(d.Season), languageutil.JoinLabels(d.Wear), title, description,
	}
	if p.Analysis != nil {
		return append(row, p.Analysis.Rating, p.Analysis.EngagementRate, p.Analysis.ConversionRate)
	}
	return append(row, "", "", "")
}

// BuildCatalogSheet renders one spreadsheet row per exported product.
func BuildCatalogSheet(products []models.Product) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), catalogSheetName); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := f.SetSheetRow(catalogSheetName, "A1", &catalogHeaders); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	lastColumn, _ := excelize.ColumnNumberToName(len(catalogHeaders))
	if err := f.SetCellStyle(catalogSheetName, "A1", lastColumn+"1", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for i, p := range products {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := catalogRow(p)
		if err := f.SetSheetRow(catalogSheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row for %s: %w", p.ID, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return buf.Bytes(), nil
}
