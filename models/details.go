package models

import (
	"regexp"
	"slices"

	"github.com/go-playground/validator"
)

type ProductType string

const (
	ProductTypeNOS      ProductType = "NOS"
	ProductTypeSeasonal ProductType = "Seasonal"
)

var productTypeRule = regexp.MustCompile("^(NOS|Seasonal)$")

func (l *ProductType) Scan(value interface{}) error {
	*l = ProductType(value.(string))
	return nil
}

func (l ProductType) Value() (string, error) {
	return string(l), nil
}

func ValidateProductType(fl validator.FieldLevel) bool {
	return productTypeRule.MatchString(fl.Field().String())
}

func ValidateProductTypeRaw(value string) bool {
	return productTypeRule.MatchString(value)
}

var Seasons = []string{"Summer", "Spring", "Winter", "Autumn", "Monsoon"}

var Occasions = []string{"Festival", "Party", "Family Gathering", "Wedding Receptions", "With Friends"}

type ProductDetails struct {
	VendorCode     string      `json:"vendorCode"`
	CostPrice      string      `json:"costPrice"`
	SalePrice      string      `json:"salePrice"`
	MRP            string      `json:"mrp"`
	Fabric         string      `json:"fabric"`
	Design         string      `json:"design"`
	BlouseIncluded string      `json:"blouseIncluded"`
	Season         []string    `json:"season"`
	Wear           []string    `json:"wear"`
	ProductType    ProductType `json:"productType"`
	SEO            *SEOData    `json:"seo,omitempty"`
}

func DefaultDetails() ProductDetails {
	return ProductDetails{
		BlouseIncluded: "Yes",
		ProductType:    ProductTypeSeasonal,
		Season:         []string{},
		Wear:           []string{},
	}
}

// Clone copies the slices and the SEO record so the copy can be mutated freely.
func (d ProductDetails) Clone() ProductDetails {
	out := d
	out.Season = slices.Clone(d.Season)
	out.Wear = slices.Clone(d.Wear)
	if out.Season == nil {
		out.Season = []string{}
	}
	if out.Wear == nil {
		out.Wear = []string{}
	}
	if d.SEO != nil {
		seo := *d.SEO
		out.SEO = &seo
	}
	return out
}

// DetailsPatch is a partial update of the user-entered detail fields.
type DetailsPatch struct {
	VendorCode     *string      `json:"vendor_code" validate:"omitempty,max=20"`
	CostPrice      *string      `json:"cost_price" validate:"omitempty,max=20"`
	SalePrice      *string      `json:"sale_price" validate:"omitempty,max=20"`
	MRP            *string      `json:"mrp" validate:"omitempty,max=20"`
	Fabric         *string      `json:"fabric" validate:"omitempty,max=100"`
	Design         *string      `json:"design" validate:"omitempty,max=200"`
	BlouseIncluded *string      `json:"blouse_included" validate:"omitempty,oneof=Yes No"`
	ProductType    *ProductType `json:"product_type" validate:"omitempty,producttype"`
}

type DetailField string

const (
	DetailFieldSeason DetailField = "season"
	DetailFieldWear   DetailField = "wear"
)

// Allowed returns the closed vocabulary of a list field.
func (f DetailField) Allowed() []string {
	switch f {
	case DetailFieldSeason:
		return Seasons
	case DetailFieldWear:
		return Occasions
	}
	return nil
}
