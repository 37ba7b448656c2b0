package models

import (
	"time"

	"github.com/lib/pq"
)

// ExportRecord is one published archive.
type ExportRecord struct {
	JsonModel
	SessionID    string         `gorm:"index;not null" json:"session_id"`
	Username     string         `gorm:"index;not null" json:"username"`
	ObjectKey    string         `gorm:"not null" json:"object_key"`
	ArchiveName  string         `json:"archive_name"`
	SizeBytes    int64          `json:"size_bytes"`
	ProductCount int            `json:"product_count"`
	PublishedAt  time.Time      `json:"published_at"`
	Entries      []CatalogEntry `gorm:"foreignKey:ExportRecordID" json:"entries"`
}

// CatalogEntry is the persisted listing of one exported product.
type CatalogEntry struct {
	JsonModel
	ExportRecordID uint           `gorm:"index;not null" json:"export_record_id"`
	ProductID      string         `gorm:"not null" json:"product_id"`
	SKU            string         `gorm:"index" json:"sku"`
	Folder         string         `json:"folder"`
	VendorCode     string         `json:"vendor_code"`
	CostPrice      string         `json:"cost_price"`
	SalePrice      string         `json:"sale_price"`
	MRP            string         `json:"mrp"`
	Fabric         string         `json:"fabric"`
	Design         string         `json:"design"`
	BlouseIncluded string         `json:"blouse_included"`
	ProductType    ProductType    `json:"product_type"`
	Seasons        pq.StringArray `gorm:"type:text[]" json:"seasons"`
	Wear           pq.StringArray `gorm:"type:text[]" json:"wear"`
	SEOTitle       string         `json:"seo_title"`
	SEODescription string         `json:"seo_description"`
	Rating         float64        `json:"rating"`
	EngagementRate float64        `json:"engagement_rate"`
	ConversionRate float64        `json:"conversion_rate"`
	ImageCount     int            `json:"image_count"`
}

// ExportDigest summarises the exports published in one window.
type ExportDigest struct {
	From     time.Time `json:"from"`
	To       time.Time `json:"to"`
	Exports  int       `json:"exports"`
	Products int       `json:"products"`
	Users    []string  `json:"users"`
}
