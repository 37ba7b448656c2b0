package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"sareeapi/models"
	"sareeapi/pkg/logger"
	"sareeapi/services"
	"sareeapi/telegram"
)

const (
	TypeCatalogRecord = "catalog:record"
	TypeCatalogDigest = "catalog:digest"
	QueueCatalog      = "catalog"

	// DigestWindow is how far back a digest looks.
	DigestWindow = 24 * time.Hour
)

type CatalogRecordPayload struct {
	SessionID   string                `json:"session_id"`
	Username    string                `json:"username"`
	ObjectKey   string                `json:"object_key"`
	ArchiveName string                `json:"archive_name"`
	SizeBytes   int64                 `json:"size_bytes"`
	PublishedAt time.Time             `json:"published_at"`
	Entries     []models.CatalogEntry `json:"entries"`
}

func NewClient(brokerAddress string) *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{Addr: brokerAddress})
}

func NewCatalogRecordTask(payload CatalogRecordPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeCatalogRecord, data, asynq.MaxRetry(5), asynq.Queue(QueueCatalog)), nil
}

// CatalogEntries flattens the exported products into listing rows, one per archive folder.
func CatalogEntries(products []models.Product, archive *services.Archive) []models.CatalogEntry {
	folders := make(map[string]services.ArchiveFolder, len(archive.Folders))
	for _, f := range archive.Folders {
		folders[f.ProductID] = f
	}
	entries := make([]models.CatalogEntry, 0, len(products))
	for _, p := range products {
		d := p.Details
		entry := models.CatalogEntry{
			ProductID:      p.ID,
			SKU:            p.SKU(),
			VendorCode:     d.VendorCode,
			CostPrice:      d.CostPrice,
			SalePrice:      d.SalePrice,
			MRP:            d.MRP,
			Fabric:         d.Fabric,
			Design:         d.Design,
			BlouseIncluded: d.BlouseIncluded,
			ProductType:    d.ProductType,
			Seasons:        d.Season,
			Wear:           d.Wear,
		}
		if d.SEO != nil {
			entry.SEOTitle = d.SEO.SEOTitle
			entry.SEODescription = d.SEO.SEODescription
		}
		if p.Analysis != nil {
			entry.Rating = p.Analysis.Rating
			entry.EngagementRate = p.Analysis.EngagementRate
			entry.ConversionRate = p.Analysis.ConversionRate
		}
		if f, ok := folders[p.ID]; ok {
			entry.Folder = f.Name
			// every file but the details document is an image
			entry.ImageCount = max(len(f.Files)-1, 0)
		}
		entries = append(entries, entry)
	}
	return entries
}

// HandleCatalogRecordTask stores the published export and notifies the operations chat.
func HandleCatalogRecordTask(ctx context.Context, t *asynq.Task, db *gorm.DB, notifier telegram.Notifier) error {
	var payload CatalogRecordPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid %s payload: %v: %w", TypeCatalogRecord, err, asynq.SkipRetry)
	}
	log := logger.WithContext(logger.Fields{"session_id": payload.SessionID, "object_key": payload.ObjectKey})

	record := models.ExportRecord{
		SessionID:    payload.SessionID,
		Username:     payload.Username,
		ObjectKey:    payload.ObjectKey,
		ArchiveName:  payload.ArchiveName,
		SizeBytes:    payload.SizeBytes,
		ProductCount: len(payload.Entries),
		PublishedAt:  payload.PublishedAt,
		Entries:      payload.Entries,
	}

	var existing int64
	if err := db.WithContext(ctx).Model(&models.ExportRecord{}).Where("object_key = ?", payload.ObjectKey).Count(&existing).Error; err != nil {
		return fmt.Errorf("failed to check export record: %w", err)
	}
	if existing > 0 {
		log.Info("Export already recorded")
		return nil
	}
	if err := db.WithContext(ctx).Create(&record).Error; err != nil {
		sentry.CaptureException(err)
		return fmt.Errorf("failed to store export record: %w", err)
	}
	log.Info("Export recorded", logger.Fields{"record_id": record.ID, "products": record.ProductCount})

	// the record is stored; a failed notification must not make asynq store it again
	if err := notifier.NotifyExport(ctx, record); err != nil {
		sentry.CaptureException(err)
		log.Warn("Export notification failed", logger.Fields{"error": err.Error()})
	}
	return nil
}

func NewCatalogDigestTask() *asynq.Task {
	return asynq.NewTask(TypeCatalogDigest, nil, asynq.MaxRetry(2), asynq.Queue(QueueCatalog))
}

// BuildDigest counts the exports published in [to-DigestWindow, to).
func BuildDigest(ctx context.Context, db *gorm.DB, to time.Time) (models.ExportDigest, error) {
	digest := models.ExportDigest{From: to.Add(-DigestWindow), To: to, Users: []string{}}
	var records []models.ExportRecord
	err := db.WithContext(ctx).
		Where("published_at >= ? AND published_at < ?", digest.From, digest.To).
		Order("published_at").
		Find(&records).Error
	if err != nil {
		return digest, fmt.Errorf("failed to load export records: %w", err)
	}
	seen := map[string]bool{}
	for _, r := range records {
		digest.Exports++
		digest.Products += r.ProductCount
		if !seen[r.Username] {
			seen[r.Username] = true
			digest.Users = append(digest.Users, r.Username)
		}
	}
	return digest, nil
}

// HandleCatalogDigestTask sends the daily summary; quiet days send nothing.
func HandleCatalogDigestTask(ctx context.Context, t *asynq.Task, db *gorm.DB, notifier telegram.Notifier, now func() time.Time) error {
	digest, err := BuildDigest(ctx, db, now())
	if err != nil {
		return err
	}
	if digest.Exports == 0 {
		logger.Info("No exports for digest")
		return nil
	}
	if err := notifier.NotifyDigest(ctx, digest); err != nil {
		sentry.CaptureException(err)
		return fmt.Errorf("failed to send digest: %w", err)
	}
	logger.Info("Digest sent", logger.Fields{"exports": digest.Exports, "products": digest.Products})
	return nil
}
