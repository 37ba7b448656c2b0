package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"

	"sareeapi/models"
	"sareeapi/pkg/logger"
	"sareeapi/services"
	"sareeapi/tasks"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportController struct {
	AWSService services.AWSServiceProvider
	URLCache   services.URLCacheServiceProvider
	Queue      TaskEnqueuer
	Bucket     string
	Now        func() time.Time
}

func (controller *ExportController) ExportRoutes(g *echo.Group) {
	g.GET("", controller.Download)
	g.POST("/publish", controller.Publish)
	g.GET("/catalog.xlsx", controller.Catalog)
}

func attachment(c echo.Context, name string) {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
}

func (controller *ExportController) Download(c echo.Context) error {
	archive, _, err := currentSession(c).Workflow.BuildArchive()
	if err != nil {
		return errorResponse(c, err)
	}
	attachment(c, archive.Name)
	return c.Blob(http.StatusOK, "application/zip", archive.Data)
}

func (controller *ExportController) Catalog(c echo.Context) error {
	data, err := currentSession(c).Workflow.CatalogSheet()
	if err != nil {
		return errorResponse(c, err)
	}
	attachment(c, "catalog.xlsx")
	return c.Blob(http.StatusOK, xlsxContentType, data)
}

// Publish uploads the archive to R2 and queues the catalog record for the worker.
func (controller *ExportController) Publish(c echo.Context) error {
	if controller.AWSService == nil || controller.URLCache == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"message": "Publishing is not configured"})
	}
	s := currentSession(c)
	archive, products, err := s.Workflow.BuildArchive()
	if err != nil {
		return errorResponse(c, err)
	}

	ctx := c.Request().Context()
	now := controller.Now()
	key := services.ArchiveObjectKey(s.Username, archive.Name, now)
	if err := controller.AWSService.UploadObject(ctx, controller.Bucket, key, archive.Data, "application/zip"); err != nil {
		return errorResponse(c, fmt.Errorf("failed to upload archive: %w", err))
	}
	url, err := controller.URLCache.GetReadURL(ctx, key)
	if err != nil {
		return errorResponse(c, err)
	}

	log := logger.WithContext(logger.Fields{"session_id": s.ID, "object_key": key})
	if controller.Queue != nil {
		task, err := tasks.NewCatalogRecordTask(tasks.CatalogRecordPayload{
			SessionID:   s.ID,
			Username:    s.Username,
			ObjectKey:   key,
			ArchiveName: archive.Name,
			SizeBytes:   int64(len(archive.Data)),
			PublishedAt: now,
			Entries:     tasks.CatalogEntries(products, archive),
		})
		if err == nil {
			_, err = controller.Queue.Enqueue(task)
		}
		// the archive is already uploaded, the link is still useful
		if err != nil {
			sentry.CaptureException(err)
			log.Error("Failed to enqueue catalog record", err)
		}
	}
	log.Info("Archive published", logger.Fields{"products": len(products)})

	return c.JSON(http.StatusOK, models.PublishOut{
		ObjectKey:   key,
		DownloadURL: url,
		Products:    len(products),
	})
}
