package controllers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"

	"sareeapi/models"
	"sareeapi/pkg/logger"
	"sareeapi/services"
	"sareeapi/session"
	"sareeapi/workflow"
)

const maxImageBytes = 15 << 20

func currentSession(c echo.Context) *session.Session {
	return c.Get("session").(*session.Session)
}

func currentUser(c echo.Context) models.User {
	return c.Get("currentUser").(models.User)
}

// errorResponse maps domain errors to a status and a user-facing message.
func errorResponse(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	message := "Something went wrong, please try again"
	switch {
	case services.IsValidationError(err):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, workflow.ErrProductNotFound),
		errors.Is(err, workflow.ErrShotNotFound),
		errors.Is(err, session.ErrCredentialNotFound),
		errors.Is(err, session.ErrVendorNotFound),
		errors.Is(err, session.ErrUserNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, workflow.ErrUnknownStage):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, workflow.ErrNotEligible),
		errors.Is(err, workflow.ErrNotStarted),
		errors.Is(err, services.ErrSourceShot):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, services.ErrNoCredential):
		status, message = http.StatusPreconditionFailed, "Please add a Google API key in settings first."
	case errors.Is(err, context.Canceled):
		status, message = http.StatusConflict, workflow.MsgCancelled
	default:
		sentry.CaptureException(err)
		logger.Error("Request failed", err, logger.Fields{"path": c.Path()})
	}
	return c.JSON(status, echo.Map{"message": message})
}

// bind decodes and validates a JSON body; the returned error is already an HTTP error.
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	return c.Validate(req)
}

func readImage(fh *multipart.FileHeader) (models.Image, error) {
	if fh.Size > maxImageBytes {
		return models.Image{}, services.NewValidationError(fmt.Sprintf("%s is larger than 15 MB.", fh.Filename))
	}
	f, err := fh.Open()
	if err != nil {
		return models.Image{}, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxImageBytes+1))
	if err != nil {
		return models.Image{}, err
	}
	mimeType, err := services.DetectImageMIME(data)
	if err != nil {
		return models.Image{}, services.NewValidationError(fmt.Sprintf("%s is not a supported image.", fh.Filename))
	}
	return models.NewImage(data, mimeType), nil
}

func imageBlob(c echo.Context, img models.Image, ok bool) error {
	if !ok || img.Empty() {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Image is not available"})
	}
	return c.Blob(http.StatusOK, img.MIMEType, img.Data)
}
