package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "movierating/internal/errors"
	"movierating/internal/media"
	"movierating/internal/metrics"
)

// MediaHandler accepts file uploads.
type MediaHandler struct {
	media   *media.Service
	metrics *metrics.Metrics
}

// NewMediaHandler creates a media handler.
func NewMediaHandler(svc *media.Service, m *metrics.Metrics) *MediaHandler {
	return &MediaHandler{media: svc, metrics: m}
}

// Upload godoc
// @Summary Upload a media file
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Success 200 {object} media.Upload
// @Failure 400 {object} errors.ErrorResponse
// @Failure 413 {object} errors.ErrorResponse
// @Failure 415 {object} errors.ErrorResponse
// @Router /media [post]
func (h *MediaHandler) Upload(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		// Missing part, missing multipart body and body-limit overruns all land here.
		if tooLarge(err) {
			err = media.ErrFileTooLarge
		} else {
			err = media.ErrNoFile
		}
		h.metrics.RecordUpload(metrics.OutcomeRejected)
		return httpError(err)
	}

	upload, err := h.media.Upload(c.Request().Context(), file)
	if err != nil {
		if errors.Is(err, apperrors.ErrInternal) {
			h.metrics.RecordUpload(metrics.OutcomeFailure)
		} else {
			h.metrics.RecordUpload(metrics.OutcomeRejected)
		}
		return httpError(err)
	}
	h.metrics.RecordUpload(metrics.OutcomeSuccess)

	return c.JSON(http.StatusOK, upload)
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	var he *echo.HTTPError
	return errors.As(err, &he) && he.Code == http.StatusRequestEntityTooLarge
}
