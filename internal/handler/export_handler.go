package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tempo-api/internal/models"
	"github.com/noah-isme/tempo-api/internal/service"
	"github.com/noah-isme/tempo-api/pkg/response"
)

type exportService interface {
	WeekExport(ctx context.Context, claims *models.JWTClaims, anchorRaw string, format service.ExportFormat) (*service.ExportFile, error)
}

// ExportHandler serves week exports as file downloads.
type ExportHandler struct {
	service exportService
}

// NewExportHandler creates a new handler.
func NewExportHandler(svc exportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Week godoc
// @Summary Export a week
// @Description Downloads the anchor week's reconciled rows as CSV or PDF
// @Tags Exports
// @Produce octet-stream
// @Param week query string false "Anchor date (YYYY-MM-DD), defaults to today"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /time-sheets/current/export [get]
func (h *ExportHandler) Week(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", string(service.ExportCSV)))

	file, err := h.service.WeekExport(c.Request.Context(), claimsFromContext(c), c.Query("week"), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Payload)
}
