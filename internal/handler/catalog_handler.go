package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tempo-api/internal/models"
	"github.com/noah-isme/tempo-api/pkg/response"
)

type catalogService interface {
	Missions(ctx context.Context, claims *models.JWTClaims) ([]models.Mission, error)
	Activities(ctx context.Context, claims *models.JWTClaims) ([]models.InternalActivity, error)
}

// CatalogHandler serves the mission and activity reference data.
type CatalogHandler struct {
	service catalogService
}

// NewCatalogHandler creates a new handler.
func NewCatalogHandler(svc catalogService) *CatalogHandler {
	return &CatalogHandler{service: svc}
}

// Missions godoc
// @Summary List missions
// @Description Returns active missions with their active tasks
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /missions [get]
func (h *CatalogHandler) Missions(c *gin.Context) {
	missions, err := h.service.Missions(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, missions, nil)
}

// Activities godoc
// @Summary List internal activities
// @Description Returns the active internal activities available for non-billable rows
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /internal-activities [get]
func (h *CatalogHandler) Activities(c *gin.Context) {
	activities, err := h.service.Activities(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, activities, nil)
}
