package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tempo-api/internal/dto"
	"github.com/noah-isme/tempo-api/internal/models"
	appErrors "github.com/noah-isme/tempo-api/pkg/errors"
	"github.com/noah-isme/tempo-api/pkg/response"
)

type entryService interface {
	Create(ctx context.Context, req dto.CreateEntryRequest, claims *models.JWTClaims) (*models.TimeEntry, error)
	ListRange(ctx context.Context, userID, fromRaw, toRaw string, claims *models.JWTClaims) ([]models.TimeEntry, error)
	UpdateHours(ctx context.Context, id string, req dto.UpdateEntryRequest, claims *models.JWTClaims) (*models.TimeEntry, error)
	Delete(ctx context.Context, id string, claims *models.JWTClaims) error
}

// EntryHandler serves single-cell entry endpoints.
type EntryHandler struct {
	service entryService
}

// NewEntryHandler creates a new handler.
func NewEntryHandler(svc entryService) *EntryHandler {
	return &EntryHandler{service: svc}
}

// Create godoc
// @Summary Create a time entry
// @Description Adds one hour cell to an unlocked sheet
// @Tags TimeEntries
// @Accept json
// @Produce json
// @Param payload body dto.CreateEntryRequest true "Entry payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /time-entries [post]
func (h *EntryHandler) Create(c *gin.Context) {
	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid entry payload"))
		return
	}

	entry, err := h.service.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// List godoc
// @Summary List time entries
// @Description Returns a user's entries within a date range; non-admins may only query themselves
// @Tags TimeEntries
// @Produce json
// @Param user_id query string false "User ID, defaults to the caller"
// @Param week_start query string true "Range start (YYYY-MM-DD)"
// @Param week_end query string true "Range end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /time-entries [get]
func (h *EntryHandler) List(c *gin.Context) {
	entries, err := h.service.ListRange(c.Request.Context(), c.Query("user_id"), c.Query("week_start"), c.Query("week_end"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Update godoc
// @Summary Update entry hours
// @Description Changes the hour value of an existing cell
// @Tags TimeEntries
// @Accept json
// @Produce json
// @Param id path string true "Entry ID"
// @Param payload body dto.UpdateEntryRequest true "New hours"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /time-entries/{id} [put]
func (h *EntryHandler) Update(c *gin.Context) {
	var req dto.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid entry payload"))
		return
	}

	entry, err := h.service.UpdateHours(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// Delete godoc
// @Summary Delete a time entry
// @Description Removes one cell from an unlocked sheet
// @Tags TimeEntries
// @Param id path string true "Entry ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /time-entries/{id} [delete]
func (h *EntryHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
