package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tempo-api/internal/dto"
	"github.com/noah-isme/tempo-api/internal/models"
	appErrors "github.com/noah-isme/tempo-api/pkg/errors"
	"github.com/noah-isme/tempo-api/pkg/response"
)

type timeSheetService interface {
	WeekView(ctx context.Context, claims *models.JWTClaims, anchorRaw string) (*dto.WeekView, error)
	Get(ctx context.Context, id string, claims *models.JWTClaims) (*dto.WeekView, error)
	List(ctx context.Context, claims *models.JWTClaims, limit int) ([]models.TimeSheet, error)
	SaveWeek(ctx context.Context, claims *models.JWTClaims, anchorRaw string, req dto.SaveWeekRequest) (*dto.SaveWeekResult, error)
	ResetWeek(ctx context.Context, claims *models.JWTClaims, anchorRaw string) (*dto.DeleteWeekResult, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest, claims *models.JWTClaims) (*models.TimeSheet, error)
	Delete(ctx context.Context, id string, claims *models.JWTClaims) error
}

// TimeSheetHandler serves the weekly sheet endpoints.
type TimeSheetHandler struct {
	service timeSheetService
}

// NewTimeSheetHandler creates a new handler.
func NewTimeSheetHandler(svc timeSheetService) *TimeSheetHandler {
	return &TimeSheetHandler{service: svc}
}

// CurrentWeek godoc
// @Summary Get a week sheet
// @Description Returns the caller's sheet for the week containing the anchor date, or an empty draft view when none exists
// @Tags TimeSheets
// @Produce json
// @Param week query string false "Anchor date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /time-sheets/current [get]
func (h *TimeSheetHandler) CurrentWeek(c *gin.Context) {
	view, err := h.service.WeekView(c.Request.Context(), claimsFromContext(c), c.Query("week"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// SaveWeek godoc
// @Summary Save a week
// @Description Replaces the persisted entries of the anchor week with the posted rows
// @Tags TimeSheets
// @Accept json
// @Produce json
// @Param week query string false "Anchor date (YYYY-MM-DD), defaults to today"
// @Param payload body dto.SaveWeekRequest true "Week rows"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /time-sheets/current [put]
func (h *TimeSheetHandler) SaveWeek(c *gin.Context) {
	var req dto.SaveWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid week payload"))
		return
	}

	result, err := h.service.SaveWeek(c.Request.Context(), claimsFromContext(c), c.Query("week"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// ResetWeek godoc
// @Summary Clear a week
// @Description Deletes every entry of the anchor week and resets the sheet to draft
// @Tags TimeSheets
// @Produce json
// @Param week query string false "Anchor date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /time-sheets/current [delete]
func (h *TimeSheetHandler) ResetWeek(c *gin.Context) {
	result, err := h.service.ResetWeek(c.Request.Context(), claimsFromContext(c), c.Query("week"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// List godoc
// @Summary List own sheets
// @Description Returns the caller's sheets, newest week first
// @Tags TimeSheets
// @Produce json
// @Param limit query int false "Maximum number of sheets"
// @Success 200 {object} response.Envelope
// @Router /time-sheets [get]
func (h *TimeSheetHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	sheets, err := h.service.List(c.Request.Context(), claimsFromContext(c), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sheets, nil)
}

// Get godoc
// @Summary Get a sheet by ID
// @Description Returns one sheet with its entries and reconciled rows
// @Tags TimeSheets
// @Produce json
// @Param id path string true "Time sheet ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /time-sheets/{id} [get]
func (h *TimeSheetHandler) Get(c *gin.Context) {
	view, err := h.service.Get(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// UpdateStatus godoc
// @Summary Update sheet status
// @Description Applies an owner-driven status transition (save, submit, reopen)
// @Tags TimeSheets
// @Accept json
// @Produce json
// @Param id path string true "Time sheet ID"
// @Param payload body dto.UpdateStatusRequest true "Target status"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /time-sheets/{id}/status [put]
func (h *TimeSheetHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}

	sheet, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sheet, nil)
}

// Delete godoc
// @Summary Delete a sheet
// @Description Deletes an unlocked sheet and all of its entries
// @Tags TimeSheets
// @Param id path string true "Time sheet ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /time-sheets/{id} [delete]
func (h *TimeSheetHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
