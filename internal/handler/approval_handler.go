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

type approvalService interface {
	Submit(ctx context.Context, sheetID string, claims *models.JWTClaims) (*dto.SubmitResult, error)
	Approve(ctx context.Context, sheetID string, req dto.DecisionRequest, claims *models.JWTClaims) (*models.ApprovalRecord, error)
	Reject(ctx context.Context, sheetID string, req dto.DecisionRequest, claims *models.JWTClaims) (*models.ApprovalRecord, error)
	History(ctx context.Context, sheetID string, claims *models.JWTClaims) ([]models.ApprovalRecord, error)
	Status(ctx context.Context, sheetID string, claims *models.JWTClaims) (*dto.SheetStatusView, error)
	Pending(ctx context.Context, claims *models.JWTClaims) ([]dto.PendingSheet, error)
	All(ctx context.Context, claims *models.JWTClaims) ([]dto.PendingSheet, error)
	AllSubmitted(ctx context.Context, claims *models.JWTClaims) ([]dto.PendingSheet, error)
}

// ApprovalHandler serves the submission and review endpoints.
type ApprovalHandler struct {
	service approvalService
}

// NewApprovalHandler creates a new handler.
func NewApprovalHandler(svc approvalService) *ApprovalHandler {
	return &ApprovalHandler{service: svc}
}

// Submit godoc
// @Summary Submit a sheet for review
// @Description Moves a saved sheet to submitted and locks it
// @Tags Approvals
// @Produce json
// @Param id path string true "Time sheet ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /time-sheets/{id}/submit [post]
func (h *ApprovalHandler) Submit(c *gin.Context) {
	result, err := h.service.Submit(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Approve godoc
// @Summary Approve a submitted sheet
// @Description Records an approval decision, the comment is optional
// @Tags Approvals
// @Accept json
// @Produce json
// @Param id path string true "Time sheet ID"
// @Param payload body dto.DecisionRequest false "Optional comment"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /time-sheets/{id}/approve [post]
func (h *ApprovalHandler) Approve(c *gin.Context) {
	req, err := h.bindDecision(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	record, err := h.service.Approve(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Reject godoc
// @Summary Reject a submitted sheet
// @Description Records a rejection, a non-empty comment is required
// @Tags Approvals
// @Accept json
// @Produce json
// @Param id path string true "Time sheet ID"
// @Param payload body dto.DecisionRequest true "Rejection comment"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /time-sheets/{id}/reject [post]
func (h *ApprovalHandler) Reject(c *gin.Context) {
	req, err := h.bindDecision(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	record, err := h.service.Reject(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// History godoc
// @Summary Approval history
// @Description Lists the decisions recorded for a sheet, newest first
// @Tags Approvals
// @Produce json
// @Param id path string true "Time sheet ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /time-sheets/{id}/approvals [get]
func (h *ApprovalHandler) History(c *gin.Context) {
	records, err := h.service.History(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// Status godoc
// @Summary Sheet status with history
// @Description Returns a sheet's status, owner info and decision history
// @Tags Approvals
// @Produce json
// @Param id path string true "Time sheet ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /time-sheets/{id}/status [get]
func (h *ApprovalHandler) Status(c *gin.Context) {
	view, err := h.service.Status(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Pending godoc
// @Summary Pending review queue
// @Description Lists submitted sheets of the caller's collaborators
// @Tags Approvals
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /approvals/pending [get]
func (h *ApprovalHandler) Pending(c *gin.Context) {
	sheets, err := h.service.Pending(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sheets, nil)
}

// All godoc
// @Summary Full review queue
// @Description Lists all sheets of the caller's collaborators regardless of status
// @Tags Approvals
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /approvals/all [get]
func (h *ApprovalHandler) All(c *gin.Context) {
	sheets, err := h.service.All(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sheets, nil)
}

// AllSubmitted godoc
// @Summary All submitted sheets
// @Description Lists every submitted sheet across the organisation, admin only
// @Tags Approvals
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /approvals/submitted [get]
func (h *ApprovalHandler) AllSubmitted(c *gin.Context) {
	sheets, err := h.service.AllSubmitted(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sheets, nil)
}

func (h *ApprovalHandler) bindDecision(c *gin.Context) (dto.DecisionRequest, error) {
	var req dto.DecisionRequest
	if c.Request.ContentLength == 0 {
		return req, nil
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid decision payload")
	}
	return req, nil
}
