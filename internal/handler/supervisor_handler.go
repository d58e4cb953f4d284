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

type supervisorService interface {
	Create(ctx context.Context, req dto.CreateRelationRequest, claims *models.JWTClaims) (*models.SupervisorRelation, error)
	Delete(ctx context.Context, collaboratorID, supervisorID string, claims *models.JWTClaims) error
	Supervisors(ctx context.Context, collaboratorID string, claims *models.JWTClaims) ([]models.SupervisorRelation, error)
	Collaborators(ctx context.Context, claims *models.JWTClaims) ([]models.SupervisorRelation, error)
	Check(ctx context.Context, collaboratorID string, claims *models.JWTClaims) (*dto.RelationCheck, error)
	AllSupervisors(ctx context.Context, claims *models.JWTClaims) ([]models.User, error)
}

// SupervisorHandler serves the supervisor relation endpoints.
type SupervisorHandler struct {
	service supervisorService
}

// NewSupervisorHandler creates a new handler.
func NewSupervisorHandler(svc supervisorService) *SupervisorHandler {
	return &SupervisorHandler{service: svc}
}

// Create godoc
// @Summary Create a supervisor relation
// @Description Links a supervisor to a collaborator, admin only
// @Tags Supervisors
// @Accept json
// @Produce json
// @Param payload body dto.CreateRelationRequest true "Relation payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /supervisors [post]
func (h *SupervisorHandler) Create(c *gin.Context) {
	var req dto.CreateRelationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid relation payload"))
		return
	}

	relation, err := h.service.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, relation)
}

// Delete godoc
// @Summary Delete a supervisor relation
// @Description Unlinks a supervisor from a collaborator, admin only
// @Tags Supervisors
// @Param collaboratorId path string true "Collaborator ID"
// @Param supervisorId path string true "Supervisor ID"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /supervisors/{collaboratorId}/{supervisorId} [delete]
func (h *SupervisorHandler) Delete(c *gin.Context) {
	err := h.service.Delete(c.Request.Context(), c.Param("collaboratorId"), c.Param("supervisorId"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Supervisors godoc
// @Summary List supervisors of a collaborator
// @Description Returns the supervisors configured for a collaborator; non-admins may only query themselves
// @Tags Supervisors
// @Produce json
// @Param collaboratorId path string true "Collaborator ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /supervisors/collaborator/{collaboratorId} [get]
func (h *SupervisorHandler) Supervisors(c *gin.Context) {
	relations, err := h.service.Supervisors(c.Request.Context(), c.Param("collaboratorId"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, relations, nil)
}

// Collaborators godoc
// @Summary List own collaborators
// @Description Returns the collaborators the caller supervises
// @Tags Supervisors
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /supervisors/collaborators [get]
func (h *SupervisorHandler) Collaborators(c *gin.Context) {
	relations, err := h.service.Collaborators(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, relations, nil)
}

// Check godoc
// @Summary Check a supervisor relation
// @Description Reports whether the caller supervises the given collaborator
// @Tags Supervisors
// @Produce json
// @Param collaboratorId path string true "Collaborator ID"
// @Success 200 {object} response.Envelope
// @Router /supervisors/check/{collaboratorId} [get]
func (h *SupervisorHandler) Check(c *gin.Context) {
	check, err := h.service.Check(c.Request.Context(), c.Param("collaboratorId"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, check, nil)
}

// All godoc
// @Summary List all supervisors
// @Description Returns every user that supervises at least one collaborator, admin only
// @Tags Supervisors
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /supervisors/all [get]
func (h *SupervisorHandler) All(c *gin.Context) {
	users, err := h.service.AllSupervisors(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, users, nil)
}
