package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tempo-api/internal/dto"
	"github.com/noah-isme/tempo-api/internal/models"
	"github.com/noah-isme/tempo-api/internal/repository"
	appErrors "github.com/noah-isme/tempo-api/pkg/errors"
)

type relationStore interface {
	Create(ctx context.Context, collaboratorID, supervisorID string) (*models.SupervisorRelation, error)
	Delete(ctx context.Context, collaboratorID, supervisorID string) error
	ListForCollaborator(ctx context.Context, collaboratorID string) ([]models.SupervisorRelation, error)
	ListCollaborators(ctx context.Context, supervisorID string) ([]models.SupervisorRelation, error)
	Exists(ctx context.Context, collaboratorID, supervisorID string) (bool, error)
	ListAllSupervisors(ctx context.Context) ([]models.User, error)
}

type relationUserReader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type supervisorCacheInvalidator interface {
	InvalidateSupervisors(ctx context.Context, collaboratorID string)
}

// SupervisorService manages the collaborator/supervisor relations the
// approval routing is built on.
type SupervisorService struct {
	repo      relationStore
	users     relationUserReader
	approvals supervisorCacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSupervisorService builds a SupervisorService with sane defaults.
func NewSupervisorService(
	repo relationStore,
	users relationUserReader,
	approvals supervisorCacheInvalidator,
	validate *validator.Validate,
	logger *zap.Logger,
) *SupervisorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SupervisorService{repo: repo, users: users, approvals: approvals, validator: validate, logger: logger}
}

// Create links a supervisor to a collaborator. Self-supervision and
// duplicate pairs are refused. Admin only.
func (s *SupervisorService) Create(ctx context.Context, req dto.CreateRelationRequest, claims *models.JWTClaims) (*models.SupervisorRelation, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if claims.Role != models.RoleAdmin {
		return nil, appErrors.ErrForbidden
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid relation payload")
	}
	if req.CollaboratorID == req.SupervisorID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "a collaborator cannot supervise themselves")
	}
	if err := s.ensureUser(ctx, req.CollaboratorID, "collaborator not found"); err != nil {
		return nil, err
	}
	if err := s.ensureUser(ctx, req.SupervisorID, "supervisor not found"); err != nil {
		return nil, err
	}

	relation, err := s.repo.Create(ctx, req.CollaboratorID, req.SupervisorID)
	if err != nil {
		if err == repository.ErrDuplicateRelation {
			return nil, appErrors.Clone(appErrors.ErrConflict, "relation already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to create relation")
	}

	if s.approvals != nil {
		s.approvals.InvalidateSupervisors(ctx, req.CollaboratorID)
	}
	s.logger.Info("supervisor relation created",
		zap.String("collaborateur_id", req.CollaboratorID),
		zap.String("supervisor_id", req.SupervisorID))
	return relation, nil
}

// Delete removes a relation pair. Admin only.
func (s *SupervisorService) Delete(ctx context.Context, collaboratorID, supervisorID string, claims *models.JWTClaims) error {
	if claims == nil {
		return appErrors.ErrUnauthorized
	}
	if claims.Role != models.RoleAdmin {
		return appErrors.ErrForbidden
	}
	if collaboratorID == "" || supervisorID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "collaborator and supervisor ids are required")
	}
	if err := s.repo.Delete(ctx, collaboratorID, supervisorID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "relation not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to delete relation")
	}
	if s.approvals != nil {
		s.approvals.InvalidateSupervisors(ctx, collaboratorID)
	}
	return nil
}

// Supervisors returns the supervisors configured for a collaborator. Owners
// may read their own list, admins anyone's.
func (s *SupervisorService) Supervisors(ctx context.Context, collaboratorID string, claims *models.JWTClaims) ([]models.SupervisorRelation, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if collaboratorID == "" {
		collaboratorID = claims.UserID
	}
	if collaboratorID != claims.UserID && claims.Role != models.RoleAdmin {
		return nil, appErrors.ErrForbidden
	}
	relations, err := s.repo.ListForCollaborator(ctx, collaboratorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list supervisors")
	}
	return relations, nil
}

// Collaborators returns everyone the caller supervises.
func (s *SupervisorService) Collaborators(ctx context.Context, claims *models.JWTClaims) ([]models.SupervisorRelation, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	relations, err := s.repo.ListCollaborators(ctx, claims.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list collaborators")
	}
	return relations, nil
}

// Check reports whether the caller supervises the given collaborator.
func (s *SupervisorService) Check(ctx context.Context, collaboratorID string, claims *models.JWTClaims) (*dto.RelationCheck, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if collaboratorID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "collaborator id is required")
	}
	ok, err := s.repo.Exists(ctx, collaboratorID, claims.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to check relation")
	}
	return &dto.RelationCheck{IsSupervisor: ok}, nil
}

// AllSupervisors lists every user acting as a supervisor. Admin only.
func (s *SupervisorService) AllSupervisors(ctx context.Context, claims *models.JWTClaims) ([]models.User, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if claims.Role != models.RoleAdmin {
		return nil, appErrors.ErrForbidden
	}
	users, err := s.repo.ListAllSupervisors(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list supervisors")
	}
	return users, nil
}

func (s *SupervisorService) ensureUser(ctx context.Context, id, missingMsg string) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, missingMsg)
		}
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load user")
	}
	if !user.Active {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "user account is inactive")
	}
	return nil
}
