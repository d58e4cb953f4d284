package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tempo-api/internal/dto"
	"github.com/noah-isme/tempo-api/internal/models"
	appErrors "github.com/noah-isme/tempo-api/pkg/errors"
)

const supervisorCacheKey = "tempo:supervisors:%s"

type approvalStore interface {
	RecordDecision(ctx context.Context, record *models.ApprovalRecord) error
	History(ctx context.Context, sheetID string) ([]models.ApprovalRecord, error)
	ListPendingForSupervisor(ctx context.Context, supervisorID string) ([]dto.PendingSheet, error)
	ListAllForSupervisor(ctx context.Context, supervisorID string) ([]dto.PendingSheet, error)
	ListAllSubmitted(ctx context.Context) ([]dto.PendingSheet, error)
}

type approvalSheetStore interface {
	FindByID(ctx context.Context, id string) (*models.TimeSheet, error)
	UpdateStatus(ctx context.Context, id string, status models.SheetStatus) error
}

type approvalRelationStore interface {
	ListForCollaborator(ctx context.Context, collaboratorID string) ([]models.SupervisorRelation, error)
	Exists(ctx context.Context, collaboratorID, supervisorID string) (bool, error)
}

type approvalUserReader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// ApprovalService routes submitted sheets to their supervisors and records
// their decisions.
type ApprovalService struct {
	repo      approvalStore
	sheets    approvalSheetStore
	relations approvalRelationStore
	users     approvalUserReader
	cache     *CacheService
	cacheTTL  time.Duration
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewApprovalService builds an ApprovalService with sane defaults.
func NewApprovalService(
	repo approvalStore,
	sheets approvalSheetStore,
	relations approvalRelationStore,
	users approvalUserReader,
	cache *CacheService,
	cacheTTL time.Duration,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
) *ApprovalService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &ApprovalService{
		repo:      repo,
		sheets:    sheets,
		relations: relations,
		users:     users,
		cache:     cache,
		cacheTTL:  cacheTTL,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// Submit moves the caller's sheet to submitted, which locks it until a
// supervisor decides. At least one supervisor relation must exist.
func (s *ApprovalService) Submit(ctx context.Context, sheetID string, claims *models.JWTClaims) (*dto.SubmitResult, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	sheet, err := s.loadSheet(ctx, sheetID)
	if err != nil {
		return nil, err
	}
	if sheet.UserID != claims.UserID {
		return nil, appErrors.ErrForbidden
	}
	if !sheet.Status.Submittable() {
		if sheet.Locked() {
			return nil, appErrors.ErrSheetLocked
		}
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "sheet cannot be submitted from its current status")
	}

	supervisors, err := s.supervisorsFor(ctx, sheet.UserID)
	if err != nil {
		return nil, err
	}
	if len(supervisors) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no supervisor configured for this account")
	}

	if err := s.sheets.UpdateStatus(ctx, sheet.ID, models.StatusSubmitted); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to submit sheet")
	}

	s.logger.Info("sheet submitted",
		zap.String("sheet_id", sheet.ID),
		zap.String("user_id", claims.UserID),
		zap.Int("supervisors", len(supervisors)))

	return &dto.SubmitResult{
		TimeSheetID: sheet.ID,
		Supervisors: len(supervisors),
		Status:      models.StatusSubmitted,
	}, nil
}

// Approve records an approval decision on a submitted sheet.
func (s *ApprovalService) Approve(ctx context.Context, sheetID string, req dto.DecisionRequest, claims *models.JWTClaims) (*models.ApprovalRecord, error) {
	return s.decide(ctx, sheetID, models.ApprovalApprove, req, claims)
}

// Reject records a rejection, which reopens the sheet for the owner. A
// rejection always carries a comment explaining what to fix.
func (s *ApprovalService) Reject(ctx context.Context, sheetID string, req dto.DecisionRequest, claims *models.JWTClaims) (*models.ApprovalRecord, error) {
	if strings.TrimSpace(req.Comment) == "" {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "a rejection requires a comment")
	}
	return s.decide(ctx, sheetID, models.ApprovalReject, req, claims)
}

func (s *ApprovalService) decide(ctx context.Context, sheetID string, action models.ApprovalAction, req dto.DecisionRequest, claims *models.JWTClaims) (*models.ApprovalRecord, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	sheet, err := s.loadSheet(ctx, sheetID)
	if err != nil {
		return nil, err
	}
	if sheet.UserID == claims.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot decide on your own sheet")
	}
	if !sheet.Status.Decidable() {
		return nil, appErrors.Clone(appErrors.ErrConflict, "sheet is not awaiting a decision")
	}

	if claims.Role != models.RoleAdmin {
		allowed, err := s.relations.Exists(ctx, sheet.UserID, claims.UserID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to check supervisor relation")
		}
		if !allowed {
			return nil, appErrors.ErrForbidden
		}
	}

	record := &models.ApprovalRecord{
		TimeSheetID:  sheet.ID,
		SupervisorID: claims.UserID,
		Action:       action,
	}
	if comment := strings.TrimSpace(req.Comment); comment != "" {
		record.Comment = &comment
	}

	if err := s.repo.RecordDecision(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to record decision")
	}

	s.metrics.RecordDecision(action)
	s.logger.Info("decision recorded",
		zap.String("sheet_id", sheet.ID),
		zap.String("supervisor_id", claims.UserID),
		zap.String("action", string(action)))

	return record, nil
}

// History returns a sheet's decision trail, visible to the owner, any of the
// owner's supervisors and admins.
func (s *ApprovalService) History(ctx context.Context, sheetID string, claims *models.JWTClaims) ([]models.ApprovalRecord, error) {
	sheet, err := s.visibleSheet(ctx, sheetID, claims)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.History(ctx, sheet.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load history")
	}
	return records, nil
}

// Status returns the sheet's current state with its decision history.
func (s *ApprovalService) Status(ctx context.Context, sheetID string, claims *models.JWTClaims) (*dto.SheetStatusView, error) {
	sheet, err := s.visibleSheet(ctx, sheetID, claims)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.History(ctx, sheet.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load history")
	}

	view := &dto.SheetStatusView{
		TimeSheetID: sheet.ID,
		Status:      sheet.Status,
		WeekStart:   models.FormatDate(sheet.WeekStart),
		WeekEnd:     models.FormatDate(sheet.WeekEnd),
		Approvals:   records,
	}
	if owner, err := s.users.FindByID(ctx, sheet.UserID); err == nil {
		view.OwnerName = owner.FullName
		view.OwnerEmail = owner.Email
	}
	return view, nil
}

// Pending returns the submitted sheets awaiting the caller's decision.
func (s *ApprovalService) Pending(ctx context.Context, claims *models.JWTClaims) ([]dto.PendingSheet, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	sheets, err := s.repo.ListPendingForSupervisor(ctx, claims.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list pending sheets")
	}
	return sheets, nil
}

// All returns every sheet the caller supervises, decided or not.
func (s *ApprovalService) All(ctx context.Context, claims *models.JWTClaims) ([]dto.PendingSheet, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	sheets, err := s.repo.ListAllForSupervisor(ctx, claims.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list supervised sheets")
	}
	return sheets, nil
}

// AllSubmitted returns every sheet past submission. Admin only.
func (s *ApprovalService) AllSubmitted(ctx context.Context, claims *models.JWTClaims) ([]dto.PendingSheet, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if claims.Role != models.RoleAdmin {
		return nil, appErrors.ErrForbidden
	}
	sheets, err := s.repo.ListAllSubmitted(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list submitted sheets")
	}
	return sheets, nil
}

// InvalidateSupervisors drops the cached supervisor set for a collaborator.
// Called whenever relations change.
func (s *ApprovalService) InvalidateSupervisors(ctx context.Context, collaboratorID string) {
	if err := s.cache.Invalidate(ctx, fmt.Sprintf(supervisorCacheKey, collaboratorID)); err != nil {
		s.logger.Warn("supervisor cache invalidation failed", zap.String("collaborateur_id", collaboratorID), zap.Error(err))
	}
}

func (s *ApprovalService) supervisorsFor(ctx context.Context, collaboratorID string) ([]models.SupervisorRelation, error) {
	key := fmt.Sprintf(supervisorCacheKey, collaboratorID)

	var cached []models.SupervisorRelation
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	relations, err := s.relations.ListForCollaborator(ctx, collaboratorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load supervisors")
	}
	_ = s.cache.Set(ctx, key, relations, s.cacheTTL)
	return relations, nil
}

func (s *ApprovalService) loadSheet(ctx context.Context, sheetID string) (*models.TimeSheet, error) {
	if sheetID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "sheet id is required")
	}
	sheet, err := s.sheets.FindByID(ctx, sheetID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "time sheet not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load time sheet")
	}
	return sheet, nil
}

func (s *ApprovalService) visibleSheet(ctx context.Context, sheetID string, claims *models.JWTClaims) (*models.TimeSheet, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	sheet, err := s.loadSheet(ctx, sheetID)
	if err != nil {
		return nil, err
	}
	if sheet.UserID == claims.UserID || claims.Role == models.RoleAdmin {
		return sheet, nil
	}
	allowed, err := s.relations.Exists(ctx, sheet.UserID, claims.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to check supervisor relation")
	}
	if !allowed {
		return nil, appErrors.ErrForbidden
	}
	return sheet, nil
}
