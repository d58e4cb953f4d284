package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/tempo-api/internal/models"
	appErrors "github.com/noah-isme/tempo-api/pkg/errors"
)

type catalogStore interface {
	ListMissions(ctx context.Context) ([]models.Mission, error)
	ListActivities(ctx context.Context) ([]models.InternalActivity, error)
}

// CatalogService serves the booking catalogs the sheet editor offers.
type CatalogService struct {
	repo   catalogStore
	logger *zap.Logger
}

// NewCatalogService builds a CatalogService.
func NewCatalogService(repo catalogStore, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{repo: repo, logger: logger}
}

// Missions returns the active missions with their tasks.
func (s *CatalogService) Missions(ctx context.Context, claims *models.JWTClaims) ([]models.Mission, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	missions, err := s.repo.ListMissions(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list missions")
	}
	return missions, nil
}

// Activities returns the active internal activities.
func (s *CatalogService) Activities(ctx context.Context, claims *models.JWTClaims) ([]models.InternalActivity, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	activities, err := s.repo.ListActivities(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list internal activities")
	}
	return activities, nil
}
