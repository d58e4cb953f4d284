package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tempo-api/internal/dto"
	"github.com/noah-isme/tempo-api/internal/models"
	"github.com/noah-isme/tempo-api/internal/repository"
	appErrors "github.com/noah-isme/tempo-api/pkg/errors"
)

type supervisorRepoStub struct {
	relations map[string][]models.SupervisorRelation
	createErr error
	deleteErr error
	created   []models.SupervisorRelation
	deletions []string
}

func (s *supervisorRepoStub) Create(ctx context.Context, collaboratorID, supervisorID string) (*models.SupervisorRelation, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	relation := models.SupervisorRelation{ID: "rel-new", CollaboratorID: collaboratorID, SupervisorID: supervisorID}
	s.created = append(s.created, relation)
	return &relation, nil
}

func (s *supervisorRepoStub) Delete(ctx context.Context, collaboratorID, supervisorID string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deletions = append(s.deletions, collaboratorID+"|"+supervisorID)
	return nil
}

func (s *supervisorRepoStub) ListForCollaborator(ctx context.Context, collaboratorID string) ([]models.SupervisorRelation, error) {
	return s.relations[collaboratorID], nil
}

func (s *supervisorRepoStub) ListCollaborators(ctx context.Context, supervisorID string) ([]models.SupervisorRelation, error) {
	var result []models.SupervisorRelation
	for _, list := range s.relations {
		for _, relation := range list {
			if relation.SupervisorID == supervisorID {
				result = append(result, relation)
			}
		}
	}
	return result, nil
}

func (s *supervisorRepoStub) Exists(ctx context.Context, collaboratorID, supervisorID string) (bool, error) {
	for _, relation := range s.relations[collaboratorID] {
		if relation.SupervisorID == supervisorID {
			return true, nil
		}
	}
	return false, nil
}

func (s *supervisorRepoStub) ListAllSupervisors(ctx context.Context) ([]models.User, error) {
	return []models.User{{ID: "boss-1"}}, nil
}

type invalidatorStub struct {
	invalidated []string
}

func (s *invalidatorStub) InvalidateSupervisors(ctx context.Context, collaboratorID string) {
	s.invalidated = append(s.invalidated, collaboratorID)
}

func activeUsers(ids ...string) userReaderStub {
	users := make(map[string]*models.User, len(ids))
	for _, id := range ids {
		users[id] = &models.User{ID: id, Active: true}
	}
	return userReaderStub{users: users}
}

func TestCreateRelation(t *testing.T) {
	repo := &supervisorRepoStub{}
	invalidator := &invalidatorStub{}
	svc := NewSupervisorService(repo, activeUsers("collab-1", "boss-1"), invalidator, nil, nil)

	relation, err := svc.Create(context.Background(), dto.CreateRelationRequest{CollaboratorID: "collab-1", SupervisorID: "boss-1"}, adminClaims("admin-1"))
	require.NoError(t, err)
	assert.Equal(t, "collab-1", relation.CollaboratorID)
	assert.Equal(t, []string{"collab-1"}, invalidator.invalidated)
}

func TestCreateRelationNonAdminForbidden(t *testing.T) {
	svc := NewSupervisorService(&supervisorRepoStub{}, activeUsers(), nil, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateRelationRequest{CollaboratorID: "collab-1", SupervisorID: "boss-1"}, employeeClaims("user-1"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestCreateRelationRefusesSelfSupervision(t *testing.T) {
	svc := NewSupervisorService(&supervisorRepoStub{}, activeUsers("user-1"), nil, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateRelationRequest{CollaboratorID: "user-1", SupervisorID: "user-1"}, adminClaims("admin-1"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCreateRelationDuplicateConflicts(t *testing.T) {
	repo := &supervisorRepoStub{createErr: repository.ErrDuplicateRelation}
	svc := NewSupervisorService(repo, activeUsers("collab-1", "boss-1"), nil, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateRelationRequest{CollaboratorID: "collab-1", SupervisorID: "boss-1"}, adminClaims("admin-1"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestDeleteRelationMissingNotFound(t *testing.T) {
	repo := &supervisorRepoStub{deleteErr: sql.ErrNoRows}
	svc := NewSupervisorService(repo, activeUsers(), nil, nil, nil)

	err := svc.Delete(context.Background(), "collab-1", "boss-9", adminClaims("admin-1"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSupervisorsOwnListOnly(t *testing.T) {
	repo := &supervisorRepoStub{relations: map[string][]models.SupervisorRelation{
		"user-1": {{SupervisorID: "boss-1"}},
	}}
	svc := NewSupervisorService(repo, activeUsers(), nil, nil, nil)

	relations, err := svc.Supervisors(context.Background(), "", employeeClaims("user-1"))
	require.NoError(t, err)
	require.Len(t, relations, 1)

	_, err = svc.Supervisors(context.Background(), "user-1", employeeClaims("user-2"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestCheckRelation(t *testing.T) {
	repo := &supervisorRepoStub{relations: map[string][]models.SupervisorRelation{
		"user-1": {{SupervisorID: "boss-1"}},
	}}
	svc := NewSupervisorService(repo, activeUsers(), nil, nil, nil)

	check, err := svc.Check(context.Background(), "user-1", employeeClaims("boss-1"))
	require.NoError(t, err)
	assert.True(t, check.IsSupervisor)

	check, err = svc.Check(context.Background(), "user-1", employeeClaims("boss-2"))
	require.NoError(t, err)
	assert.False(t, check.IsSupervisor)
}
