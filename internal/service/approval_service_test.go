package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tempo-api/internal/dto"
	"github.com/noah-isme/tempo-api/internal/models"
	appErrors "github.com/noah-isme/tempo-api/pkg/errors"
)

func newApprovalService(repo *approvalStoreStub, sheets *sheetStoreStub, relations relationsStub, users userReaderStub) *ApprovalService {
	return NewApprovalService(repo, sheets, relations, users, nil, time.Minute, nil, nil, nil)
}

func submittedSheet(id, ownerID string) *models.TimeSheet {
	monday := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	return &models.TimeSheet{ID: id, UserID: ownerID, WeekStart: monday, WeekEnd: monday.AddDate(0, 0, 6), Status: models.StatusSubmitted}
}

func TestSubmitLocksSheetAndCountsSupervisors(t *testing.T) {
	sheet := &models.TimeSheet{ID: "sheet-1", UserID: "user-1", Status: models.StatusSaved}
	sheets := &sheetStoreStub{byID: map[string]*models.TimeSheet{"sheet-1": sheet}}
	relations := relationsStub{byCollaborator: map[string][]models.SupervisorRelation{
		"user-1": {{SupervisorID: "boss-1"}, {SupervisorID: "boss-2"}},
	}}
	svc := newApprovalService(&approvalStoreStub{}, sheets, relations, userReaderStub{})

	result, err := svc.Submit(context.Background(), "sheet-1", employeeClaims("user-1"))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Supervisors)
	assert.Equal(t, models.StatusSubmitted, result.Status)
	assert.Equal(t, models.StatusSubmitted, sheets.statusUpdates["sheet-1"])
}

func TestSubmitWithoutSupervisorFailsPrecondition(t *testing.T) {
	sheet := &models.TimeSheet{ID: "sheet-1", UserID: "user-1", Status: models.StatusSaved}
	sheets := &sheetStoreStub{byID: map[string]*models.TimeSheet{"sheet-1": sheet}}
	svc := newApprovalService(&approvalStoreStub{}, sheets, relationsStub{}, userReaderStub{})

	_, err := svc.Submit(context.Background(), "sheet-1", employeeClaims("user-1"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
	assert.Empty(t, sheets.statusUpdates)
}

func TestSubmitForeignSheetForbidden(t *testing.T) {
	sheet := &models.TimeSheet{ID: "sheet-1", UserID: "user-1", Status: models.StatusSaved}
	sheets := &sheetStoreStub{byID: map[string]*models.TimeSheet{"sheet-1": sheet}}
	svc := newApprovalService(&approvalStoreStub{}, sheets, relationsStub{}, userReaderStub{})

	_, err := svc.Submit(context.Background(), "sheet-1", employeeClaims("user-2"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestSubmitAlreadySubmittedReportsLocked(t *testing.T) {
	sheets := &sheetStoreStub{byID: map[string]*models.TimeSheet{"sheet-1": submittedSheet("sheet-1", "user-1")}}
	relations := relationsStub{byCollaborator: map[string][]models.SupervisorRelation{
		"user-1": {{SupervisorID: "boss-1"}},
	}}
	svc := newApprovalService(&approvalStoreStub{}, sheets, relations, userReaderStub{})

	_, err := svc.Submit(context.Background(), "sheet-1", employeeClaims("user-1"))
	require.Error(t, err)
	assert.Equal(t, "SHEET_LOCKED", appErrors.FromError(err).Code)
}

func TestApproveBySupervisor(t *testing.T) {
	repo := &approvalStoreStub{}
	sheets := &sheetStoreStub{byID: map[string]*models.TimeSheet{"sheet-1": submittedSheet("sheet-1", "user-1")}}
	relations := relationsStub{byCollaborator: map[string][]models.SupervisorRelation{
		"user-1": {{SupervisorID: "boss-1"}},
	}}
	svc := newApprovalService(repo, sheets, relations, userReaderStub{})

	record, err := svc.Approve(context.Background(), "sheet-1", dto.DecisionRequest{}, employeeClaims("boss-1"))
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalApprove, record.Action)
	assert.Nil(t, record.Comment)
	require.Len(t, repo.records, 1)
	assert.Equal(t, "boss-1", repo.records[0].SupervisorID)
}

func TestApproveByStrangerForbidden(t *testing.T) {
	sheets := &sheetStoreStub{byID: map[string]*models.TimeSheet{"sheet-1": submittedSheet("sheet-1", "user-1")}}
	svc := newApprovalService(&approvalStoreStub{}, sheets, relationsStub{}, userReaderStub{})

	_, err := svc.Approve(context.Background(), "sheet-1", dto.DecisionRequest{}, employeeClaims("stranger"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestApproveOwnSheetForbidden(t *testing.T) {
	sheets := &sheetStoreStub{byID: map[string]*models.TimeSheet{"sheet-1": submittedSheet("sheet-1", "user-1")}}
	relations := relationsStub{byCollaborator: map[string][]models.SupervisorRelation{
		"user-1": {{SupervisorID: "user-1"}},
	}}
	svc := newApprovalService(&approvalStoreStub{}, sheets, relations, userReaderStub{})

	_, err := svc.Approve(context.Background(), "sheet-1", dto.DecisionRequest{}, adminClaims("user-1"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestApproveUndecidableSheetConflicts(t *testing.T) {
	relations := relationsStub{byCollaborator: map[string][]models.SupervisorRelation{
		"user-1": {{SupervisorID: "boss-1"}},
	}}

	for _, status := range []models.SheetStatus{models.StatusSaved, models.StatusApproved, models.StatusRejected} {
		sheet := &models.TimeSheet{ID: "sheet-1", UserID: "user-1", Status: status}
		sheets := &sheetStoreStub{byID: map[string]*models.TimeSheet{"sheet-1": sheet}}
		svc := newApprovalService(&approvalStoreStub{}, sheets, relations, userReaderStub{})

		_, err := svc.Approve(context.Background(), "sheet-1", dto.DecisionRequest{}, employeeClaims("boss-1"))
		require.Error(t, err, "status %s", status)
		assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code, "status %s", status)
	}
}

func TestRejectRequiresComment(t *testing.T) {
	sheets := &sheetStoreStub{byID: map[string]*models.TimeSheet{"sheet-1": submittedSheet("sheet-1", "user-1")}}
	relations := relationsStub{byCollaborator: map[string][]models.SupervisorRelation{
		"user-1": {{SupervisorID: "boss-1"}},
	}}
	svc := newApprovalService(&approvalStoreStub{}, sheets, relations, userReaderStub{})

	_, err := svc.Reject(context.Background(), "sheet-1", dto.DecisionRequest{Comment: "   "}, employeeClaims("boss-1"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)

	record, err := svc.Reject(context.Background(), "sheet-1", dto.DecisionRequest{Comment: "missing mondays"}, employeeClaims("boss-1"))
	require.NoError(t, err)
	require.NotNil(t, record.Comment)
	assert.Equal(t, "missing mondays", *record.Comment)
}

func TestAdminMayDecideWithoutRelation(t *testing.T) {
	repo := &approvalStoreStub{}
	sheets := &sheetStoreStub{byID: map[string]*models.TimeSheet{"sheet-1": submittedSheet("sheet-1", "user-1")}}
	svc := newApprovalService(repo, sheets, relationsStub{}, userReaderStub{})

	_, err := svc.Approve(context.Background(), "sheet-1", dto.DecisionRequest{}, adminClaims("admin-1"))
	require.NoError(t, err)
	require.Len(t, repo.records, 1)
}

func TestStatusIncludesOwnerAndHistory(t *testing.T) {
	repo := &approvalStoreStub{history: []models.ApprovalRecord{{ID: "a1", Action: models.ApprovalReject}}}
	sheets := &sheetStoreStub{byID: map[string]*models.TimeSheet{"sheet-1": submittedSheet("sheet-1", "user-1")}}
	users := userReaderStub{users: map[string]*models.User{
		"user-1": {ID: "user-1", FullName: "Marie Dupont", Email: "marie@example.com"},
	}}
	svc := newApprovalService(repo, sheets, relationsStub{}, users)

	view, err := svc.Status(context.Background(), "sheet-1", employeeClaims("user-1"))
	require.NoError(t, err)
	assert.Equal(t, "Marie Dupont", view.OwnerName)
	assert.Equal(t, "2024-06-10", view.WeekStart)
	require.Len(t, view.Approvals, 1)
}

func TestAllSubmittedAdminOnly(t *testing.T) {
	repo := &approvalStoreStub{submitted: []dto.PendingSheet{{ID: "sheet-1"}}}
	svc := newApprovalService(repo, &sheetStoreStub{}, relationsStub{}, userReaderStub{})

	_, err := svc.AllSubmitted(context.Background(), employeeClaims("user-1"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	sheets, err := svc.AllSubmitted(context.Background(), adminClaims("admin-1"))
	require.NoError(t, err)
	require.Len(t, sheets, 1)
}
