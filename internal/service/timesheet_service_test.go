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

func newTimeSheetService(sheets *sheetStoreStub, entries *entryStoreStub, catalog catalogStub, relations relationsStub) *TimeSheetService {
	return NewTimeSheetService(sheets, entries, catalog, relations, nil, nil, nil)
}

func billableCatalog() catalogStub {
	return catalogStub{
		missions: map[string]*models.Mission{
			"mission-1": {ID: "mission-1", Name: "Projet Alpha", Active: true},
			"mission-2": {ID: "mission-2", Name: "Projet Beta", Active: true, AllowTasklessBilling: true},
		},
		taskPairs:  map[string]bool{"task-1|mission-1": true},
		activities: map[string]bool{"activity-1": true},
	}
}

func TestWeekViewServesVirtualDraft(t *testing.T) {
	svc := newTimeSheetService(&sheetStoreStub{}, &entryStoreStub{}, billableCatalog(), relationsStub{})

	view, err := svc.WeekView(context.Background(), employeeClaims("user-1"), "2024-06-13")
	require.NoError(t, err)
	assert.Empty(t, view.TimeSheet.ID)
	assert.Equal(t, models.StatusDraft, view.TimeSheet.Status)
	assert.Equal(t, "2024-06-10", view.WeekStart)
	assert.Equal(t, "2024-06-16", view.WeekEnd)
	assert.False(t, view.Locked)
	assert.Empty(t, view.Rows)
}

func TestWeekViewReconcilesExistingSheet(t *testing.T) {
	monday := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	sheet := &models.TimeSheet{ID: "sheet-1", UserID: "user-1", WeekStart: monday, WeekEnd: monday.AddDate(0, 0, 6), Status: models.StatusSaved}
	missionID := "mission-1"
	taskID := "task-1"
	sheets := &sheetStoreStub{
		byWeek: map[string]*models.TimeSheet{weekKey("user-1", monday): sheet},
		stats:  &models.SheetStatistics{TotalEntries: 2, TotalHC: 8, TotalHours: 8},
	}
	entries := &entryStoreStub{entries: []models.TimeEntry{
		{ID: "e1", Date: monday, Hours: 5, Category: models.HoursBillable, MissionID: &missionID, TaskID: &taskID},
		{ID: "e2", Date: monday.AddDate(0, 0, 1), Hours: 3, Category: models.HoursBillable, MissionID: &missionID, TaskID: &taskID},
	}}
	svc := newTimeSheetService(sheets, entries, billableCatalog(), relationsStub{})

	view, err := svc.WeekView(context.Background(), employeeClaims("user-1"), "2024-06-13")
	require.NoError(t, err)
	require.Len(t, view.Rows, 1)
	assert.InDelta(t, 5, view.Rows[0].Days[0], 1e-9)
	assert.InDelta(t, 3, view.Rows[0].Days[1], 1e-9)
	assert.InDelta(t, 8, view.Rows[0].Total, 1e-9)
	assert.Equal(t, 2, view.Statistics.TotalEntries)
}

func TestSaveWeekSkipsZeroCellsAndMarksSaved(t *testing.T) {
	sheets := &sheetStoreStub{}
	entries := &entryStoreStub{deletedQty: 4}
	svc := newTimeSheetService(sheets, entries, billableCatalog(), relationsStub{})

	req := dto.SaveWeekRequest{Rows: []dto.RowPayload{
		{Category: "HC", MissionID: "mission-1", TaskID: "task-1", Days: [7]float64{7, 0, 3, 0, 0, 0, 0}},
		{Category: "HNC", ActivityID: "activity-1", Days: [7]float64{0, 0, 0, 0, 8, 0, 0}},
	}}

	result, err := svc.SaveWeek(context.Background(), employeeClaims("user-1"), "2024-06-13", req)
	require.NoError(t, err)
	assert.Equal(t, 4, result.Deleted)
	assert.Equal(t, 3, result.Inserted)
	require.Len(t, entries.replaced, 3)
	assert.Equal(t, models.StatusSaved, result.TimeSheet.Status)

	monday := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	assert.True(t, entries.replaced[0].Date.Equal(monday))
	assert.True(t, entries.replaced[1].Date.Equal(monday.AddDate(0, 0, 2)))
	assert.True(t, entries.replaced[2].Date.Equal(monday.AddDate(0, 0, 4)))
	assert.Equal(t, models.HoursNonBillable, entries.replaced[2].Category)
}

func TestSaveWeekRefusesLockedSheet(t *testing.T) {
	monday := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	sheet := &models.TimeSheet{ID: "sheet-1", UserID: "user-1", WeekStart: monday, Status: models.StatusSubmitted}
	sheets := &sheetStoreStub{byWeek: map[string]*models.TimeSheet{weekKey("user-1", monday): sheet}}
	svc := newTimeSheetService(sheets, &entryStoreStub{}, billableCatalog(), relationsStub{})

	_, err := svc.SaveWeek(context.Background(), employeeClaims("user-1"), "2024-06-13", dto.SaveWeekRequest{})
	require.Error(t, err)
	assert.Equal(t, "SHEET_LOCKED", appErrors.FromError(err).Code)
}

func TestSaveWeekRejectsUnknownMission(t *testing.T) {
	svc := newTimeSheetService(&sheetStoreStub{}, &entryStoreStub{}, billableCatalog(), relationsStub{})

	req := dto.SaveWeekRequest{Rows: []dto.RowPayload{
		{Category: "HC", MissionID: "mission-99", TaskID: "task-1", Days: [7]float64{1}},
	}}
	_, err := svc.SaveWeek(context.Background(), employeeClaims("user-1"), "2024-06-13", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSaveWeekRejectsTasklessRowWhenMissionRequiresTask(t *testing.T) {
	svc := newTimeSheetService(&sheetStoreStub{}, &entryStoreStub{}, billableCatalog(), relationsStub{})

	req := dto.SaveWeekRequest{Rows: []dto.RowPayload{
		{Category: "HC", MissionID: "mission-1", Days: [7]float64{1}},
	}}
	_, err := svc.SaveWeek(context.Background(), employeeClaims("user-1"), "2024-06-13", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSaveWeekAllowsTasklessBillingWhenConfigured(t *testing.T) {
	entries := &entryStoreStub{}
	svc := newTimeSheetService(&sheetStoreStub{}, entries, billableCatalog(), relationsStub{})

	req := dto.SaveWeekRequest{Rows: []dto.RowPayload{
		{Category: "HC", MissionID: "mission-2", Days: [7]float64{2}},
	}}
	result, err := svc.SaveWeek(context.Background(), employeeClaims("user-1"), "2024-06-13", req)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
	assert.Nil(t, entries.replaced[0].TaskID)
}

func TestSaveWeekConflictsWithInFlightSave(t *testing.T) {
	svc := newTimeSheetService(&sheetStoreStub{}, &entryStoreStub{}, billableCatalog(), relationsStub{})
	monday := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	require.True(t, svc.acquireWeek("user-1", monday))
	defer svc.releaseWeek("user-1", monday)

	_, err := svc.SaveWeek(context.Background(), employeeClaims("user-1"), "2024-06-13", dto.SaveWeekRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestResetWeekClearsEntriesAndStatus(t *testing.T) {
	monday := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	sheet := &models.TimeSheet{ID: "sheet-1", UserID: "user-1", WeekStart: monday, Status: models.StatusSaved}
	sheets := &sheetStoreStub{byWeek: map[string]*models.TimeSheet{weekKey("user-1", monday): sheet}}
	entries := &entryStoreStub{deletedQty: 6}
	svc := newTimeSheetService(sheets, entries, billableCatalog(), relationsStub{})

	result, err := svc.ResetWeek(context.Background(), employeeClaims("user-1"), "2024-06-13")
	require.NoError(t, err)
	assert.Equal(t, 6, result.Deleted)
	assert.Equal(t, models.StatusDraft, sheets.statusUpdates["sheet-1"])
}

func TestUpdateStatusSubmitRequiresSupervisor(t *testing.T) {
	sheet := &models.TimeSheet{ID: "sheet-1", UserID: "user-1", Status: models.StatusSaved}
	sheets := &sheetStoreStub{byID: map[string]*models.TimeSheet{"sheet-1": sheet}}
	svc := newTimeSheetService(sheets, &entryStoreStub{}, billableCatalog(), relationsStub{})

	_, err := svc.UpdateStatus(context.Background(), "sheet-1", dto.UpdateStatusRequest{Status: "submitted"}, employeeClaims("user-1"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestUpdateStatusSubmitsWithSupervisor(t *testing.T) {
	sheet := &models.TimeSheet{ID: "sheet-1", UserID: "user-1", Status: models.StatusSaved}
	sheets := &sheetStoreStub{byID: map[string]*models.TimeSheet{"sheet-1": sheet}}
	relations := relationsStub{byCollaborator: map[string][]models.SupervisorRelation{
		"user-1": {{SupervisorID: "boss-1"}},
	}}
	svc := newTimeSheetService(sheets, &entryStoreStub{}, billableCatalog(), relations)

	updated, err := svc.UpdateStatus(context.Background(), "sheet-1", dto.UpdateStatusRequest{Status: "soumis"}, employeeClaims("user-1"))
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, updated.Status)
	assert.Equal(t, models.StatusSubmitted, sheets.statusUpdates["sheet-1"])
}

func TestUpdateStatusResetClearsEntries(t *testing.T) {
	monday := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	sheet := &models.TimeSheet{ID: "sheet-1", UserID: "user-1", WeekStart: monday, WeekEnd: monday.AddDate(0, 0, 6), Status: models.StatusSaved}
	sheets := &sheetStoreStub{byID: map[string]*models.TimeSheet{"sheet-1": sheet}}
	entries := &entryStoreStub{deletedQty: 1}
	svc := newTimeSheetService(sheets, entries, billableCatalog(), relationsStub{})

	updated, err := svc.UpdateStatus(context.Background(), "sheet-1", dto.UpdateStatusRequest{Status: "brouillon"}, employeeClaims("user-1"))
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, updated.Status)
	require.Len(t, entries.deletedRanges, 1)
	assert.Equal(t, "user-1|2024-06-10|2024-06-16", entries.deletedRanges[0])
	assert.Equal(t, models.StatusDraft, sheets.statusUpdates["sheet-1"])
}

func TestUpdateStatusRefusesDecisionTargets(t *testing.T) {
	sheet := &models.TimeSheet{ID: "sheet-1", UserID: "user-1", Status: models.StatusSubmitted}
	sheets := &sheetStoreStub{byID: map[string]*models.TimeSheet{"sheet-1": sheet}}
	svc := newTimeSheetService(sheets, &entryStoreStub{}, billableCatalog(), relationsStub{})

	_, err := svc.UpdateStatus(context.Background(), "sheet-1", dto.UpdateStatusRequest{Status: "approved"}, employeeClaims("user-1"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestGetForbiddenForOtherUser(t *testing.T) {
	sheet := &models.TimeSheet{ID: "sheet-1", UserID: "user-1", Status: models.StatusSaved}
	sheets := &sheetStoreStub{byID: map[string]*models.TimeSheet{"sheet-1": sheet}}
	svc := newTimeSheetService(sheets, &entryStoreStub{}, billableCatalog(), relationsStub{})

	_, err := svc.Get(context.Background(), "sheet-1", employeeClaims("user-2"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	_, err = svc.Get(context.Background(), "sheet-1", adminClaims("admin-1"))
	require.NoError(t, err)
}

func TestDeleteRefusesLockedSheet(t *testing.T) {
	sheet := &models.TimeSheet{ID: "sheet-1", UserID: "user-1", Status: models.StatusApproved}
	sheets := &sheetStoreStub{byID: map[string]*models.TimeSheet{"sheet-1": sheet}}
	svc := newTimeSheetService(sheets, &entryStoreStub{}, billableCatalog(), relationsStub{})

	err := svc.Delete(context.Background(), "sheet-1", employeeClaims("user-1"))
	require.Error(t, err)
	assert.Equal(t, "SHEET_LOCKED", appErrors.FromError(err).Code)
	assert.Empty(t, sheets.deleted)
}
