package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/noah-isme/tempo-api/internal/dto"
	"github.com/noah-isme/tempo-api/internal/models"
)

type sheetStoreStub struct {
	byID          map[string]*models.TimeSheet
	byWeek        map[string]*models.TimeSheet
	created       []*models.TimeSheet
	statusUpdates map[string]models.SheetStatus
	deleted       []string
	stats         *models.SheetStatistics
	findErr       error
	updateErr     error
}

func weekKey(userID string, weekStart time.Time) string {
	return userID + "|" + models.FormatDate(weekStart)
}

func (s *sheetStoreStub) FindByID(ctx context.Context, id string) (*models.TimeSheet, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if sheet, ok := s.byID[id]; ok {
		return sheet, nil
	}
	return nil, sql.ErrNoRows
}

func (s *sheetStoreStub) FindByWeekStart(ctx context.Context, userID string, weekStart time.Time) (*models.TimeSheet, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if sheet, ok := s.byWeek[weekKey(userID, weekStart)]; ok {
		return sheet, nil
	}
	return nil, sql.ErrNoRows
}

func (s *sheetStoreStub) FindOrCreate(ctx context.Context, userID string, weekStart, weekEnd time.Time) (*models.TimeSheet, error) {
	if sheet, ok := s.byWeek[weekKey(userID, weekStart)]; ok {
		return sheet, nil
	}
	sheet := &models.TimeSheet{
		ID:        "sheet-" + models.FormatDate(weekStart),
		UserID:    userID,
		WeekStart: weekStart,
		WeekEnd:   weekEnd,
		Status:    models.StatusSaved,
	}
	if s.byWeek == nil {
		s.byWeek = map[string]*models.TimeSheet{}
	}
	s.byWeek[weekKey(userID, weekStart)] = sheet
	s.created = append(s.created, sheet)
	return sheet, nil
}

func (s *sheetStoreStub) UpdateStatus(ctx context.Context, id string, status models.SheetStatus) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	if s.statusUpdates == nil {
		s.statusUpdates = map[string]models.SheetStatus{}
	}
	s.statusUpdates[id] = status
	return nil
}

func (s *sheetStoreStub) ListByUser(ctx context.Context, userID string, limit int) ([]models.TimeSheet, error) {
	var sheets []models.TimeSheet
	for _, sheet := range s.byID {
		if sheet.UserID == userID {
			sheets = append(sheets, *sheet)
		}
	}
	return sheets, nil
}

func (s *sheetStoreStub) Delete(ctx context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *sheetStoreStub) Statistics(ctx context.Context, sheetID string) (*models.SheetStatistics, error) {
	if s.stats != nil {
		return s.stats, nil
	}
	return &models.SheetStatistics{}, nil
}

type entryStoreStub struct {
	entries       []models.TimeEntry
	replaced      []models.TimeEntry
	deletedQty    int
	deletedRanges []string
	deletedIDs    []string
	replaceErr    error
}

func (s *entryStoreStub) FindByID(ctx context.Context, id string) (*models.TimeEntry, error) {
	for i := range s.entries {
		if s.entries[i].ID == id {
			return &s.entries[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *entryStoreStub) ListBySheet(ctx context.Context, sheetID string) ([]models.TimeEntry, error) {
	return s.entries, nil
}

func (s *entryStoreStub) ListByOwnerAndRange(ctx context.Context, userID string, from, to time.Time) ([]models.TimeEntry, error) {
	var entries []models.TimeEntry
	for _, entry := range s.entries {
		if entry.UserID == userID && !entry.Date.Before(from) && !entry.Date.After(to) {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (s *entryStoreStub) Create(ctx context.Context, entry *models.TimeEntry) error {
	entry.ID = "entry-new"
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *entryStoreStub) UpdateHours(ctx context.Context, id string, hours float64) error {
	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries[i].Hours = hours
			return nil
		}
	}
	return sql.ErrNoRows
}

func (s *entryStoreStub) Delete(ctx context.Context, id string) error {
	s.deletedIDs = append(s.deletedIDs, id)
	return nil
}

func (s *entryStoreStub) ReplaceWeek(ctx context.Context, userID string, from, to time.Time, entries []models.TimeEntry) (int, error) {
	if s.replaceErr != nil {
		return 0, s.replaceErr
	}
	s.replaced = entries
	return s.deletedQty, nil
}

func (s *entryStoreStub) DeleteByOwnerAndRange(ctx context.Context, userID string, from, to time.Time) (int, error) {
	s.deletedRanges = append(s.deletedRanges, userID+"|"+models.FormatDate(from)+"|"+models.FormatDate(to))
	return s.deletedQty, nil
}

type catalogStub struct {
	missions   map[string]*models.Mission
	taskPairs  map[string]bool
	activities map[string]bool
}

func (s catalogStub) FindMission(ctx context.Context, id string) (*models.Mission, error) {
	if mission, ok := s.missions[id]; ok {
		return mission, nil
	}
	return nil, sql.ErrNoRows
}

func (s catalogStub) TaskBelongsToMission(ctx context.Context, taskID, missionID string) (bool, error) {
	return s.taskPairs[taskID+"|"+missionID], nil
}

func (s catalogStub) ActivityExists(ctx context.Context, id string) (bool, error) {
	return s.activities[id], nil
}

type relationsStub struct {
	byCollaborator map[string][]models.SupervisorRelation
	listErr        error
}

func (s relationsStub) ListForCollaborator(ctx context.Context, collaboratorID string) ([]models.SupervisorRelation, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.byCollaborator[collaboratorID], nil
}

func (s relationsStub) Exists(ctx context.Context, collaboratorID, supervisorID string) (bool, error) {
	for _, relation := range s.byCollaborator[collaboratorID] {
		if relation.SupervisorID == supervisorID {
			return true, nil
		}
	}
	return false, nil
}

type approvalStoreStub struct {
	records   []*models.ApprovalRecord
	history   []models.ApprovalRecord
	pending   []dto.PendingSheet
	all       []dto.PendingSheet
	submitted []dto.PendingSheet
	recordErr error
}

func (s *approvalStoreStub) RecordDecision(ctx context.Context, record *models.ApprovalRecord) error {
	if s.recordErr != nil {
		return s.recordErr
	}
	record.ID = "approval-new"
	s.records = append(s.records, record)
	return nil
}

func (s *approvalStoreStub) History(ctx context.Context, sheetID string) ([]models.ApprovalRecord, error) {
	return s.history, nil
}

func (s *approvalStoreStub) ListPendingForSupervisor(ctx context.Context, supervisorID string) ([]dto.PendingSheet, error) {
	return s.pending, nil
}

func (s *approvalStoreStub) ListAllForSupervisor(ctx context.Context, supervisorID string) ([]dto.PendingSheet, error) {
	return s.all, nil
}

func (s *approvalStoreStub) ListAllSubmitted(ctx context.Context) ([]dto.PendingSheet, error) {
	return s.submitted, nil
}

type userReaderStub struct {
	users map[string]*models.User
}

func (s userReaderStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func employeeClaims(userID string) *models.JWTClaims {
	return &models.JWTClaims{UserID: userID, Role: models.RoleEmployee}
}

func adminClaims(userID string) *models.JWTClaims {
	return &models.JWTClaims{UserID: userID, Role: models.RoleAdmin}
}
