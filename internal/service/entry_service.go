package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tempo-api/internal/dto"
	"github.com/noah-isme/tempo-api/internal/models"
	appErrors "github.com/noah-isme/tempo-api/pkg/errors"
)

type singleEntryStore interface {
	FindByID(ctx context.Context, id string) (*models.TimeEntry, error)
	ListByOwnerAndRange(ctx context.Context, userID string, from, to time.Time) ([]models.TimeEntry, error)
	Create(ctx context.Context, entry *models.TimeEntry) error
	UpdateHours(ctx context.Context, id string, hours float64) error
	Delete(ctx context.Context, id string) error
}

type entrySheetReader interface {
	FindByID(ctx context.Context, id string) (*models.TimeSheet, error)
}

// EntryService handles single-cell mutations outside the bulk save-week
// path, with the same lock and catalog rules.
type EntryService struct {
	entries   singleEntryStore
	sheets    entrySheetReader
	catalog   catalogReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEntryService builds an EntryService with sane defaults.
func NewEntryService(
	entries singleEntryStore,
	sheets entrySheetReader,
	catalog catalogReader,
	validate *validator.Validate,
	logger *zap.Logger,
) *EntryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EntryService{entries: entries, sheets: sheets, catalog: catalog, validator: validate, logger: logger}
}

// Create adds one hour cell to an unlocked sheet the caller owns. The date
// must fall inside the sheet's week.
func (s *EntryService) Create(ctx context.Context, req dto.CreateEntryRequest, claims *models.JWTClaims) (*models.TimeEntry, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid entry payload")
	}

	sheet, err := s.ownedUnlockedSheet(ctx, req.TimeSheetID, claims)
	if err != nil {
		return nil, err
	}

	date, err := models.ParseDate(req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date, expected YYYY-MM-DD")
	}
	if !models.WithinWeek(date, sheet.WeekStart) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date falls outside the sheet week")
	}

	key := models.EntryKey{
		Category:   models.HoursCategory(req.Category),
		MissionID:  req.MissionID,
		TaskID:     req.TaskID,
		ActivityID: req.ActivityID,
	}
	if !key.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "entry key is structurally invalid")
	}
	if err := s.checkCatalog(ctx, key); err != nil {
		return nil, err
	}

	entry := &models.TimeEntry{
		TimeSheetID: sheet.ID,
		UserID:      sheet.UserID,
		Date:        date,
		Hours:       req.Hours,
		Category:    key.Category,
	}
	if key.Category == models.HoursBillable {
		missionID := key.MissionID
		entry.MissionID = &missionID
		if key.TaskID != "" {
			taskID := key.TaskID
			entry.TaskID = &taskID
		}
	} else {
		activityID := key.ActivityID
		entry.ActivityID = &activityID
	}

	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to create entry")
	}
	return entry, nil
}

// UpdateHours overwrites the hour amount of one cell. Setting it to zero
// removes the cell, since zero-hour entries are never stored.
func (s *EntryService) UpdateHours(ctx context.Context, id string, req dto.UpdateEntryRequest, claims *models.JWTClaims) (*models.TimeEntry, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid entry payload")
	}

	entry, err := s.ownedEntry(ctx, id, claims)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedUnlockedSheet(ctx, entry.TimeSheetID, claims); err != nil {
		return nil, err
	}

	if req.Hours == 0 {
		if err := s.entries.Delete(ctx, id); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to delete entry")
		}
		entry.Hours = 0
		return entry, nil
	}

	if err := s.entries.UpdateHours(ctx, id, req.Hours); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to update entry")
	}
	entry.Hours = req.Hours
	return entry, nil
}

// Delete removes one cell from an unlocked sheet.
func (s *EntryService) Delete(ctx context.Context, id string, claims *models.JWTClaims) error {
	if claims == nil {
		return appErrors.ErrUnauthorized
	}
	entry, err := s.ownedEntry(ctx, id, claims)
	if err != nil {
		return err
	}
	if _, err := s.ownedUnlockedSheet(ctx, entry.TimeSheetID, claims); err != nil {
		return err
	}
	if err := s.entries.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "entry not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to delete entry")
	}
	return nil
}

// ListRange returns a user's entries within a date range. Callers may only
// query themselves unless they are admins.
func (s *EntryService) ListRange(ctx context.Context, userID, fromRaw, toRaw string, claims *models.JWTClaims) ([]models.TimeEntry, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if userID == "" {
		userID = claims.UserID
	}
	if userID != claims.UserID && claims.Role != models.RoleAdmin {
		return nil, appErrors.ErrForbidden
	}

	from, err := models.ParseDate(fromRaw)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid week_start, expected YYYY-MM-DD")
	}
	to, err := models.ParseDate(toRaw)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid week_end, expected YYYY-MM-DD")
	}
	if to.Before(from) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "week_end is before week_start")
	}

	entries, err := s.entries.ListByOwnerAndRange(ctx, userID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list entries")
	}
	return entries, nil
}

func (s *EntryService) ownedEntry(ctx context.Context, id string, claims *models.JWTClaims) (*models.TimeEntry, error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "entry id is required")
	}
	entry, err := s.entries.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load entry")
	}
	if entry.UserID != claims.UserID && claims.Role != models.RoleAdmin {
		return nil, appErrors.ErrForbidden
	}
	return entry, nil
}

func (s *EntryService) ownedUnlockedSheet(ctx context.Context, sheetID string, claims *models.JWTClaims) (*models.TimeSheet, error) {
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
	if sheet.UserID != claims.UserID && claims.Role != models.RoleAdmin {
		return nil, appErrors.ErrForbidden
	}
	if sheet.Locked() {
		return nil, appErrors.ErrSheetLocked
	}
	return sheet, nil
}

func (s *EntryService) checkCatalog(ctx context.Context, key models.EntryKey) error {
	if key.Category == models.HoursBillable {
		mission, err := s.catalog.FindMission(ctx, key.MissionID)
		if err != nil {
			if err == sql.ErrNoRows {
				return appErrors.Clone(appErrors.ErrValidation, "unknown mission")
			}
			return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load mission")
		}
		if !mission.Active {
			return appErrors.Clone(appErrors.ErrValidation, "mission is inactive")
		}
		if key.TaskID == "" {
			if !mission.AllowTasklessBilling {
				return appErrors.Clone(appErrors.ErrValidation, "mission requires a task")
			}
			return nil
		}
		ok, err := s.catalog.TaskBelongsToMission(ctx, key.TaskID, key.MissionID)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to check task")
		}
		if !ok {
			return appErrors.Clone(appErrors.ErrValidation, "task does not belong to mission")
		}
		return nil
	}

	ok, err := s.catalog.ActivityExists(ctx, key.ActivityID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to check activity")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrValidation, "unknown internal activity")
	}
	return nil
}
