package service

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tempo-api/internal/dto"
	"github.com/noah-isme/tempo-api/internal/models"
	appErrors "github.com/noah-isme/tempo-api/pkg/errors"
)

type sheetStore interface {
	FindByID(ctx context.Context, id string) (*models.TimeSheet, error)
	FindByWeekStart(ctx context.Context, userID string, weekStart time.Time) (*models.TimeSheet, error)
	FindOrCreate(ctx context.Context, userID string, weekStart, weekEnd time.Time) (*models.TimeSheet, error)
	UpdateStatus(ctx context.Context, id string, status models.SheetStatus) error
	ListByUser(ctx context.Context, userID string, limit int) ([]models.TimeSheet, error)
	Delete(ctx context.Context, id string) error
	Statistics(ctx context.Context, sheetID string) (*models.SheetStatistics, error)
}

type entryStore interface {
	ListBySheet(ctx context.Context, sheetID string) ([]models.TimeEntry, error)
	ReplaceWeek(ctx context.Context, userID string, from, to time.Time, entries []models.TimeEntry) (int, error)
	DeleteByOwnerAndRange(ctx context.Context, userID string, from, to time.Time) (int, error)
}

type catalogReader interface {
	FindMission(ctx context.Context, id string) (*models.Mission, error)
	TaskBelongsToMission(ctx context.Context, taskID, missionID string) (bool, error)
	ActivityExists(ctx context.Context, id string) (bool, error)
}

type relationCounter interface {
	ListForCollaborator(ctx context.Context, collaboratorID string) ([]models.SupervisorRelation, error)
}

// TimeSheetService orchestrates the weekly sheet workflows: viewing a week,
// replacing its entries, resetting it and moving it through its lifecycle.
type TimeSheetService struct {
	sheets    sheetStore
	entries   entryStore
	catalog   catalogReader
	relations relationCounter
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger

	// inFlight serialises save/reset per owner-week so two concurrent
	// delete-and-recreate units cannot interleave.
	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewTimeSheetService builds a TimeSheetService with sane defaults.
func NewTimeSheetService(
	sheets sheetStore,
	entries entryStore,
	catalog catalogReader,
	relations relationCounter,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
) *TimeSheetService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimeSheetService{
		sheets:    sheets,
		entries:   entries,
		catalog:   catalog,
		relations: relations,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		inFlight:  make(map[string]struct{}),
	}
}

// WeekView assembles the full payload for the week containing the anchor
// date (today when empty). A week nobody saved yet is served as a virtual
// draft with an empty sheet ID rather than being persisted on view.
func (s *TimeSheetService) WeekView(ctx context.Context, claims *models.JWTClaims, anchorRaw string) (*dto.WeekView, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	monday, sunday, err := s.resolveWeek(anchorRaw)
	if err != nil {
		return nil, err
	}

	sheet, err := s.sheets.FindByWeekStart(ctx, claims.UserID, monday)
	if err != nil {
		if err == sql.ErrNoRows {
			return &dto.WeekView{
				TimeSheet: &models.TimeSheet{
					UserID:    claims.UserID,
					WeekStart: monday,
					WeekEnd:   sunday,
					Status:    models.StatusDraft,
				},
				Entries:   []models.TimeEntry{},
				Rows:      []models.Row{},
				WeekStart: models.FormatDate(monday),
				WeekEnd:   models.FormatDate(sunday),
			}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load time sheet")
	}

	return s.buildView(ctx, sheet)
}

// Get returns the week view for an existing sheet.
func (s *TimeSheetService) Get(ctx context.Context, id string, claims *models.JWTClaims) (*dto.WeekView, error) {
	sheet, err := s.authorizedSheet(ctx, id, claims)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, sheet)
}

// List returns the caller's sheets, most recent week first.
func (s *TimeSheetService) List(ctx context.Context, claims *models.JWTClaims, limit int) ([]models.TimeSheet, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	sheets, err := s.sheets.ListByUser(ctx, claims.UserID, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list time sheets")
	}
	return sheets, nil
}

// SaveWeek replaces the persisted entries of the anchor week with the posted
// row state: every prior entry in the window is deleted and the non-zero
// cells are recreated, in one transaction. The sheet ends up saved.
func (s *TimeSheetService) SaveWeek(ctx context.Context, claims *models.JWTClaims, anchorRaw string, req dto.SaveWeekRequest) (*dto.SaveWeekResult, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid save payload")
	}
	monday, sunday, err := s.resolveWeek(anchorRaw)
	if err != nil {
		return nil, err
	}

	if !s.acquireWeek(claims.UserID, monday) {
		s.metrics.RecordSheetSave("conflict")
		return nil, appErrors.Clone(appErrors.ErrConflict, "a save is already in progress for this week")
	}
	defer s.releaseWeek(claims.UserID, monday)

	sheet, err := s.sheets.FindOrCreate(ctx, claims.UserID, monday, sunday)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to resolve time sheet")
	}
	if sheet.Locked() {
		s.metrics.RecordSheetSave("locked")
		return nil, appErrors.ErrSheetLocked
	}

	entries, err := s.buildEntries(ctx, sheet, monday, req.Rows)
	if err != nil {
		return nil, err
	}

	deleted, err := s.entries.ReplaceWeek(ctx, claims.UserID, monday, sunday, entries)
	if err != nil {
		s.metrics.RecordSheetSave("error")
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to save week")
	}

	if sheet.Status != models.StatusSaved {
		if err := s.sheets.UpdateStatus(ctx, sheet.ID, models.StatusSaved); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to mark sheet saved")
		}
		sheet.Status = models.StatusSaved
	}

	s.metrics.RecordSheetSave("saved")
	s.logger.Info("week saved",
		zap.String("user_id", claims.UserID),
		zap.String("week_start", models.FormatDate(monday)),
		zap.Int("deleted", deleted),
		zap.Int("inserted", len(entries)))

	return &dto.SaveWeekResult{TimeSheet: sheet, Deleted: deleted, Inserted: len(entries)}, nil
}

// ResetWeek clears every entry of the anchor week and puts the sheet back to
// draft. Locked sheets refuse the reset.
func (s *TimeSheetService) ResetWeek(ctx context.Context, claims *models.JWTClaims, anchorRaw string) (*dto.DeleteWeekResult, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	monday, sunday, err := s.resolveWeek(anchorRaw)
	if err != nil {
		return nil, err
	}

	if !s.acquireWeek(claims.UserID, monday) {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a save is already in progress for this week")
	}
	defer s.releaseWeek(claims.UserID, monday)

	sheet, err := s.sheets.FindByWeekStart(ctx, claims.UserID, monday)
	if err != nil && err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load time sheet")
	}
	if sheet != nil && sheet.Locked() {
		return nil, appErrors.ErrSheetLocked
	}

	deleted, err := s.entries.DeleteByOwnerAndRange(ctx, claims.UserID, monday, sunday)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to reset week")
	}
	if sheet != nil {
		if err := s.sheets.UpdateStatus(ctx, sheet.ID, models.StatusDraft); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to reset sheet status")
		}
	}
	return &dto.DeleteWeekResult{Deleted: deleted}, nil
}

// UpdateStatus applies an owner-side lifecycle change (save, submit, reset)
// through the transition table. Supervisor decisions go through the approval
// workflow, not here.
func (s *TimeSheetService) UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest, claims *models.JWTClaims) (*models.TimeSheet, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	target, ok := models.ParseSheetStatus(req.Status)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown status value")
	}

	sheet, err := s.authorizedSheet(ctx, id, claims)
	if err != nil {
		return nil, err
	}
	if claims.UserID != sheet.UserID {
		return nil, appErrors.ErrForbidden
	}

	action, ok := ownerAction(target)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "approval decisions go through the approvals endpoints")
	}
	next, ok := models.Transition(sheet.Status, action)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "status transition not allowed")
	}

	if action == models.ActionSubmit {
		supervisors, err := s.relations.ListForCollaborator(ctx, sheet.UserID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load supervisors")
		}
		if len(supervisors) == 0 {
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no supervisor configured for this account")
		}
	}

	// A reset back to draft clears the week's entries, same as the reset
	// endpoint.
	if action == models.ActionReset {
		if !s.acquireWeek(sheet.UserID, sheet.WeekStart) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "a save is already in progress for this week")
		}
		defer s.releaseWeek(sheet.UserID, sheet.WeekStart)

		if _, err := s.entries.DeleteByOwnerAndRange(ctx, sheet.UserID, sheet.WeekStart, sheet.WeekEnd); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to clear week entries")
		}
	}

	if err := s.sheets.UpdateStatus(ctx, sheet.ID, next); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to update status")
	}
	sheet.Status = next
	return sheet, nil
}

// Delete removes an unlocked sheet and, via the FK cascade, its entries.
func (s *TimeSheetService) Delete(ctx context.Context, id string, claims *models.JWTClaims) error {
	sheet, err := s.authorizedSheet(ctx, id, claims)
	if err != nil {
		return err
	}
	if sheet.Locked() {
		return appErrors.ErrSheetLocked
	}
	if err := s.sheets.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "time sheet not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to delete time sheet")
	}
	return nil
}

func (s *TimeSheetService) buildView(ctx context.Context, sheet *models.TimeSheet) (*dto.WeekView, error) {
	entries, err := s.entries.ListBySheet(ctx, sheet.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load entries")
	}
	stats, err := s.sheets.Statistics(ctx, sheet.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load statistics")
	}
	return &dto.WeekView{
		TimeSheet:  sheet,
		Entries:    entries,
		Rows:       models.Reconcile(entries),
		Statistics: *stats,
		WeekStart:  models.FormatDate(sheet.WeekStart),
		WeekEnd:    models.FormatDate(sheet.WeekEnd),
		Locked:     sheet.Locked(),
	}, nil
}

// buildEntries validates the posted rows against the catalog and expands
// their non-zero cells into dated entries.
func (s *TimeSheetService) buildEntries(ctx context.Context, sheet *models.TimeSheet, monday time.Time, rows []dto.RowPayload) ([]models.TimeEntry, error) {
	entries := make([]models.TimeEntry, 0, len(rows))
	for _, row := range rows {
		key := models.EntryKey{
			Category:   models.HoursCategory(row.Category),
			MissionID:  row.MissionID,
			TaskID:     row.TaskID,
			ActivityID: row.ActivityID,
		}
		if !key.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "row key is structurally invalid")
		}
		if err := s.checkCatalog(ctx, key); err != nil {
			return nil, err
		}

		for day := 0; day < 7; day++ {
			hours := row.Days[day]
			if hours == 0 {
				continue
			}
			if hours < 0 || hours > models.MaxHoursPerDay {
				return nil, appErrors.Clone(appErrors.ErrValidation, "hours must be between 0 and 24")
			}
			entry := models.TimeEntry{
				TimeSheetID: sheet.ID,
				UserID:      sheet.UserID,
				Date:        monday.AddDate(0, 0, day),
				Hours:       hours,
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
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (s *TimeSheetService) checkCatalog(ctx context.Context, key models.EntryKey) error {
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

func (s *TimeSheetService) authorizedSheet(ctx context.Context, id string, claims *models.JWTClaims) (*models.TimeSheet, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "sheet id is required")
	}
	sheet, err := s.sheets.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "time sheet not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load time sheet")
	}
	if sheet.UserID != claims.UserID && claims.Role != models.RoleAdmin {
		return nil, appErrors.ErrForbidden
	}
	return sheet, nil
}

func (s *TimeSheetService) resolveWeek(anchorRaw string) (time.Time, time.Time, error) {
	anchor := time.Now().UTC()
	if anchorRaw != "" {
		parsed, err := models.ParseDate(anchorRaw)
		if err != nil {
			return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "invalid date, expected YYYY-MM-DD")
		}
		anchor = parsed
	}
	monday, sunday := models.WeekRange(anchor)
	return monday, sunday, nil
}

func (s *TimeSheetService) acquireWeek(userID string, monday time.Time) bool {
	key := userID + "|" + models.FormatDate(monday)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[key]; busy {
		return false
	}
	s.inFlight[key] = struct{}{}
	return true
}

func (s *TimeSheetService) releaseWeek(userID string, monday time.Time) {
	key := userID + "|" + models.FormatDate(monday)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, key)
}

// ownerAction maps a requested target status onto the lifecycle action an
// owner may trigger directly.
func ownerAction(target models.SheetStatus) (models.SheetAction, bool) {
	switch target {
	case models.StatusSaved:
		return models.ActionSave, true
	case models.StatusSubmitted:
		return models.ActionSubmit, true
	case models.StatusDraft:
		return models.ActionReset, true
	default:
		return "", false
	}
}
