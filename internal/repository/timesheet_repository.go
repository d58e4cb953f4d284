package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/tempo-api/internal/models"
)

const uniqueViolation = "23505"

// TimeSheetRepository provides persistence for weekly time sheets.
type TimeSheetRepository struct {
	db *sqlx.DB
}

// NewTimeSheetRepository constructs the repository.
func NewTimeSheetRepository(db *sqlx.DB) *TimeSheetRepository {
	return &TimeSheetRepository{db: db}
}

const sheetColumns = `id, user_id, week_start, week_end, statut, created_at, updated_at`

// FindByID fetches a sheet. Returns sql.ErrNoRows when absent.
func (r *TimeSheetRepository) FindByID(ctx context.Context, id string) (*models.TimeSheet, error) {
	var sheet models.TimeSheet
	query := fmt.Sprintf(`SELECT %s FROM time_sheets WHERE id = $1`, sheetColumns)
	if err := r.db.GetContext(ctx, &sheet, query, id); err != nil {
		return nil, err
	}
	return normalizeSheet(&sheet), nil
}

// FindByWeekStart fetches the unique sheet for an owner-week pair.
// Returns sql.ErrNoRows when absent.
func (r *TimeSheetRepository) FindByWeekStart(ctx context.Context, userID string, weekStart time.Time) (*models.TimeSheet, error) {
	var sheet models.TimeSheet
	query := fmt.Sprintf(`SELECT %s FROM time_sheets WHERE user_id = $1 AND week_start = $2`, sheetColumns)
	if err := r.db.GetContext(ctx, &sheet, query, userID, weekStart); err != nil {
		return nil, err
	}
	return normalizeSheet(&sheet), nil
}

// Create persists a new sheet, generating its id.
func (r *TimeSheetRepository) Create(ctx context.Context, sheet *models.TimeSheet) error {
	if sheet.ID == "" {
		sheet.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	sheet.CreatedAt = now
	sheet.UpdatedAt = now

	const query = `INSERT INTO time_sheets (id, user_id, week_start, week_end, statut, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.db.ExecContext(ctx, query,
		sheet.ID, sheet.UserID, sheet.WeekStart, sheet.WeekEnd, sheet.Status, sheet.CreatedAt, sheet.UpdatedAt); err != nil {
		return fmt.Errorf("insert time sheet: %w", err)
	}
	return nil
}

// FindOrCreate returns the sheet for the owner-week, creating it when
// missing. A concurrent creator losing the unique-index race is recovered by
// re-reading the winner's row.
func (r *TimeSheetRepository) FindOrCreate(ctx context.Context, userID string, weekStart, weekEnd time.Time) (*models.TimeSheet, error) {
	sheet, err := r.FindByWeekStart(ctx, userID, weekStart)
	if err == nil {
		return sheet, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("find time sheet: %w", err)
	}

	fresh := &models.TimeSheet{
		UserID:    userID,
		WeekStart: weekStart,
		WeekEnd:   weekEnd,
		Status:    models.StatusSaved,
	}
	if err := r.Create(ctx, fresh); err != nil {
		if pqErr, ok := unwrapPQ(err); ok && pqErr.Code == uniqueViolation {
			return r.FindByWeekStart(ctx, userID, weekStart)
		}
		return nil, err
	}
	return fresh, nil
}

// UpdateStatus writes a new lifecycle state.
func (r *TimeSheetRepository) UpdateStatus(ctx context.Context, id string, status models.SheetStatus) error {
	const query = `UPDATE time_sheets SET statut = $1, updated_at = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update time sheet status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListByUser returns an owner's sheets, most recent week first.
func (r *TimeSheetRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.TimeSheet, error) {
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT %s FROM time_sheets WHERE user_id = $1 ORDER BY week_start DESC LIMIT $2`, sheetColumns)
	var sheets []models.TimeSheet
	if err := r.db.SelectContext(ctx, &sheets, query, userID, limit); err != nil {
		return nil, fmt.Errorf("list time sheets: %w", err)
	}
	for i := range sheets {
		normalizeSheet(&sheets[i])
	}
	return sheets, nil
}

// Delete removes a sheet; its entries go with it via the FK cascade.
func (r *TimeSheetRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM time_sheets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete time sheet: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Statistics sums a sheet's entries by hour category.
func (r *TimeSheetRepository) Statistics(ctx context.Context, sheetID string) (*models.SheetStatistics, error) {
	const query = `
SELECT
	COUNT(*) AS total_entries,
	COALESCE(SUM(CASE WHEN type_heures = 'HC' THEN heures ELSE 0 END), 0) AS total_hc,
	COALESCE(SUM(CASE WHEN type_heures = 'HNC' THEN heures ELSE 0 END), 0) AS total_hnc,
	COALESCE(SUM(heures), 0) AS total_heures
FROM time_entries
WHERE time_sheet_id = $1`

	var stats models.SheetStatistics
	if err := r.db.GetContext(ctx, &stats, query, sheetID); err != nil {
		return nil, fmt.Errorf("sheet statistics: %w", err)
	}
	return &stats, nil
}

// normalizeSheet folds the legacy French status values onto the canonical
// states on every read path.
func normalizeSheet(sheet *models.TimeSheet) *models.TimeSheet {
	if status, ok := models.ParseSheetStatus(string(sheet.Status)); ok {
		sheet.Status = status
	}
	return sheet
}

func unwrapPQ(err error) (*pq.Error, bool) {
	for err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return pqErr, true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = unwrapper.Unwrap()
	}
	return nil, false
}
