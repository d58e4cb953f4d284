package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tempo-api/internal/models"
)

// TimeEntryRepository provides persistence for individual hour cells.
type TimeEntryRepository struct {
	db *sqlx.DB
}

// NewTimeEntryRepository constructs the repository.
func NewTimeEntryRepository(db *sqlx.DB) *TimeEntryRepository {
	return &TimeEntryRepository{db: db}
}

const entrySelect = `
SELECT
	te.id, te.time_sheet_id, te.user_id, te.date_saisie, te.heures, te.type_heures,
	te.mission_id, te.task_id, te.internal_activity_id, te.created_at, te.updated_at,
	m.nom AS mission_nom,
	COALESCE(t.description, t.libelle) AS task_nom,
	ia.description AS internal_activity_nom
FROM time_entries te
LEFT JOIN missions m ON m.id = te.mission_id
LEFT JOIN tasks t ON t.id = te.task_id
LEFT JOIN internal_activities ia ON ia.id = te.internal_activity_id`

// FindByID fetches one entry with its joined display names.
func (r *TimeEntryRepository) FindByID(ctx context.Context, id string) (*models.TimeEntry, error) {
	var entry models.TimeEntry
	query := entrySelect + `
WHERE te.id = $1`
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListBySheet returns a sheet's entries ordered by date then category.
func (r *TimeEntryRepository) ListBySheet(ctx context.Context, sheetID string) ([]models.TimeEntry, error) {
	query := entrySelect + `
WHERE te.time_sheet_id = $1
ORDER BY te.date_saisie, te.type_heures`
	var entries []models.TimeEntry
	if err := r.db.SelectContext(ctx, &entries, query, sheetID); err != nil {
		return nil, fmt.Errorf("list entries by sheet: %w", err)
	}
	return entries, nil
}

// ListByOwnerAndRange returns an owner's entries within a date range.
func (r *TimeEntryRepository) ListByOwnerAndRange(ctx context.Context, userID string, from, to time.Time) ([]models.TimeEntry, error) {
	query := entrySelect + `
WHERE te.user_id = $1 AND te.date_saisie BETWEEN $2 AND $3
ORDER BY te.date_saisie, te.type_heures`
	var entries []models.TimeEntry
	if err := r.db.SelectContext(ctx, &entries, query, userID, from, to); err != nil {
		return nil, fmt.Errorf("list entries by range: %w", err)
	}
	return entries, nil
}

// Create inserts one entry, generating its id.
func (r *TimeEntryRepository) Create(ctx context.Context, entry *models.TimeEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	const query = `INSERT INTO time_entries
(id, time_sheet_id, user_id, date_saisie, heures, type_heures, mission_id, task_id, internal_activity_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	if _, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.TimeSheetID, entry.UserID, entry.Date, entry.Hours, entry.Category,
		entry.MissionID, entry.TaskID, entry.ActivityID, entry.CreatedAt, entry.UpdatedAt); err != nil {
		return fmt.Errorf("insert time entry: %w", err)
	}
	return nil
}

// UpdateHours overwrites the hour amount of one cell.
func (r *TimeEntryRepository) UpdateHours(ctx context.Context, id string, hours float64) error {
	const query = `UPDATE time_entries SET heures = $1, updated_at = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, hours, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update time entry: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes one entry.
func (r *TimeEntryRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM time_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete time entry: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteByOwnerAndRange clears all of an owner's entries inside a date
// window and returns how many rows went away. This is the bulk-clear half of
// the delete-and-recreate save contract.
func (r *TimeEntryRepository) DeleteByOwnerAndRange(ctx context.Context, userID string, from, to time.Time) (int, error) {
	const query = `DELETE FROM time_entries WHERE user_id = $1 AND date_saisie BETWEEN $2 AND $3`
	res, err := r.db.ExecContext(ctx, query, userID, from, to)
	if err != nil {
		return 0, fmt.Errorf("delete entries by range: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete entries by range: %w", err)
	}
	return int(n), nil
}

// ReplaceWeek atomically swaps the owner's persisted entries for a week with
// the provided set: delete-and-recreate in one transaction so a retry of the
// whole unit stays safe.
func (r *TimeEntryRepository) ReplaceWeek(ctx context.Context, userID string, from, to time.Time, entries []models.TimeEntry) (deleted int, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin replace-week transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM time_entries WHERE user_id = $1 AND date_saisie BETWEEN $2 AND $3`,
		userID, from, to)
	if err != nil {
		return 0, fmt.Errorf("clear week entries: %w", err)
	}
	if n, raErr := res.RowsAffected(); raErr == nil {
		deleted = int(n)
	}

	now := time.Now().UTC()
	const insertQuery = `INSERT INTO time_entries
(id, time_sheet_id, user_id, date_saisie, heures, type_heures, mission_id, task_id, internal_activity_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	for i := range entries {
		e := &entries[i]
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		e.CreatedAt = now
		e.UpdatedAt = now
		if _, err = tx.ExecContext(ctx, insertQuery,
			e.ID, e.TimeSheetID, e.UserID, e.Date, e.Hours, e.Category,
			e.MissionID, e.TaskID, e.ActivityID, e.CreatedAt, e.UpdatedAt); err != nil {
			return 0, fmt.Errorf("insert week entry: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit replace-week: %w", err)
	}
	return deleted, nil
}
