package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tempo-api/internal/dto"
	"github.com/noah-isme/tempo-api/internal/models"
)

// ApprovalRepository persists the append-only decision trail and applies the
// matching sheet status change in the same transaction.
type ApprovalRepository struct {
	db *sqlx.DB
}

// NewApprovalRepository constructs the repository.
func NewApprovalRepository(db *sqlx.DB) *ApprovalRepository {
	return &ApprovalRepository{db: db}
}

// RecordDecision appends an approval record and moves the sheet to the
// decided status atomically.
func (r *ApprovalRepository) RecordDecision(ctx context.Context, record *models.ApprovalRecord) (err error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	record.CreatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin decision transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertQuery = `INSERT INTO time_sheet_approvals (id, time_sheet_id, supervisor_id, action, comment, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err = tx.ExecContext(ctx, insertQuery,
		record.ID, record.TimeSheetID, record.SupervisorID, record.Action, record.Comment, record.CreatedAt); err != nil {
		return fmt.Errorf("insert approval record: %w", err)
	}

	const updateQuery = `UPDATE time_sheets SET statut = $1, updated_at = $2 WHERE id = $3`
	if _, err = tx.ExecContext(ctx, updateQuery,
		record.Action.SheetStatus(), record.CreatedAt, record.TimeSheetID); err != nil {
		return fmt.Errorf("update sheet status: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit decision: %w", err)
	}
	return nil
}

// History returns a sheet's decisions, newest first.
func (r *ApprovalRepository) History(ctx context.Context, sheetID string) ([]models.ApprovalRecord, error) {
	const query = `
SELECT
	tsa.id, tsa.time_sheet_id, tsa.supervisor_id, tsa.action, tsa.comment, tsa.created_at,
	u.full_name AS supervisor_nom,
	u.email AS supervisor_email
FROM time_sheet_approvals tsa
JOIN users u ON u.id = tsa.supervisor_id
WHERE tsa.time_sheet_id = $1
ORDER BY tsa.created_at DESC`
	var records []models.ApprovalRecord
	if err := r.db.SelectContext(ctx, &records, query, sheetID); err != nil {
		return nil, fmt.Errorf("approval history: %w", err)
	}
	return records, nil
}

const pendingSelect = `
SELECT
	ts.id,
	to_char(ts.week_start, 'YYYY-MM-DD') AS week_start,
	to_char(ts.week_end, 'YYYY-MM-DD') AS week_end,
	ts.statut, ts.user_id,
	u.full_name AS collaborateur_nom,
	u.email AS collaborateur_email
FROM time_sheets ts
JOIN users u ON u.id = ts.user_id
JOIN time_sheet_supervisors tss ON tss.collaborateur_id = ts.user_id`

// ListPendingForSupervisor returns submitted sheets awaiting the given
// supervisor's decision.
func (r *ApprovalRepository) ListPendingForSupervisor(ctx context.Context, supervisorID string) ([]dto.PendingSheet, error) {
	query := pendingSelect + `
WHERE tss.supervisor_id = $1 AND ts.statut IN ('submitted', 'soumis')
ORDER BY ts.week_start DESC, ts.created_at DESC`
	var sheets []dto.PendingSheet
	if err := r.db.SelectContext(ctx, &sheets, query, supervisorID); err != nil {
		return nil, fmt.Errorf("list pending sheets: %w", err)
	}
	normalizePending(sheets)
	return sheets, nil
}

// ListAllForSupervisor returns every decided or pending sheet the supervisor
// oversees.
func (r *ApprovalRepository) ListAllForSupervisor(ctx context.Context, supervisorID string) ([]dto.PendingSheet, error) {
	query := pendingSelect + `
WHERE tss.supervisor_id = $1
AND ts.statut IN ('submitted', 'approved', 'rejected', 'soumis', 'validé', 'rejeté')
ORDER BY ts.week_start DESC, ts.created_at DESC`
	var sheets []dto.PendingSheet
	if err := r.db.SelectContext(ctx, &sheets, query, supervisorID); err != nil {
		return nil, fmt.Errorf("list supervisor sheets: %w", err)
	}
	normalizePending(sheets)
	return sheets, nil
}

// ListAllSubmitted returns every sheet past submission, for admin review.
func (r *ApprovalRepository) ListAllSubmitted(ctx context.Context) ([]dto.PendingSheet, error) {
	const query = `
SELECT
	ts.id,
	to_char(ts.week_start, 'YYYY-MM-DD') AS week_start,
	to_char(ts.week_end, 'YYYY-MM-DD') AS week_end,
	ts.statut, ts.user_id,
	u.full_name AS collaborateur_nom,
	u.email AS collaborateur_email
FROM time_sheets ts
JOIN users u ON u.id = ts.user_id
WHERE ts.statut IN ('submitted', 'approved', 'rejected', 'soumis', 'validé', 'rejeté')
ORDER BY ts.week_start DESC, ts.created_at DESC`
	var sheets []dto.PendingSheet
	if err := r.db.SelectContext(ctx, &sheets, query); err != nil {
		return nil, fmt.Errorf("list submitted sheets: %w", err)
	}
	normalizePending(sheets)
	return sheets, nil
}

func normalizePending(sheets []dto.PendingSheet) {
	for i := range sheets {
		if status, ok := models.ParseSheetStatus(string(sheets[i].Status)); ok {
			sheets[i].Status = status
		}
	}
}
