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

// SupervisorRepository manages collaborator/supervisor relations.
type SupervisorRepository struct {
	db *sqlx.DB
}

// NewSupervisorRepository constructs the repository.
func NewSupervisorRepository(db *sqlx.DB) *SupervisorRepository {
	return &SupervisorRepository{db: db}
}

// ErrDuplicateRelation is returned when the unique (collaborator,
// supervisor) pair already exists.
var ErrDuplicateRelation = fmt.Errorf("supervisor relation already exists")

// Create inserts a new relation. A unique-index violation surfaces as
// ErrDuplicateRelation.
func (r *SupervisorRepository) Create(ctx context.Context, collaboratorID, supervisorID string) (*models.SupervisorRelation, error) {
	relation := &models.SupervisorRelation{
		ID:             uuid.NewString(),
		CollaboratorID: collaboratorID,
		SupervisorID:   supervisorID,
		CreatedAt:      time.Now().UTC(),
	}

	const query = `INSERT INTO time_sheet_supervisors (id, collaborateur_id, supervisor_id, created_at)
VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query,
		relation.ID, relation.CollaboratorID, relation.SupervisorID, relation.CreatedAt); err != nil {
		if pqErr, ok := unwrapPQ(err); ok && pqErr.Code == uniqueViolation {
			return nil, ErrDuplicateRelation
		}
		return nil, fmt.Errorf("insert supervisor relation: %w", err)
	}
	return relation, nil
}

// Delete removes a relation pair. Returns sql.ErrNoRows when absent.
func (r *SupervisorRepository) Delete(ctx context.Context, collaboratorID, supervisorID string) error {
	const query = `DELETE FROM time_sheet_supervisors WHERE collaborateur_id = $1 AND supervisor_id = $2`
	res, err := r.db.ExecContext(ctx, query, collaboratorID, supervisorID)
	if err != nil {
		return fmt.Errorf("delete supervisor relation: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListForCollaborator returns the supervisors configured for an owner, with
// joined display fields.
func (r *SupervisorRepository) ListForCollaborator(ctx context.Context, collaboratorID string) ([]models.SupervisorRelation, error) {
	const query = `
SELECT
	tss.id, tss.collaborateur_id, tss.supervisor_id, tss.created_at,
	u.full_name AS supervisor_nom,
	u.email AS supervisor_email
FROM time_sheet_supervisors tss
JOIN users u ON u.id = tss.supervisor_id
WHERE tss.collaborateur_id = $1
ORDER BY u.full_name`
	var relations []models.SupervisorRelation
	if err := r.db.SelectContext(ctx, &relations, query, collaboratorID); err != nil {
		return nil, fmt.Errorf("list supervisors: %w", err)
	}
	return relations, nil
}

// ListCollaborators returns everyone a supervisor oversees.
func (r *SupervisorRepository) ListCollaborators(ctx context.Context, supervisorID string) ([]models.SupervisorRelation, error) {
	const query = `
SELECT
	tss.id, tss.collaborateur_id, tss.supervisor_id, tss.created_at,
	u.full_name AS collaborateur_nom
FROM time_sheet_supervisors tss
JOIN users u ON u.id = tss.collaborateur_id
WHERE tss.supervisor_id = $1
ORDER BY u.full_name`
	var relations []models.SupervisorRelation
	if err := r.db.SelectContext(ctx, &relations, query, supervisorID); err != nil {
		return nil, fmt.Errorf("list collaborators: %w", err)
	}
	return relations, nil
}

// Exists reports whether a relation pair is configured.
func (r *SupervisorRepository) Exists(ctx context.Context, collaboratorID, supervisorID string) (bool, error) {
	const query = `SELECT COUNT(*) FROM time_sheet_supervisors WHERE collaborateur_id = $1 AND supervisor_id = $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, collaboratorID, supervisorID); err != nil {
		return false, fmt.Errorf("check supervisor relation: %w", err)
	}
	return count > 0, nil
}

// ListAllSupervisors returns every user acting as a supervisor for anyone.
func (r *SupervisorRepository) ListAllSupervisors(ctx context.Context) ([]models.User, error) {
	const query = `
SELECT DISTINCT u.id, u.email, u.full_name, u.role, u.active, u.created_at, u.updated_at
FROM users u
JOIN time_sheet_supervisors tss ON tss.supervisor_id = u.id
ORDER BY u.full_name`
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("list all supervisors: %w", err)
	}
	return users, nil
}
