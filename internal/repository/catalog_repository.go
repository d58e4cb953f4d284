package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tempo-api/internal/models"
)

// CatalogRepository reads the mission, task and internal-activity catalogs
// entries are validated against.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository constructs the repository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListMissions returns active missions with their active tasks attached.
func (r *CatalogRepository) ListMissions(ctx context.Context) ([]models.Mission, error) {
	const missionQuery = `
SELECT id, nom, client_nom, active, allow_taskless_billing, created_at
FROM missions
WHERE active = TRUE
ORDER BY nom`
	var missions []models.Mission
	if err := r.db.SelectContext(ctx, &missions, missionQuery); err != nil {
		return nil, fmt.Errorf("list missions: %w", err)
	}
	if len(missions) == 0 {
		return missions, nil
	}

	const taskQuery = `
SELECT id, mission_id, libelle, description, active
FROM tasks
WHERE active = TRUE
ORDER BY libelle`
	var tasks []models.Task
	if err := r.db.SelectContext(ctx, &tasks, taskQuery); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	byMission := make(map[string][]models.Task, len(missions))
	for _, task := range tasks {
		byMission[task.MissionID] = append(byMission[task.MissionID], task)
	}
	for i := range missions {
		missions[i].Tasks = byMission[missions[i].ID]
	}
	return missions, nil
}

// FindMission fetches one mission regardless of active flag. Returns
// sql.ErrNoRows when absent.
func (r *CatalogRepository) FindMission(ctx context.Context, id string) (*models.Mission, error) {
	const query = `SELECT id, nom, client_nom, active, allow_taskless_billing, created_at FROM missions WHERE id = $1`
	var mission models.Mission
	if err := r.db.GetContext(ctx, &mission, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find mission: %w", err)
	}
	return &mission, nil
}

// TaskBelongsToMission reports whether an active task is part of the given
// mission's catalog.
func (r *CatalogRepository) TaskBelongsToMission(ctx context.Context, taskID, missionID string) (bool, error) {
	const query = `SELECT COUNT(*) FROM tasks WHERE id = $1 AND mission_id = $2 AND active = TRUE`
	var count int
	if err := r.db.GetContext(ctx, &count, query, taskID, missionID); err != nil {
		return false, fmt.Errorf("check task mission: %w", err)
	}
	return count > 0, nil
}

// ListActivities returns the active internal activities.
func (r *CatalogRepository) ListActivities(ctx context.Context) ([]models.InternalActivity, error) {
	const query = `
SELECT id, description, active, created_at
FROM internal_activities
WHERE active = TRUE
ORDER BY description`
	var activities []models.InternalActivity
	if err := r.db.SelectContext(ctx, &activities, query); err != nil {
		return nil, fmt.Errorf("list internal activities: %w", err)
	}
	return activities, nil
}

// ActivityExists reports whether an active internal activity exists.
func (r *CatalogRepository) ActivityExists(ctx context.Context, id string) (bool, error) {
	const query = `SELECT COUNT(*) FROM internal_activities WHERE id = $1 AND active = TRUE`
	var count int
	if err := r.db.GetContext(ctx, &count, query, id); err != nil {
		return false, fmt.Errorf("check internal activity: %w", err)
	}
	return count > 0, nil
}
