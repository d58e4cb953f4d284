package dto

import "github.com/noah-isme/tempo-api/internal/models"

// WeekView is the full payload for one owner-week: the sheet (virtual draft
// when ID is empty), its raw entries, the reconciled display rows and the
// derived lock flag.
type WeekView struct {
	TimeSheet  *models.TimeSheet      `json:"timeSheet"`
	Entries    []models.TimeEntry     `json:"timeEntries"`
	Rows       []models.Row           `json:"rows"`
	Statistics models.SheetStatistics `json:"statistics"`
	WeekStart  string                 `json:"week_start"`
	WeekEnd    string                 `json:"week_end"`
	Locked     bool                   `json:"locked"`
}

// CreateTimeSheetRequest creates an empty sheet for a week.
type CreateTimeSheetRequest struct {
	UserID    string `json:"user_id"`
	WeekStart string `json:"week_start" validate:"required"`
	WeekEnd   string `json:"week_end" validate:"required"`
	Status    string `json:"status"`
}

// UpdateStatusRequest transitions a sheet's status.
type UpdateStatusRequest struct {
	Status string `json:"statut" validate:"required"`
}

// RowPayload is one in-memory sheet row posted by the save-week operation.
type RowPayload struct {
	Category   string     `json:"type_heures" validate:"required,oneof=HC HNC"`
	MissionID  string     `json:"mission_id,omitempty"`
	TaskID     string     `json:"task_id,omitempty"`
	ActivityID string     `json:"internal_activity_id,omitempty"`
	Days       [7]float64 `json:"days"`
}

// SaveWeekRequest replaces the persisted week with the posted row state.
type SaveWeekRequest struct {
	Rows []RowPayload `json:"rows" validate:"dive"`
}

// SaveWeekResult reports the outcome of a save.
type SaveWeekResult struct {
	TimeSheet *models.TimeSheet `json:"timeSheet"`
	Deleted   int               `json:"deleted_entries"`
	Inserted  int               `json:"inserted_entries"`
}
