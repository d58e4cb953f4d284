package models

import "time"

// MaxHoursPerDay bounds a single cell value.
const MaxHoursPerDay = 24

// TimeEntry is one persisted hour cell: a (date, key) pair with an amount.
// Column names keep the legacy French schema (date_saisie, heures,
// type_heures) the rest of the platform still reads.
type TimeEntry struct {
	ID          string        `db:"id" json:"id"`
	TimeSheetID string        `db:"time_sheet_id" json:"time_sheet_id"`
	UserID      string        `db:"user_id" json:"user_id"`
	Date        time.Time     `db:"date_saisie" json:"date_saisie"`
	Hours       float64       `db:"heures" json:"heures"`
	Category    HoursCategory `db:"type_heures" json:"type_heures"`
	MissionID   *string       `db:"mission_id" json:"mission_id,omitempty"`
	TaskID      *string       `db:"task_id" json:"task_id,omitempty"`
	ActivityID  *string       `db:"internal_activity_id" json:"internal_activity_id,omitempty"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`

	// Joined display names, populated by list queries.
	MissionName  *string `db:"mission_nom" json:"mission_nom,omitempty"`
	TaskName     *string `db:"task_nom" json:"task_nom,omitempty"`
	ActivityName *string `db:"internal_activity_nom" json:"internal_activity_nom,omitempty"`
}
