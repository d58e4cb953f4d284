package dto

// CreateEntryRequest creates a single hour cell. A zero amount is never
// persisted, so it is rejected here.
type CreateEntryRequest struct {
	TimeSheetID string  `json:"time_sheet_id" validate:"required"`
	UserID      string  `json:"user_id"`
	Date        string  `json:"date_saisie" validate:"required"`
	Hours       float64 `json:"heures" validate:"gt=0,lte=24"`
	Category    string  `json:"type_heures" validate:"required,oneof=HC HNC"`
	MissionID   string  `json:"mission_id,omitempty"`
	TaskID      string  `json:"task_id,omitempty"`
	ActivityID  string  `json:"internal_activity_id,omitempty"`
}

// UpdateEntryRequest updates the hours of an existing cell.
type UpdateEntryRequest struct {
	Hours float64 `json:"heures" validate:"gte=0,lte=24"`
}

// DeleteWeekResult reports how many entries a bulk clear removed.
type DeleteWeekResult struct {
	Deleted int `json:"deleted"`
}
