package models

import "time"

// TimeSheet is the weekly aggregate for one owner and one Monday-anchored
// week. A sheet conceptually exists the moment a user views a week; it is
// only persisted once at least one entry is saved, so handlers may serve a
// virtual draft with an empty ID.
type TimeSheet struct {
	ID        string      `db:"id" json:"id"`
	UserID    string      `db:"user_id" json:"user_id"`
	WeekStart time.Time   `db:"week_start" json:"week_start"`
	WeekEnd   time.Time   `db:"week_end" json:"week_end"`
	Status    SheetStatus `db:"statut" json:"status"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt time.Time   `db:"updated_at" json:"updated_at"`
}

// Locked reports whether the sheet currently refuses mutation.
func (t *TimeSheet) Locked() bool {
	return t.Status.Locked()
}

// SheetStatistics sums a sheet's entries by category.
type SheetStatistics struct {
	TotalEntries int     `db:"total_entries" json:"total_entries"`
	TotalHC      float64 `db:"total_hc" json:"total_hc"`
	TotalHNC     float64 `db:"total_hnc" json:"total_hnc"`
	TotalHours   float64 `db:"total_heures" json:"total_heures"`
}
