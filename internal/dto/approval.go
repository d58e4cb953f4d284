package dto

import "github.com/noah-isme/tempo-api/internal/models"

// DecisionRequest carries the optional (approve) or required (reject)
// supervisor comment.
type DecisionRequest struct {
	Comment string `json:"comment"`
}

// SubmitResult confirms a submission and tells the client how many
// supervisors were notified.
type SubmitResult struct {
	TimeSheetID string             `json:"timeSheetId"`
	Supervisors int                `json:"supervisors"`
	Status      models.SheetStatus `json:"status"`
}

// SheetStatusView is a sheet's current status together with its decision
// history, as served by the status endpoint.
type SheetStatusView struct {
	TimeSheetID string                  `json:"timeSheetId"`
	Status      models.SheetStatus      `json:"status"`
	WeekStart   string                  `json:"week_start"`
	WeekEnd     string                  `json:"week_end"`
	OwnerName   string                  `json:"collaborateur_nom"`
	OwnerEmail  string                  `json:"collaborateur_email"`
	Approvals   []models.ApprovalRecord `json:"approvals"`
}

// PendingSheet is one row of a supervisor's pending (or full) review queue.
type PendingSheet struct {
	ID         string             `db:"id" json:"id"`
	WeekStart  string             `db:"week_start" json:"week_start"`
	WeekEnd    string             `db:"week_end" json:"week_end"`
	Status     models.SheetStatus `db:"statut" json:"status"`
	OwnerID    string             `db:"user_id" json:"user_id"`
	OwnerName  string             `db:"collaborateur_nom" json:"collaborateur_nom"`
	OwnerEmail string             `db:"collaborateur_email" json:"collaborateur_email"`
}
