package models

import "time"

// ApprovalAction is the decision a supervisor takes on a submitted sheet.
type ApprovalAction string

const (
	ApprovalApprove ApprovalAction = "approve"
	ApprovalReject  ApprovalAction = "reject"
)

// Valid reports whether the action is a known decision.
func (a ApprovalAction) Valid() bool {
	return a == ApprovalApprove || a == ApprovalReject
}

// SheetStatus returns the sheet state a decision leads to.
func (a ApprovalAction) SheetStatus() SheetStatus {
	if a == ApprovalApprove {
		return StatusApproved
	}
	return StatusRejected
}

// ApprovalRecord is one row of the append-only decision audit trail. A sheet
// accumulates one record per action taken, not one per sheet.
type ApprovalRecord struct {
	ID           string         `db:"id" json:"id"`
	TimeSheetID  string         `db:"time_sheet_id" json:"time_sheet_id"`
	SupervisorID string         `db:"supervisor_id" json:"supervisor_id"`
	Action       ApprovalAction `db:"action" json:"action"`
	Comment      *string        `db:"comment" json:"comment,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`

	SupervisorName  *string `db:"supervisor_nom" json:"supervisor_nom,omitempty"`
	SupervisorEmail *string `db:"supervisor_email" json:"supervisor_email,omitempty"`
}
