package models

import "time"

// SupervisorRelation links a collaborator to a supervisor allowed to decide
// on their submitted sheets. Many-to-many; a collaborator may never
// supervise themselves.
type SupervisorRelation struct {
	ID             string    `db:"id" json:"id"`
	CollaboratorID string    `db:"collaborateur_id" json:"collaborateur_id"`
	SupervisorID   string    `db:"supervisor_id" json:"supervisor_id"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`

	// Joined display fields for list views.
	SupervisorName   *string `db:"supervisor_nom" json:"supervisor_nom,omitempty"`
	SupervisorEmail  *string `db:"supervisor_email" json:"supervisor_email,omitempty"`
	CollaboratorName *string `db:"collaborateur_nom" json:"collaborateur_nom,omitempty"`
}
