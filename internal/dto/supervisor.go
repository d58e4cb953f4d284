package dto

// CreateRelationRequest links a supervisor to a collaborator.
type CreateRelationRequest struct {
	CollaboratorID string `json:"collaborateur_id" validate:"required"`
	SupervisorID   string `json:"supervisor_id" validate:"required"`
}

// RelationCheck reports whether a supervisor relation exists.
type RelationCheck struct {
	IsSupervisor bool `json:"isSupervisor"`
}
