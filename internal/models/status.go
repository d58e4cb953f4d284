package models

// SheetStatus is the lifecycle state of a weekly time sheet.
type SheetStatus string

const (
	StatusDraft     SheetStatus = "draft"
	StatusSaved     SheetStatus = "saved"
	StatusSubmitted SheetStatus = "submitted"
	StatusApproved  SheetStatus = "approved"
	StatusRejected  SheetStatus = "rejected"
)

// statusAliases maps the French values still present at the persistence
// boundary onto the canonical states.
var statusAliases = map[string]SheetStatus{
	"draft":      StatusDraft,
	"saved":      StatusSaved,
	"submitted":  StatusSubmitted,
	"approved":   StatusApproved,
	"rejected":   StatusRejected,
	"brouillon":  StatusDraft,
	"sauvegardé": StatusSaved,
	"soumis":     StatusSubmitted,
	"validé":     StatusApproved,
	"rejeté":     StatusRejected,
}

// ParseSheetStatus resolves a raw persisted value, accepting the legacy
// French aliases as synonyms.
func ParseSheetStatus(raw string) (SheetStatus, bool) {
	s, ok := statusAliases[raw]
	return s, ok
}

// Locked reports whether the sheet refuses all entry mutation and owner
// actions. Only submitted and approved sheets are locked; rejected sheets
// stay editable so the owner can fix and resubmit.
func (s SheetStatus) Locked() bool {
	return s == StatusSubmitted || s == StatusApproved
}

// Editable reports whether the owner may modify entries in this state.
func (s SheetStatus) Editable() bool {
	return s == StatusDraft || s == StatusSaved || s == StatusRejected
}

// Submittable reports whether the sheet may be submitted from this state.
func (s SheetStatus) Submittable() bool {
	return s.Editable()
}

// Decidable reports whether a supervisor decision (approve/reject) is
// currently possible.
func (s SheetStatus) Decidable() bool {
	return s == StatusSubmitted
}

// SheetAction names a lifecycle transition request.
type SheetAction string

const (
	ActionSave    SheetAction = "save"
	ActionSubmit  SheetAction = "submit"
	ActionApprove SheetAction = "approve"
	ActionReject  SheetAction = "reject"
	ActionReset   SheetAction = "reset"
)

// Transition returns the state reached by applying an action in the given
// state. The second result is false when the transition table disallows the
// pair; authorization guards live in the services, not here.
func Transition(from SheetStatus, action SheetAction) (SheetStatus, bool) {
	switch action {
	case ActionSave:
		if from.Editable() {
			return StatusSaved, true
		}
	case ActionSubmit:
		if from.Submittable() {
			return StatusSubmitted, true
		}
	case ActionApprove:
		if from.Decidable() {
			return StatusApproved, true
		}
	case ActionReject:
		if from.Decidable() {
			return StatusRejected, true
		}
	case ActionReset:
		if from.Editable() {
			return StatusDraft, true
		}
	}
	return from, false
}
