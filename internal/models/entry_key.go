package models

// HoursCategory distinguishes billable mission work from internal activity.
// The persisted values are the legacy HC / HNC codes.
type HoursCategory string

const (
	HoursBillable    HoursCategory = "HC"
	HoursNonBillable HoursCategory = "HNC"
)

// Valid reports whether the category is one of the two known codes.
func (c HoursCategory) Valid() bool {
	return c == HoursBillable || c == HoursNonBillable
}

// EntryKey identifies a logical sheet row: either a (mission, task) pair for
// billable hours or an internal activity for non-billable hours. It replaces
// the string-concatenated row identifiers of the legacy client with a value
// type that compares structurally.
type EntryKey struct {
	Category   HoursCategory
	MissionID  string
	TaskID     string // empty when the mission permits taskless billing
	ActivityID string
}

// BillableKey builds the key for mission/task hours.
func BillableKey(missionID, taskID string) EntryKey {
	return EntryKey{Category: HoursBillable, MissionID: missionID, TaskID: taskID}
}

// NonBillableKey builds the key for internal activity hours.
func NonBillableKey(activityID string) EntryKey {
	return EntryKey{Category: HoursNonBillable, ActivityID: activityID}
}

// Valid checks the structural invariant: billable keys carry a mission and
// never an activity, non-billable keys carry an activity and nothing else.
func (k EntryKey) Valid() bool {
	switch k.Category {
	case HoursBillable:
		return k.MissionID != "" && k.ActivityID == ""
	case HoursNonBillable:
		return k.ActivityID != "" && k.MissionID == "" && k.TaskID == ""
	default:
		return false
	}
}

// KeyOf derives the grouping key for a persisted entry.
func KeyOf(e TimeEntry) EntryKey {
	if e.Category == HoursBillable {
		return BillableKey(deref(e.MissionID), deref(e.TaskID))
	}
	return NonBillableKey(deref(e.ActivityID))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
