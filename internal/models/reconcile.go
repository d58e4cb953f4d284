package models

// Row is a reconciled, displayable aggregation of the entries sharing one
// EntryKey across the seven days of a week.
type Row struct {
	Key          EntryKey   `json:"key"`
	MissionName  string     `json:"mission_name,omitempty"`
	TaskName     string     `json:"task_name,omitempty"`
	ActivityName string     `json:"activity_name,omitempty"`
	Days         [7]float64 `json:"days"`
	Total        float64    `json:"total"`
}

// Reconcile groups a flat entry list into rows keyed by EntryKey, summing
// hours per weekday and in total. Duplicate entries landing on the same
// (key, weekday) cell are summed rather than overwritten, so a storage race
// that produced two rows still reconciles to one consistent total. Ordering
// is stable: rows appear in first-seen key order, which makes the function
// idempotent and permutation-safe on totals.
func Reconcile(entries []TimeEntry) []Row {
	index := make(map[EntryKey]int, len(entries))
	rows := make([]Row, 0, len(entries))

	for _, e := range entries {
		key := KeyOf(e)
		i, seen := index[key]
		if !seen {
			i = len(rows)
			index[key] = i
			rows = append(rows, Row{
				Key:          key,
				MissionName:  deref(e.MissionName),
				TaskName:     deref(e.TaskName),
				ActivityName: deref(e.ActivityName),
			})
		}

		day := WeekdayIndex(e.Date)
		rows[i].Days[day] += e.Hours
		rows[i].Total += e.Hours

		// Backfill names when the first entry seen lacked the joins.
		if rows[i].MissionName == "" && e.MissionName != nil {
			rows[i].MissionName = *e.MissionName
		}
		if rows[i].TaskName == "" && e.TaskName != nil {
			rows[i].TaskName = *e.TaskName
		}
		if rows[i].ActivityName == "" && e.ActivityName != nil {
			rows[i].ActivityName = *e.ActivityName
		}
	}

	return rows
}
