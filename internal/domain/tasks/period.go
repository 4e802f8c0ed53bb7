package tasks

import "time"

// PreviousMonthRange returns the first and the last second of the UTC month before now
func PreviousMonthRange(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	firstOfCurrent := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := firstOfCurrent.Add(-time.Second)
	start := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, end
}
