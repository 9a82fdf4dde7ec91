package services

import "time"

const dateLayout = "2006-01-02"

// DateString formats a time as the YYYY-MM-DD stamp used by the daily
// reset and streak logic. All date arithmetic is in UTC.
func DateString(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// previousDate returns the date string one day before the given one.
func previousDate(date string) string {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -1).Format(dateLayout)
}

// dayWindow returns the [start, end) time window for a date string.
func dayWindow(date string) (time.Time, time.Time, bool) {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return t, t.AddDate(0, 0, 1), true
}
