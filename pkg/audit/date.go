package audit

import "time"

const (
	dateLayout = "02-01-2006"

	// fallbackDate is returned when the timezone database cannot
	// resolve the configured zone. A wrong-but-obvious date degrades
	// the report instead of failing the run.
	fallbackDate = "01-01-1970"
)

// RunDate returns today's date in the given IANA timezone, formatted
// DD-MM-YYYY. It is computed once at run start and reused for every
// finding, so all findings of one run share a date even when the run
// spans midnight elsewhere.
func RunDate(timezone string) string {
	return FormatRunDate(time.Now(), timezone)
}

// FormatRunDate formats t as a run date in the given timezone.
func FormatRunDate(t time.Time, timezone string) string {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return fallbackDate
	}
	return t.In(loc).Format(dateLayout)
}
