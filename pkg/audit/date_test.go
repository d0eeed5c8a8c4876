package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatRunDate(t *testing.T) {
	// 23:30 UTC on March 31 is already April 1 in Riyadh (UTC+3).
	moment := time.Date(2025, time.March, 31, 23, 30, 0, 0, time.UTC)

	assert.Equal(t, "01-04-2025", FormatRunDate(moment, "Asia/Riyadh"))
	assert.Equal(t, "31-03-2025", FormatRunDate(moment, "UTC"))
}

func TestFormatRunDateZeroPads(t *testing.T) {
	moment := time.Date(2026, time.January, 2, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "02-01-2026", FormatRunDate(moment, "UTC"))
}

func TestFormatRunDateUnknownZoneFallsBack(t *testing.T) {
	moment := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "01-01-1970", FormatRunDate(moment, "Mars/Olympus_Mons"))
}

func TestRunDateReturnsToday(t *testing.T) {
	before := time.Now().UTC().Format("02-01-2006")
	got := RunDate("UTC")
	after := time.Now().UTC().Format("02-01-2006")

	// Guards against the test straddling midnight.
	assert.Contains(t, []string{before, after}, got)
}
