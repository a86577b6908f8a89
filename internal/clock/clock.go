package clock

import (
	"time"
)

// Timestamps in the database are wall-clock values already shifted to
// UTC+5:30, not true UTC instants. Everything that compares against
// stored times has to use the same shifted "now".
const StorageOffset = 5*time.Hour + 30*time.Minute

// Now returns the current time shifted to the storage convention.
func Now() time.Time {
	return time.Now().UTC().Add(StorageOffset)
}

// DisplayFormat is the fixed layout used for dates in backup sheets
// and reminder e-mails.
const DisplayFormat = "02-01-2006 03:04 PM"

// FormatDisplay renders t for sheets and e-mails; empty string for nil.
func FormatDisplay(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DisplayFormat)
}
