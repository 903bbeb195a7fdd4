package orders

import (
	"fmt"
	"time"
)

// Layouts accepted for datetime TEXT columns. SQLite's datetime() emits
// "2006-01-02 15:04:05"; API clients send RFC3339.
var dbTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDBTime parses a timestamp string stored in SQLite, in local time
// when the layout carries no zone.
func ParseDBTime(s string) (time.Time, error) {
	for _, layout := range dbTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse time %q", s)
}
