package lead

import (
	"fmt"
	"strings"
	"time"
)

const storeTimeLayout = "2006-01-02 15:04:05"

// FormatDate renders a store timestamp ("YYYY-MM-DD HH:MM:SS", UTC) as
// DD/MM/YYYY for chat display. Unparsable input renders as N/A.
func FormatDate(s string) string {
	t, ok := parseStoreTime(s)
	if !ok {
		return "N/A"
	}
	return t.Format("02/01/2006")
}

// DaysSince renders how long ago a store timestamp was, in Spanish:
// "hoy", "hace 1 día", "hace N días".
func DaysSince(s string, now time.Time) string {
	t, ok := parseStoreTime(s)
	if !ok {
		return "N/A"
	}

	days := int(now.UTC().Sub(t).Hours() / 24)
	if days < 0 {
		days = -days
	}
	switch days {
	case 0:
		return "hoy"
	case 1:
		return "hace 1 día"
	default:
		return fmt.Sprintf("hace %d días", days)
	}
}

func parseStoreTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "T", " "))
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(storeTimeLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
