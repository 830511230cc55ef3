package display

import (
	"strings"
	"time"
)

// ExpandVars performs simple placeholder substitutions for config-provided
// text such as the carousel header.
//
// Supported variables:
// - {.CurrentDate} => YYYY-MM-DD in the local zone
// - {.CurrentTime} => HH:MM in the local zone
func ExpandVars(s string, now time.Time) string {
	if strings.TrimSpace(s) == "" {
		return s
	}
	r := strings.NewReplacer(
		"{.CurrentDate}", now.Format("2006-01-02"),
		"{.CurrentTime}", now.Format("15:04"),
	)
	return r.Replace(s)
}
