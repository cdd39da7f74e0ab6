package report

import "fmt"

// FormatHoursMinutes renders seconds as "2h 30m". Minutes are floored;
// the seconds remainder is dropped. Zero renders as "0h 0m".
func FormatHoursMinutes(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	return fmt.Sprintf("%dh %dm", h, m)
}

// FormatClock renders seconds as a zero-padded "HH:MM:SS". Hours can
// exceed two digits.
func FormatClock(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
