// Package tat converts wall-clock start/end pairs into turnaround-time
// metrics. All inputs are local "HH:MM" strings; there is no timezone
// handling anywhere in this system.
package tat

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/opskpi/tattrack/internal/domain"
)

const minutesPerDay = 24 * 60

// DurationMinutes computes the whole-minute duration between two clock
// times on the same or immediately following calendar day. A negative raw
// difference is treated as crossing midnight exactly once, so the result is
// always in [0, 1439]. Spans longer than 24 hours are not representable:
// end("08:30") after start("09:00") yields 1410 minutes, not an error.
func DurationMinutes(start, end string) (int, error) {
	sh, sm, err := parseClock(start)
	if err != nil {
		return 0, err
	}
	eh, em, err := parseClock(end)
	if err != nil {
		return 0, err
	}

	mins := (eh*60 + em) - (sh*60 + sm)
	if mins < 0 {
		mins += minutesPerDay
	}
	return mins, nil
}

// DecimalHours converts minutes to hours rounded half-up to 3 decimal places.
func DecimalHours(mins int) float64 {
	return math.Round(float64(mins)/60*1000) / 1000
}

// FormatDuration renders minutes as "HH:MM:00". Hours are not capped at 24,
// so accumulated totals format correctly too.
func FormatDuration(mins int) string {
	return fmt.Sprintf("%02d:%02d:00", mins/60, mins%60)
}

// ShortDuration renders minutes as "HH:MM" for live display.
// Non-positive input renders as a placeholder.
func ShortDuration(mins int) string {
	if mins <= 0 {
		return "-"
	}
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// MonthName returns the English month name for an ISO "YYYY-MM-DD" date,
// or the empty string if the date does not parse.
func MonthName(date string) string {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return ""
	}
	return d.Month().String()
}

// parseClock splits an "HH:MM" string into hour and minute components.
func parseClock(s string) (int, int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", domain.ErrInvalidClockTime, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, fmt.Errorf("%w: %q", domain.ErrInvalidClockTime, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("%w: %q", domain.ErrInvalidClockTime, s)
	}
	return h, m, nil
}
