// Package competence maps "YYYY-MM" competence months onto UTC date ranges.
package competence

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const Layout = "2006-01"

var (
	ErrInvalidFormat = errors.New("invalid competence month, expected YYYY-MM")
	ErrInvalidDate   = errors.New("invalid date, expected YYYY-MM-DD or YYYYMMDD")

	monthPattern = regexp.MustCompile(`^(\d{4})-(\d{2})$`)
)

// Range is an inclusive pair of dates.
type Range struct {
	Start time.Time
	End   time.Time
}

// ParseMonth returns the first day of the month at UTC midnight.
func ParseMonth(s string) (time.Time, error) {
	m := monthPattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, ErrInvalidFormat
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 {
		return time.Time{}, ErrInvalidFormat
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), nil
}

// MonthRange returns the first and last calendar day of the month containing start.
func MonthRange(start time.Time) Range {
	first := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Range{
		Start: first,
		End:   first.AddDate(0, 1, -1),
	}
}

// Format renders the competence key.
func Format(t time.Time) string {
	return t.UTC().Format(Layout)
}

// Includes reports whether someone admitted at admission and terminated at termination (nil when
// still active) was employed at some point of the range.
func (r Range) Includes(admission time.Time, termination *time.Time) bool {
	if DateOnly(admission).After(r.End) {
		return false
	}
	return termination == nil || !DateOnly(*termination).Before(r.Start)
}

// ParseDate accepts YYYY-MM-DD or YYYYMMDD and returns UTC midnight.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", "20060102"} {
		if len(s) != len(layout) {
			continue
		}
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// DateOnly drops the clock part, keeping the calendar day as seen in UTC.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatDate renders YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
