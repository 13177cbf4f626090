package domain

import (
	"fmt"
	"time"
)

// dateLayout is the wire format for reflection dates.
const dateLayout = "2006-01-02"

// ReflectionDate identifies one daily pipeline run. It derives both the
// input PDF path and the output note path and is immutable once a run
// starts.
type ReflectionDate struct {
	t time.Time
}

// ParseReflectionDate parses a YYYY-MM-DD date string.
func ParseReflectionDate(s string) (ReflectionDate, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return ReflectionDate{}, fmt.Errorf("%w: date %q (want YYYY-MM-DD)", ErrInvalidInput, s)
	}
	return ReflectionDate{t: t}, nil
}

// NewReflectionDate builds a date from a time, truncated to the day.
func NewReflectionDate(t time.Time) ReflectionDate {
	return ReflectionDate{t: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// String returns the YYYY-MM-DD representation.
func (d ReflectionDate) String() string {
	return d.t.Format(dateLayout)
}

// IsZero reports whether the date is unset.
func (d ReflectionDate) IsZero() bool {
	return d.t.IsZero()
}

// AddDays returns the date shifted by n days.
func (d ReflectionDate) AddDays(n int) ReflectionDate {
	return ReflectionDate{t: d.t.AddDate(0, 0, n)}
}

// Before reports whether d falls before other.
func (d ReflectionDate) Before(other ReflectionDate) bool {
	return d.t.Before(other.t)
}

// PDFFileName returns the scanned input filename for this date.
func (d ReflectionDate) PDFFileName() string {
	return d.String() + "_daily_filled.pdf"
}

// NoteFileName returns the daily note filename for this date.
func (d ReflectionDate) NoteFileName() string {
	return d.String() + ".md"
}

// History returns the days preceding d, most recent first.
func (d ReflectionDate) History(days int) []ReflectionDate {
	if days <= 0 {
		return nil
	}
	dates := make([]ReflectionDate, 0, days)
	for i := 1; i <= days; i++ {
		dates = append(dates, d.AddDays(-i))
	}
	return dates
}

// ISOWeek identifies one calendar week for the weekly review.
type ISOWeek struct {
	Year int
	Week int
}

// ParseISOWeek parses an ISO week string such as "2026-W08". The
// round-trip against String rejects trailing garbage, which Sscanf
// would silently ignore.
func ParseISOWeek(s string) (ISOWeek, error) {
	var w ISOWeek
	if _, err := fmt.Sscanf(s, "%4d-W%2d", &w.Year, &w.Week); err != nil || w.String() != s {
		return ISOWeek{}, fmt.Errorf("%w: week %q (want YYYY-Www)", ErrInvalidInput, s)
	}
	if w.Week < 1 || w.Week > 53 {
		return ISOWeek{}, fmt.Errorf("%w: week %q out of range", ErrInvalidInput, s)
	}
	// Validate against the calendar: week 53 does not exist every year.
	if _, wk := w.monday().ISOWeek(); wk != w.Week {
		return ISOWeek{}, fmt.Errorf("%w: year %d has no week %d", ErrInvalidInput, w.Year, w.Week)
	}
	return w, nil
}

// monday returns the Monday of the week. January 4th always falls in
// ISO week 1, so the week's Monday is derived from it.
func (w ISOWeek) monday() time.Time {
	jan4 := time.Date(w.Year, time.January, 4, 0, 0, 0, 0, time.UTC)
	weekday := int(jan4.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	week1Monday := jan4.AddDate(0, 0, 1-weekday)
	return week1Monday.AddDate(0, 0, (w.Week-1)*7)
}

// String returns the YYYY-Www representation.
func (w ISOWeek) String() string {
	return fmt.Sprintf("%04d-W%02d", w.Year, w.Week)
}

// Dates returns the seven days of the week, Monday through Sunday.
func (w ISOWeek) Dates() []ReflectionDate {
	dates := make([]ReflectionDate, 7)
	monday := w.monday()
	for i := range dates {
		dates[i] = ReflectionDate{t: monday.AddDate(0, 0, i)}
	}
	return dates
}

// ReviewFileName returns the weekly review note filename.
func (w ISOWeek) ReviewFileName() string {
	return w.String() + "_Weekly_Review.md"
}
