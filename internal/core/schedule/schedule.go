// Package schedule contains the pure recurrence model for promises:
// which days a promise is due and when a weekly target is satisfied.
// All dates are calendar dates represented as midnight UTC.
package schedule

import (
	"fmt"
	"sort"
	"time"
)

// DateLayout is the wire and storage format of calendar dates.
const DateLayout = "2006-01-02"

// Type is the recurrence kind of a promise.
type Type string

const (
	// TypeDaily promises are due on an explicit set of weekdays.
	TypeDaily Type = "daily"
	// TypeWeekly promises are eligible every day and satisfied by a count per ISO week.
	TypeWeekly Type = "weekly"
)

// Rule is the recurrence part of a promise.
type Rule struct {
	Type         Type
	ScheduleDays []int // 0=Sunday..6=Saturday, daily only
	WeeklyTarget int   // weekly only
}

// ParseDate parses a YYYY-MM-DD string into a calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return t, nil
}

// FormatDate renders a calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateOf returns the calendar date of t's wall clock, as midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddDays shifts a calendar date.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// WeekStart returns the Monday of the ISO week containing date.
func WeekStart(date time.Time) time.Time {
	d := DateOf(date)
	offset := (int(d.Weekday()) + 6) % 7 // Monday=0 .. Sunday=6
	return AddDays(d, -offset)
}

// WeekEnd returns the Sunday of the ISO week containing date.
func WeekEnd(date time.Time) time.Time {
	return AddDays(WeekStart(date), 6)
}

// WeekRange returns the Monday and Sunday of the ISO week containing date.
func WeekRange(date time.Time) (time.Time, time.Time) {
	return WeekStart(date), WeekEnd(date)
}

// MonthRange returns the first and last day of a YYYY-MM month.
func MonthRange(month string) (time.Time, time.Time, error) {
	first, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid month %q: want YYYY-MM", month)
	}
	return first, AddDays(first.AddDate(0, 1, 0), -1), nil
}

// DaysLeftInWeek counts date itself through Sunday.
func DaysLeftInWeek(date time.Time) int {
	return 7 - (int(DateOf(date).Weekday())+6)%7
}

// EachDay calls fn for every date in the closed range [start, end].
func EachDay(start, end time.Time, fn func(time.Time)) {
	for d := DateOf(start); !d.After(DateOf(end)); d = AddDays(d, 1) {
		fn(d)
	}
}

// IsDue reports whether the rule is due on date. Weekly rules are always
// eligible; whether they are satisfied is a per-week question (WeeklySatisfied).
func IsDue(r Rule, date time.Time) bool {
	switch r.Type {
	case TypeDaily:
		wd := int(date.Weekday())
		for _, d := range r.ScheduleDays {
			if d == wd {
				return true
			}
		}
		return false
	case TypeWeekly:
		return true
	default:
		return false
	}
}

// DueDays counts the days in [start, end] on which a daily rule is due.
// Weekly rules return 0; their target is per week.
func DueDays(r Rule, start, end time.Time) int {
	if r.Type != TypeDaily {
		return 0
	}
	n := 0
	EachDay(start, end, func(d time.Time) {
		if IsDue(r, d) {
			n++
		}
	})
	return n
}

// CompletionsInWeek counts completed dates in the ISO week containing anyDay.
func CompletionsInWeek(completed []time.Time, anyDay time.Time) int {
	start, end := WeekStart(anyDay), WeekEnd(anyDay)
	n := 0
	for _, c := range completed {
		c = DateOf(c)
		if !c.Before(start) && !c.After(end) {
			n++
		}
	}
	return n
}

// WeeklySatisfied reports whether a weekly rule reached its target in the
// ISO week containing anyDay.
func WeeklySatisfied(r Rule, completed []time.Time, anyDay time.Time) bool {
	if r.Type != TypeWeekly || r.WeeklyTarget < 1 {
		return false
	}
	return CompletionsInWeek(completed, anyDay) >= r.WeeklyTarget
}

// NormalizeDays returns the distinct days sorted ascending.
func NormalizeDays(days []int) []int {
	if len(days) == 0 {
		return nil
	}
	seen := make(map[int]bool, len(days))
	out := make([]int, 0, len(days))
	for _, d := range days {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Ints(out)
	return out
}

// SameRule reports whether two rules describe the same recurrence.
// Fields that do not apply to the type are ignored.
func SameRule(a, b Rule) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case TypeDaily:
		da, db := NormalizeDays(a.ScheduleDays), NormalizeDays(b.ScheduleDays)
		if len(da) != len(db) {
			return false
		}
		for i := range da {
			if da[i] != db[i] {
				return false
			}
		}
		return true
	case TypeWeekly:
		return a.WeeklyTarget == b.WeeklyTarget
	}
	return true
}
