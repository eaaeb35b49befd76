package schedule

import (
	"testing"
	"time"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func TestIsDue(t *testing.T) {
	weekdays := Rule{Type: TypeDaily, ScheduleDays: []int{1, 2, 3, 4, 5}}
	weekly := Rule{Type: TypeWeekly, WeeklyTarget: 3}

	tests := []struct {
		name string
		rule Rule
		date string
		want bool
	}{
		{"daily on monday", weekdays, "2024-01-01", true},
		{"daily on friday", weekdays, "2024-01-05", true},
		{"daily on saturday", weekdays, "2024-01-06", false},
		{"daily on sunday", weekdays, "2024-01-07", false},
		{"weekly is always eligible", weekly, "2024-01-07", true},
		{"unknown type never due", Rule{Type: "monthly"}, "2024-01-01", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDue(tt.rule, mustDate(t, tt.date)); got != tt.want {
				t.Errorf("IsDue = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWeekBoundaries(t *testing.T) {
	tests := []struct {
		date, start, end string
		left             int
	}{
		{"2024-01-01", "2024-01-01", "2024-01-07", 7}, // Monday
		{"2024-01-03", "2024-01-01", "2024-01-07", 5},
		{"2024-01-07", "2024-01-01", "2024-01-07", 1}, // Sunday
		{"2024-02-29", "2024-02-26", "2024-03-03", 4},
		{"2023-12-31", "2023-12-25", "2023-12-31", 1},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			d := mustDate(t, tt.date)
			if got := FormatDate(WeekStart(d)); got != tt.start {
				t.Errorf("WeekStart = %s, want %s", got, tt.start)
			}
			if got := FormatDate(WeekEnd(d)); got != tt.end {
				t.Errorf("WeekEnd = %s, want %s", got, tt.end)
			}
			if got := DaysLeftInWeek(d); got != tt.left {
				t.Errorf("DaysLeftInWeek = %d, want %d", got, tt.left)
			}
		})
	}
}

func TestWeeklySatisfied(t *testing.T) {
	rule := Rule{Type: TypeWeekly, WeeklyTarget: 3}
	monday := mustDate(t, "2024-01-01")

	three := []time.Time{monday, AddDays(monday, 2), AddDays(monday, 6)}
	if !WeeklySatisfied(rule, three, monday) {
		t.Error("3 completions should satisfy a target of 3")
	}

	two := three[:2]
	if WeeklySatisfied(rule, two, monday) {
		t.Error("2 completions should not satisfy a target of 3")
	}

	// Completions in the following week do not count.
	spill := []time.Time{monday, AddDays(monday, 1), AddDays(monday, 7)}
	if WeeklySatisfied(rule, spill, monday) {
		t.Error("completion in next ISO week counted toward this week")
	}

	if WeeklySatisfied(rule, nil, monday) {
		t.Error("no logs yet must not be satisfied")
	}
}

func TestDueDays(t *testing.T) {
	rule := Rule{Type: TypeDaily, ScheduleDays: []int{1, 2, 3, 4, 5}}
	got := DueDays(rule, mustDate(t, "2024-01-01"), mustDate(t, "2024-01-14"))
	if got != 10 {
		t.Errorf("DueDays = %d, want 10", got)
	}
	if DueDays(Rule{Type: TypeWeekly, WeeklyTarget: 2}, mustDate(t, "2024-01-01"), mustDate(t, "2024-01-07")) != 0 {
		t.Error("weekly rules have no due-day count")
	}
}

func TestSameRule(t *testing.T) {
	tests := []struct {
		name string
		a, b Rule
		want bool
	}{
		{"same days different order", Rule{Type: TypeDaily, ScheduleDays: []int{5, 1, 3}}, Rule{Type: TypeDaily, ScheduleDays: []int{1, 3, 5, 5}}, true},
		{"different days", Rule{Type: TypeDaily, ScheduleDays: []int{1, 2}}, Rule{Type: TypeDaily, ScheduleDays: []int{1, 3}}, false},
		{"type change", Rule{Type: TypeDaily, ScheduleDays: []int{1}}, Rule{Type: TypeWeekly, WeeklyTarget: 1}, false},
		{"weekly target change", Rule{Type: TypeWeekly, WeeklyTarget: 2}, Rule{Type: TypeWeekly, WeeklyTarget: 3}, false},
		{"weekly ignores stale days", Rule{Type: TypeWeekly, WeeklyTarget: 2, ScheduleDays: []int{1}}, Rule{Type: TypeWeekly, WeeklyTarget: 2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameRule(tt.a, tt.b); got != tt.want {
				t.Errorf("SameRule = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseDate_Invalid(t *testing.T) {
	if _, err := ParseDate("01/02/2024"); err == nil {
		t.Fatal("expected error for non-ISO date")
	}
}

func TestMonthRange(t *testing.T) {
	tests := []struct {
		month      string
		start, end string
	}{
		{"2024-01", "2024-01-01", "2024-01-31"},
		{"2024-02", "2024-02-01", "2024-02-29"},
		{"2023-12", "2023-12-01", "2023-12-31"},
	}

	for _, tt := range tests {
		start, end, err := MonthRange(tt.month)
		if err != nil {
			t.Fatalf("MonthRange(%q): %v", tt.month, err)
		}
		if FormatDate(start) != tt.start || FormatDate(end) != tt.end {
			t.Errorf("MonthRange(%q) = %s..%s, want %s..%s", tt.month, FormatDate(start), FormatDate(end), tt.start, tt.end)
		}
	}

	if _, _, err := MonthRange("2024-13"); err == nil {
		t.Error("expected error for month 13")
	}
}

func TestWeekRange(t *testing.T) {
	start, end := WeekRange(mustDate(t, "2024-01-03"))
	if FormatDate(start) != "2024-01-01" || FormatDate(end) != "2024-01-07" {
		t.Errorf("WeekRange = %s..%s, want 2024-01-01..2024-01-07", FormatDate(start), FormatDate(end))
	}
}
