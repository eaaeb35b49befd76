package commitment

import (
	"testing"

	"github.com/example/pledge/internal/apperror"
	"github.com/example/pledge/internal/core/schedule"
)

func TestCanSavePromise(t *testing.T) {
	tests := []struct {
		name        string
		promise     Promise
		wantAllowed bool
		wantReason  string
	}{
		{
			name:        "daily with days",
			promise:     Promise{Text: "Write", Type: schedule.TypeDaily, ScheduleDays: []int{1, 3}},
			wantAllowed: true,
		},
		{
			name:        "daily without days",
			promise:     Promise{Text: "Write", Type: schedule.TypeDaily},
			wantAllowed: false,
			wantReason:  "must name at least one weekday for a daily promise",
		},
		{
			name:        "weekly with target",
			promise:     Promise{Text: "Gym", Type: schedule.TypeWeekly, WeeklyTarget: 3},
			wantAllowed: true,
		},
		{
			name:        "weekly with zero target",
			promise:     Promise{Text: "Gym", Type: schedule.TypeWeekly},
			wantAllowed: false,
			wantReason:  "must be at least 1 for a weekly promise",
		},
		{
			name:        "unknown type",
			promise:     Promise{Text: "Gym", Type: "monthly"},
			wantAllowed: false,
			wantReason:  `must be daily or weekly (got "monthly")`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanSavePromise(tt.promise)

			if result.Allowed != tt.wantAllowed {
				t.Errorf("CanSavePromise() Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if result.Reason != tt.wantReason {
				t.Errorf("CanSavePromise() Reason = %q, want %q", result.Reason, tt.wantReason)
			}

			err := result.Err("Gym")
			if tt.wantAllowed && err != nil {
				t.Errorf("CanSavePromise().Err() = %v, want nil", err)
			}
			if !tt.wantAllowed && !apperror.IsValidation(err) {
				t.Errorf("CanSavePromise().Err() = %v, want ValidationError", err)
			}
		})
	}
}

func TestCanSaveGoal(t *testing.T) {
	one := []Promise{{Text: "a"}}
	five := []Promise{{Text: "a"}, {Text: "b"}, {Text: "c"}, {Text: "d"}, {Text: "e"}}

	tests := []struct {
		name        string
		goal        Goal
		wantAllowed bool
		wantField   string
	}{
		{"valid", Goal{GoalText: "Health", Promises: one}, true, ""},
		{"blank text", Goal{GoalText: "   ", Promises: one}, false, "goalText"},
		{"no promises", Goal{GoalText: "Health"}, false, "promises"},
		{"too many promises", Goal{GoalText: "Health", Promises: five}, false, "promises"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanSaveGoal(tt.goal)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("CanSaveGoal() Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if result.Field != tt.wantField {
				t.Errorf("CanSaveGoal() Field = %q, want %q", result.Field, tt.wantField)
			}
		})
	}
}

func TestCanSaveSprintGoals(t *testing.T) {
	g := Goal{GoalText: "x"}
	tests := []struct {
		name        string
		goals       []Goal
		wantAllowed bool
	}{
		{"none", nil, false},
		{"one", []Goal{g}, true},
		{"three", []Goal{g, g, g}, true},
		{"four", []Goal{g, g, g, g}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanSaveSprintGoals(tt.goals).Allowed; got != tt.wantAllowed {
				t.Errorf("CanSaveSprintGoals() Allowed = %v, want %v", got, tt.wantAllowed)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	daily := Normalize(Promise{Text: "  Write  ", Type: schedule.TypeDaily, ScheduleDays: []int{5, 1, 5}, WeeklyTarget: 2})
	if daily.Text != "Write" {
		t.Errorf("Text = %q, want %q", daily.Text, "Write")
	}
	if len(daily.ScheduleDays) != 2 || daily.ScheduleDays[0] != 1 || daily.ScheduleDays[1] != 5 {
		t.Errorf("ScheduleDays = %v, want [1 5]", daily.ScheduleDays)
	}
	if daily.WeeklyTarget != 0 {
		t.Errorf("WeeklyTarget = %d, want 0 for daily", daily.WeeklyTarget)
	}

	weekly := Normalize(Promise{Text: "Gym", Type: schedule.TypeWeekly, ScheduleDays: []int{1}, WeeklyTarget: 3})
	if weekly.ScheduleDays != nil {
		t.Errorf("ScheduleDays = %v, want nil for weekly", weekly.ScheduleDays)
	}

	// "é" composed vs decomposed
	if NormalizeText("café") != NormalizeText("café") {
		t.Error("NFC forms should compare equal")
	}
}
