package commitment

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/pledge/internal/apperror"
	"github.com/example/pledge/internal/core/schedule"
)

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("new-%d", n)
	}
}

func writing() Promise {
	return Promise{ID: "p1", Text: "Write 500 words", Type: schedule.TypeDaily, ScheduleDays: []int{1, 2, 3, 4, 5}}
}

func currentSprint() []Goal {
	return []Goal{
		{
			ID:       "g1",
			GoalText: "Writing",
			Promises: []Promise{
				writing(),
				{ID: "p2", Text: "Read", Type: schedule.TypeWeekly, WeeklyTarget: 3, SortOrder: 1},
			},
		},
		{
			ID:        "g2",
			GoalText:  "Health",
			SortOrder: 1,
			Promises:  []Promise{{ID: "p3", Text: "Gym", Type: schedule.TypeWeekly, WeeklyTarget: 2}},
		},
	}
}

func TestPlan_NoChanges(t *testing.T) {
	plan, err := Plan(currentSprint(), currentSprint(), seqIDs())
	require.NoError(t, err)

	assert.True(t, plan.Empty(), "unchanged payload should produce an empty plan: %+v", plan.Counts())
	require.Len(t, plan.Goals, 2)
	assert.False(t, plan.Goals[0].Create)
	assert.Equal(t, "g1", plan.Goals[0].Goal.ID)
}

func TestPlan_CreatesUpdatesDeletes(t *testing.T) {
	desired := []Goal{
		{
			ID:       "g1",
			GoalText: "Writing",
			Promises: []Promise{
				{ID: "p1", Text: "Write 500 words", Type: schedule.TypeDaily, ScheduleDays: []int{1, 3, 5}},
				{Text: "Edit a chapter", Type: schedule.TypeWeekly, WeeklyTarget: 1},
			},
		},
		{
			GoalText: "Sleep",
			Promises: []Promise{{Text: "Bed by 11", Type: schedule.TypeDaily, ScheduleDays: []int{0, 1, 2, 3, 4, 5, 6}}},
		},
	}

	plan, err := Plan(currentSprint(), desired, seqIDs())
	require.NoError(t, err)

	assert.Equal(t, []string{"g2"}, plan.DeleteGoalIDs)

	g1 := plan.Goals[0]
	assert.False(t, g1.Create)
	assert.False(t, g1.GoalChanged)
	require.Len(t, g1.UpdatePromises, 1)
	assert.True(t, g1.UpdatePromises[0].ScheduleChanged)
	assert.Equal(t, []int{1, 3, 5}, g1.UpdatePromises[0].Promise.ScheduleDays)
	require.Len(t, g1.CreatePromises, 1)
	assert.Equal(t, "new-1", g1.CreatePromises[0].ID)
	assert.Equal(t, 1, g1.CreatePromises[0].SortOrder)
	assert.Equal(t, []string{"p2"}, g1.DeletePromiseIDs)

	g2 := plan.Goals[1]
	assert.True(t, g2.Create)
	assert.Equal(t, "new-2", g2.Goal.ID)
	assert.Equal(t, 1, g2.Goal.SortOrder)
	require.Len(t, g2.CreatePromises, 1)
	assert.Equal(t, "new-3", g2.CreatePromises[0].ID)

	c := plan.Counts()
	assert.Equal(t, Counts{
		GoalsCreated:     1,
		GoalsDeleted:     1,
		PromisesCreated:  2,
		PromisesUpdated:  1,
		PromisesDeleted:  1,
		SchedulesChanged: 1,
	}, c)
}

func TestPlan_SortOnlyChangeDoesNotInvalidate(t *testing.T) {
	cur := currentSprint()
	desired := currentSprint()
	g := desired[0]
	g.Promises = []Promise{g.Promises[1], g.Promises[0]}
	desired[0] = g

	plan, err := Plan(cur, desired, seqIDs())
	require.NoError(t, err)

	updates := plan.Goals[0].UpdatePromises
	require.Len(t, updates, 2)
	for _, u := range updates {
		assert.False(t, u.ScheduleChanged, "reordering %s must not invalidate logs", u.Promise.ID)
	}
}

func TestPlan_TextChangeCountsAsScheduleChange(t *testing.T) {
	desired := currentSprint()
	desired[0].Promises[0].Text = "Write 800 words"

	plan, err := Plan(currentSprint(), desired, seqIDs())
	require.NoError(t, err)
	require.Len(t, plan.Goals[0].UpdatePromises, 1)
	assert.True(t, plan.Goals[0].UpdatePromises[0].ScheduleChanged)
}

func TestPlan_WhitespaceAndDayOrderAreNotChanges(t *testing.T) {
	desired := currentSprint()
	desired[0].Promises[0].Text = "  Write 500 words "
	desired[0].Promises[0].ScheduleDays = []int{5, 4, 3, 2, 1}

	plan, err := Plan(currentSprint(), desired, seqIDs())
	require.NoError(t, err)
	assert.True(t, plan.Empty())
}

func TestPlan_InvalidPromiseRejectsWholePayload(t *testing.T) {
	desired := currentSprint()
	desired[1].Promises = append(desired[1].Promises, Promise{Text: "Stretch", Type: schedule.TypeDaily})

	plan, err := Plan(currentSprint(), desired, seqIDs())
	assert.Nil(t, plan)

	var verr *apperror.ValidationError
	require.True(t, errors.As(err, &verr), "want ValidationError, got %v", err)
	assert.Equal(t, "Stretch", verr.Promise)
	assert.Equal(t, "scheduleDays", verr.Field)
}

func TestPlan_ValidationErrors(t *testing.T) {
	tests := []struct {
		name        string
		desired     []Goal
		wantPromise string
		wantField   string
	}{
		{
			name:      "no goals",
			desired:   nil,
			wantField: "goals",
		},
		{
			name: "empty promise text",
			desired: []Goal{{GoalText: "Writing", Promises: []Promise{
				{Text: "  ", Type: schedule.TypeWeekly, WeeklyTarget: 1},
			}}},
			wantPromise: `#1 in goal "Writing"`,
			wantField:   "text",
		},
		{
			name: "day out of range",
			desired: []Goal{{GoalText: "Writing", Promises: []Promise{
				{Text: "Write", Type: schedule.TypeDaily, ScheduleDays: []int{1, 9}},
			}}},
			wantPromise: "Write",
			wantField:   "scheduleDays[1]",
		},
		{
			name: "weekly target above seven",
			desired: []Goal{{GoalText: "Writing", Promises: []Promise{
				{Text: "Write", Type: schedule.TypeWeekly, WeeklyTarget: 8},
			}}},
			wantPromise: "Write",
			wantField:   "weeklyTarget",
		},
		{
			name: "bad type",
			desired: []Goal{{GoalText: "Writing", Promises: []Promise{
				{Text: "Write", Type: "hourly"},
			}}},
			wantPromise: "Write",
			wantField:   "type",
		},
		{
			name: "duplicate promise id",
			desired: []Goal{{ID: "g1", GoalText: "Writing", Promises: []Promise{
				writing(), writing(),
			}}},
			wantPromise: "Write 500 words",
			wantField:   "id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Plan(currentSprint(), tt.desired, seqIDs())
			var verr *apperror.ValidationError
			require.True(t, errors.As(err, &verr), "want ValidationError, got %v", err)
			assert.Equal(t, tt.wantPromise, verr.Promise)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestPlan_ForeignIDsAreNotFound(t *testing.T) {
	t.Run("goal", func(t *testing.T) {
		desired := []Goal{{ID: "other-sprint-goal", GoalText: "x", Promises: []Promise{writing()}}}
		_, err := Plan(currentSprint(), desired, seqIDs())
		assert.True(t, apperror.IsNotFound(err), "got %v", err)
	})

	t.Run("promise from another goal", func(t *testing.T) {
		desired := currentSprint()
		desired[1].Promises = append(desired[1].Promises, Promise{ID: "p1", Text: "Write 500 words", Type: schedule.TypeDaily, ScheduleDays: []int{1}})
		desired[0].Promises = desired[0].Promises[1:]
		_, err := Plan(currentSprint(), desired, seqIDs())
		assert.True(t, apperror.IsNotFound(err), "got %v", err)
	})
}
