// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters parse arguments and format output but
// delegate business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/example/pledge/internal/ports/primary"
)

// SprintAdapter translates sprint and plan commands to service calls.
type SprintAdapter struct {
	sprints   primary.SprintService
	reconcile primary.ReconcileService
	out       io.Writer
}

// NewSprintAdapter creates a new SprintAdapter.
func NewSprintAdapter(sprints primary.SprintService, reconcile primary.ReconcileService, out io.Writer) *SprintAdapter {
	return &SprintAdapter{
		sprints:   sprints,
		reconcile: reconcile,
		out:       out,
	}
}

// Create creates a sprint.
func (a *SprintAdapter) Create(ctx context.Context, userID, name, start, end string) error {
	sprint, err := a.sprints.CreateSprint(ctx, primary.CreateSprintRequest{
		UserID:    userID,
		Name:      name,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Created sprint %s: %s (%s to %s)\n", sprint.ID, sprint.Name, sprint.StartDate, sprint.EndDate)
	return nil
}

// List lists the user's sprints.
func (a *SprintAdapter) List(ctx context.Context, userID string) error {
	sprints, err := a.sprints.ListSprints(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list sprints: %w", err)
	}

	if len(sprints) == 0 {
		fmt.Fprintln(a.out, "No sprints found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-36s %-10s %-10s %s\n", "ID", "START", "END", "NAME")
	fmt.Fprintln(a.out, strings.Repeat("─", 72))
	for _, s := range sprints {
		fmt.Fprintf(a.out, "%-36s %-10s %-10s %s\n", s.ID, s.StartDate, s.EndDate, s.Name)
	}
	fmt.Fprintln(a.out)
	return nil
}

// Show prints a sprint with its goals and promises.
func (a *SprintAdapter) Show(ctx context.Context, sprintID, userID string) error {
	sprint, err := a.sprints.GetSprint(ctx, sprintID, userID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\nSprint: %s\n", sprint.ID)
	fmt.Fprintf(a.out, "Name:   %s\n", sprint.Name)
	fmt.Fprintf(a.out, "Dates:  %s to %s\n", sprint.StartDate, sprint.EndDate)
	if len(sprint.Goals) == 0 {
		fmt.Fprintln(a.out, "\nNo goals yet. Use 'pledge plan apply' to add some.")
		return nil
	}
	for _, g := range sprint.Goals {
		fmt.Fprintf(a.out, "\n%s  [%s]\n", g.GoalText, g.ID)
		for _, p := range g.Promises {
			fmt.Fprintf(a.out, "  - %s (%s)  [%s]\n", p.Text, describeSchedule(p), p.ID)
		}
	}
	fmt.Fprintln(a.out)
	return nil
}

// Delete deletes a sprint.
func (a *SprintAdapter) Delete(ctx context.Context, sprintID, userID string) error {
	if err := a.sprints.DeleteSprint(ctx, sprintID, userID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Deleted sprint %s\n", sprintID)
	return nil
}

// Plan is the YAML document read by ApplyPlan and written by ExportPlan.
type Plan struct {
	Goals []primary.DesiredGoal `yaml:"goals"`
}

// ApplyPlan reconciles a sprint against a YAML plan.
func (a *SprintAdapter) ApplyPlan(ctx context.Context, sprintID, userID string, r io.Reader) error {
	var plan Plan
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&plan); err != nil {
		return fmt.Errorf("failed to read plan: %w", err)
	}

	result, err := a.reconcile.Reconcile(ctx, primary.ReconcileRequest{
		SprintID: sprintID,
		UserID:   userID,
		Goals:    plan.Goals,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Applied plan to sprint %s\n", sprintID)
	fmt.Fprintf(a.out, "  goals:    %d created, %d updated, %d deleted\n", result.GoalsCreated, result.GoalsUpdated, result.GoalsDeleted)
	fmt.Fprintf(a.out, "  promises: %d created, %d updated, %d deleted\n", result.PromisesCreated, result.PromisesUpdated, result.PromisesDeleted)
	if result.LogsInvalidated > 0 {
		fmt.Fprintf(a.out, "  today's log cleared for %d changed promise(s)\n", result.LogsInvalidated)
	}
	return nil
}

// ExportPlan writes a sprint's goal tree as a plan that ApplyPlan accepts.
func (a *SprintAdapter) ExportPlan(ctx context.Context, sprintID, userID string) error {
	sprint, err := a.sprints.GetSprint(ctx, sprintID, userID)
	if err != nil {
		return err
	}

	plan := Plan{Goals: make([]primary.DesiredGoal, 0, len(sprint.Goals))}
	for _, g := range sprint.Goals {
		d := primary.DesiredGoal{ID: g.ID, GoalID: g.GoalID, GoalText: g.GoalText}
		for _, p := range g.Promises {
			d.Promises = append(d.Promises, primary.DesiredPromise{
				ID:           p.ID,
				Text:         p.Text,
				Type:         p.Type,
				ScheduleDays: p.ScheduleDays,
				WeeklyTarget: p.WeeklyTarget,
			})
		}
		plan.Goals = append(plan.Goals, d)
	}

	enc := yaml.NewEncoder(a.out)
	enc.SetIndent(2)
	if err := enc.Encode(plan); err != nil {
		return fmt.Errorf("failed to write plan: %w", err)
	}
	return enc.Close()
}

var weekdayNames = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

func describeSchedule(p primary.Promise) string {
	if p.Type == "weekly" {
		return fmt.Sprintf("%dx per week", p.WeeklyTarget)
	}
	days := make([]string, 0, len(p.ScheduleDays))
	for _, d := range p.ScheduleDays {
		if d >= 0 && d < len(weekdayNames) {
			days = append(days, weekdayNames[d])
		}
	}
	return "daily " + strings.Join(days, ",")
}
