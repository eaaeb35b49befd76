package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/pledge/internal/apperror"
	"github.com/example/pledge/internal/core/commitment"
	"github.com/example/pledge/internal/core/integrity"
	"github.com/example/pledge/internal/core/schedule"
	"github.com/example/pledge/internal/ports/primary"
	"github.com/example/pledge/internal/ports/secondary"
)

var validate = apperror.NewValidator()

// newID returns a time-ordered identifier for new rows.
func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Cache tags. A write invalidates every tag whose keys it may have changed.
func sprintTag(sprintID string) string   { return "sprint:" + sprintID }
func promiseTag(promiseID string) string { return "promise:" + promiseID }
func userLogsTag(userID string) string   { return "user:" + userID + ":logs" }
func userDaysTag(userID string) string   { return "user:" + userID + ":days" }

// invalidate drops cached reads after a committed write. The write already
// succeeded, so a cache failure is logged and entries expire by TTL.
func invalidate(ctx context.Context, c secondary.Cache, logger *zap.Logger, tags ...string) {
	if err := c.Invalidate(ctx, tags...); err != nil {
		logger.Warn("cache invalidation failed", zap.Strings("tags", tags), zap.Error(err))
	}
}

func recordToSprint(r *secondary.SprintRecord, trees []*secondary.GoalWithPromises) *primary.Sprint {
	return &primary.Sprint{
		ID:        r.ID,
		UserID:    r.UserID,
		Name:      r.Name,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		CreatedAt: r.CreatedAt,
		Goals:     treesToGoals(trees),
	}
}

func treesToGoals(trees []*secondary.GoalWithPromises) []primary.Goal {
	goals := make([]primary.Goal, 0, len(trees))
	for _, t := range trees {
		g := primary.Goal{
			ID:        t.Goal.ID,
			SprintID:  t.Goal.SprintID,
			GoalID:    t.Goal.GoalID,
			GoalText:  t.Goal.GoalText,
			SortOrder: t.Goal.SortOrder,
			Promises:  make([]primary.Promise, 0, len(t.Promises)),
		}
		for _, p := range t.Promises {
			g.Promises = append(g.Promises, primary.Promise{
				ID:           p.ID,
				SprintGoalID: p.SprintGoalID,
				SprintID:     p.SprintID,
				Text:         p.Text,
				Type:         p.Type,
				ScheduleDays: p.ScheduleDays,
				WeeklyTarget: p.WeeklyTarget,
				SortOrder:    p.SortOrder,
			})
		}
		goals = append(goals, g)
	}
	return goals
}

// treesToCommitment converts persisted rows into the planner's input.
func treesToCommitment(trees []*secondary.GoalWithPromises) []commitment.Goal {
	goals := make([]commitment.Goal, 0, len(trees))
	for _, t := range trees {
		g := commitment.Goal{
			ID:        t.Goal.ID,
			GoalID:    t.Goal.GoalID,
			GoalText:  t.Goal.GoalText,
			SortOrder: t.Goal.SortOrder,
		}
		for _, p := range t.Promises {
			g.Promises = append(g.Promises, commitment.Promise{
				ID:           p.ID,
				Text:         p.Text,
				Type:         schedule.Type(p.Type),
				ScheduleDays: p.ScheduleDays,
				WeeklyTarget: p.WeeklyTarget,
				SortOrder:    p.SortOrder,
			})
		}
		goals = append(goals, g)
	}
	return goals
}

func desiredToCommitment(desired []primary.DesiredGoal) []commitment.Goal {
	goals := make([]commitment.Goal, 0, len(desired))
	for _, d := range desired {
		g := commitment.Goal{ID: d.ID, GoalID: d.GoalID, GoalText: d.GoalText}
		for _, p := range d.Promises {
			g.Promises = append(g.Promises, commitment.Promise{
				ID:           p.ID,
				Text:         p.Text,
				Type:         schedule.Type(p.Type),
				ScheduleDays: p.ScheduleDays,
				WeeklyTarget: p.WeeklyTarget,
			})
		}
		goals = append(goals, g)
	}
	return goals
}

func goalToRecord(sprintID string, g commitment.Goal) *secondary.GoalRecord {
	return &secondary.GoalRecord{
		ID:        g.ID,
		SprintID:  sprintID,
		GoalID:    g.GoalID,
		GoalText:  g.GoalText,
		SortOrder: g.SortOrder,
	}
}

func promiseToRecord(sprintID, goalID string, p commitment.Promise) *secondary.PromiseRecord {
	return &secondary.PromiseRecord{
		ID:           p.ID,
		SprintGoalID: goalID,
		SprintID:     sprintID,
		Text:         p.Text,
		Type:         string(p.Type),
		ScheduleDays: p.ScheduleDays,
		WeeklyTarget: p.WeeklyTarget,
		SortOrder:    p.SortOrder,
	}
}

func recordToLog(r *secondary.PromiseLogRecord) *primary.PromiseLog {
	return &primary.PromiseLog{
		PromiseID:  r.PromiseID,
		Date:       r.Date,
		UserID:     r.UserID,
		Completed:  r.Completed,
		DailyLogID: r.DailyLogID,
		UpdatedAt:  r.UpdatedAt,
	}
}

func recordsToLogs(records []*secondary.PromiseLogRecord) []*primary.PromiseLog {
	logs := make([]*primary.PromiseLog, 0, len(records))
	for _, r := range records {
		logs = append(logs, recordToLog(r))
	}
	return logs
}

func recordToDailyLog(r *secondary.DailyLogRecord) *primary.DailyLog {
	return &primary.DailyLog{
		ID:          r.ID,
		UserID:      r.UserID,
		Date:        r.Date,
		Energy:      r.Energy,
		MotionUnits: r.MotionUnits,
		ActionUnits: r.ActionUnits,
		Note:        r.Note,
	}
}

// sprintSpan is the date range of a sprint.
type sprintSpan struct {
	start, end time.Time
}

func spanOf(startDate, endDate string) sprintSpan {
	start, _ := schedule.ParseDate(startDate)
	end, _ := schedule.ParseDate(endDate)
	return sprintSpan{start: start, end: end}
}

// goalsToDefs flattens goal trees into the scorer's promise definitions,
// each bounded by the span of its sprint.
func goalsToDefs(goals []primary.Goal, spans map[string]sprintSpan) []integrity.PromiseDef {
	var defs []integrity.PromiseDef
	for _, g := range goals {
		span := spans[g.SprintID]
		for _, p := range g.Promises {
			defs = append(defs, integrity.PromiseDef{
				ID:       p.ID,
				GoalID:   g.ID,
				GoalText: g.GoalText,
				Text:     p.Text,
				Rule: schedule.Rule{
					Type:         schedule.Type(p.Type),
					ScheduleDays: p.ScheduleDays,
					WeeklyTarget: p.WeeklyTarget,
				},
				From: span.start,
				To:   span.end,
			})
		}
	}
	return defs
}

func logsToIntegrity(logs []*primary.PromiseLog) ([]integrity.Log, error) {
	out := make([]integrity.Log, 0, len(logs))
	for _, l := range logs {
		d, err := schedule.ParseDate(l.Date)
		if err != nil {
			return nil, fmt.Errorf("failed to read log of promise %s: %w", l.PromiseID, err)
		}
		out = append(out, integrity.Log{PromiseID: l.PromiseID, Date: d, Completed: l.Completed})
	}
	return out, nil
}

func daysToIntegrity(days []*primary.DailyLog) ([]integrity.DailyLog, error) {
	out := make([]integrity.DailyLog, 0, len(days))
	for _, d := range days {
		date, err := schedule.ParseDate(d.Date)
		if err != nil {
			return nil, fmt.Errorf("failed to read daily log %s: %w", d.ID, err)
		}
		out = append(out, integrity.DailyLog{
			Date:        date,
			Energy:      d.Energy,
			MotionUnits: d.MotionUnits,
			ActionUnits: d.ActionUnits,
		})
	}
	return out, nil
}

// parseRange parses a closed [start, end] date range.
func parseRange(start, end string) (string, string, error) {
	s, err := schedule.ParseDate(start)
	if err != nil {
		return "", "", apperror.Invalid("", "start", "must be a YYYY-MM-DD date")
	}
	e, err := schedule.ParseDate(end)
	if err != nil {
		return "", "", apperror.Invalid("", "end", "must be a YYYY-MM-DD date")
	}
	if e.Before(s) {
		return "", "", apperror.Invalid("", "end", "must not be before start")
	}
	return schedule.FormatDate(s), schedule.FormatDate(e), nil
}
