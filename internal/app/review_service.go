package app

import (
	"context"
	"fmt"
	"time"

	"github.com/example/pledge/internal/apperror"
	"github.com/example/pledge/internal/core/alerts"
	"github.com/example/pledge/internal/core/integrity"
	"github.com/example/pledge/internal/core/schedule"
	"github.com/example/pledge/internal/ports/primary"
	"github.com/example/pledge/internal/ports/secondary"
)

// ReviewServiceImpl implements the ReviewService interface.
type ReviewServiceImpl struct {
	sprintService   primary.SprintService
	ledgerService   primary.LedgerService
	dailyLogService primary.DailyLogService
	sprintRepo      secondary.SprintRepository
	clock           secondary.Clock
}

// NewReviewService creates a new ReviewService with injected dependencies.
func NewReviewService(
	sprintService primary.SprintService,
	ledgerService primary.LedgerService,
	dailyLogService primary.DailyLogService,
	sprintRepo secondary.SprintRepository,
	clock secondary.Clock,
) *ReviewServiceImpl {
	return &ReviewServiceImpl{
		sprintService:   sprintService,
		ledgerService:   ledgerService,
		dailyLogService: dailyLogService,
		sprintRepo:      sprintRepo,
		clock:           clock,
	}
}

// Review gathers promises, logs and daily entries for a period and runs the
// scorer and alert rules over them as of today.
func (s *ReviewServiceImpl) Review(ctx context.Context, req primary.ReviewRequest) (*primary.Review, error) {
	var (
		goals []primary.Goal
		logs  []*primary.PromiseLog
		spans = make(map[string]sprintSpan)
		title = req.Title
		start = req.Start
		end   = req.End
	)

	if req.SprintID != "" {
		sprint, err := s.sprintService.GetSprint(ctx, req.SprintID, req.UserID)
		if err != nil {
			return nil, err
		}
		if start == "" {
			start = sprint.StartDate
		}
		if end == "" {
			end = sprint.EndDate
		}
		if title == "" {
			title = sprint.Name
		}
		goals = sprint.Goals
		spans[sprint.ID] = spanOf(sprint.StartDate, sprint.EndDate)
		logs, err = s.ledgerService.GetLogsForSprint(ctx, req.SprintID, req.UserID)
		if err != nil {
			return nil, err
		}
	}

	start, end, err := parseRange(start, end)
	if err != nil {
		return nil, err
	}

	if req.SprintID == "" {
		trees, err := s.sprintRepo.ListGoalsForUserRange(ctx, req.UserID, start, end)
		if err != nil {
			return nil, err
		}
		goals = treesToGoals(trees)
		sprints, err := s.sprintRepo.List(ctx, req.UserID)
		if err != nil {
			return nil, err
		}
		for _, sp := range sprints {
			spans[sp.ID] = spanOf(sp.StartDate, sp.EndDate)
		}
		logs, err = s.ledgerService.GetLogsForDateRange(ctx, req.UserID, start, end)
		if err != nil {
			return nil, err
		}
	}
	if title == "" {
		title = fmt.Sprintf("%s to %s", start, end)
	}

	days, err := s.dailyLogService.ListDays(ctx, req.UserID, start, end)
	if err != nil {
		return nil, err
	}

	in, err := summaryInput(goalsToDefs(goals, spans), logs, days)
	if err != nil {
		return nil, err
	}
	in.Start, _ = schedule.ParseDate(start)
	in.End, _ = schedule.ParseDate(end)
	in.AsOf = schedule.DateOf(s.clock.Now())

	summary := integrity.Summarize(in)
	return &primary.Review{
		Title:   title,
		Summary: summary,
		Alerts:  alerts.GenerateAlerts(logsInPeriod(in.Logs, in.Start, in.End), summary),
	}, nil
}

func summaryInput(defs []integrity.PromiseDef, logs []*primary.PromiseLog, days []*primary.DailyLog) (integrity.SummaryInput, error) {
	l, err := logsToIntegrity(logs)
	if err != nil {
		return integrity.SummaryInput{}, err
	}
	d, err := daysToIntegrity(days)
	if err != nil {
		return integrity.SummaryInput{}, err
	}
	return integrity.SummaryInput{Logs: l, Promises: defs, DailyLogs: d}, nil
}

func logsInPeriod(logs []integrity.Log, start, end time.Time) []integrity.Log {
	var out []integrity.Log
	for _, l := range logs {
		if !l.Date.Before(start) && !l.Date.After(end) {
			out = append(out, l)
		}
	}
	return out
}

// WeekReview builds the request for the ISO week containing date.
func WeekReview(userID string, date time.Time) primary.ReviewRequest {
	from, to := schedule.WeekRange(date)
	return primary.ReviewRequest{
		UserID: userID,
		Title:  "Week of " + schedule.FormatDate(from),
		Start:  schedule.FormatDate(from),
		End:    schedule.FormatDate(to),
	}
}

// MonthReview builds the request for a YYYY-MM month.
func MonthReview(userID, month string) (primary.ReviewRequest, error) {
	from, to, err := schedule.MonthRange(month)
	if err != nil {
		return primary.ReviewRequest{}, apperror.Invalid("", "month", "must be YYYY-MM")
	}
	return primary.ReviewRequest{
		UserID: userID,
		Title:  from.Format("January 2006"),
		Start:  schedule.FormatDate(from),
		End:    schedule.FormatDate(to),
	}, nil
}
