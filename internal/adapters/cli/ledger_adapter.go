package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/pledge/internal/ports/primary"
)

// LedgerAdapter translates completion and daily log commands to service calls.
type LedgerAdapter struct {
	ledger primary.LedgerService
	days   primary.DailyLogService
	out    io.Writer
}

// NewLedgerAdapter creates a new LedgerAdapter.
func NewLedgerAdapter(ledger primary.LedgerService, days primary.DailyLogService, out io.Writer) *LedgerAdapter {
	return &LedgerAdapter{
		ledger: ledger,
		days:   days,
		out:    out,
	}
}

// Log records a promise as kept or missed on a date.
func (a *LedgerAdapter) Log(ctx context.Context, req primary.LogCompletionRequest) error {
	if err := a.ledger.LogCompletion(ctx, req); err != nil {
		return err
	}
	status := "kept"
	if !req.Completed {
		status = "missed"
	}
	fmt.Fprintf(a.out, "✓ Logged %s as %s on %s\n", req.PromiseID, status, req.Date)
	return nil
}

// ClearToday removes today's log of a promise.
func (a *LedgerAdapter) ClearToday(ctx context.Context, promiseID, userID string) error {
	if err := a.ledger.DeleteTodayLog(ctx, promiseID, userID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Cleared today's log for %s\n", promiseID)
	return nil
}

// Day records the user's energy and effort for a date.
func (a *LedgerAdapter) Day(ctx context.Context, req primary.RecordDayRequest) error {
	day, err := a.days.RecordDay(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Recorded %s (id %s): energy %d, %d motion, %d action\n",
		day.Date, day.ID, day.Energy, day.MotionUnits, day.ActionUnits)
	return nil
}

// Week prints a promise's logs for a week.
func (a *LedgerAdapter) Week(ctx context.Context, promiseID, userID, weekStart string) error {
	logs, err := a.ledger.GetLogsForWeek(ctx, promiseID, userID, weekStart)
	if err != nil {
		return err
	}
	a.printLogs(logs)
	return nil
}

// Sprint prints the logs of every promise in a sprint.
func (a *LedgerAdapter) Sprint(ctx context.Context, sprintID, userID string) error {
	logs, err := a.ledger.GetLogsForSprint(ctx, sprintID, userID)
	if err != nil {
		return err
	}
	a.printLogs(logs)
	return nil
}

// Range prints a user's logs between two dates.
func (a *LedgerAdapter) Range(ctx context.Context, userID, start, end string) error {
	logs, err := a.ledger.GetLogsForDateRange(ctx, userID, start, end)
	if err != nil {
		return err
	}
	a.printLogs(logs)
	return nil
}

func (a *LedgerAdapter) printLogs(logs []*primary.PromiseLog) {
	if len(logs) == 0 {
		fmt.Fprintln(a.out, "No logs found")
		return
	}
	fmt.Fprintf(a.out, "%-10s %-6s %s\n", "DATE", "KEPT", "PROMISE")
	for _, l := range logs {
		kept := "no"
		if l.Completed {
			kept = "yes"
		}
		fmt.Fprintf(a.out, "%-10s %-6s %s\n", l.Date, kept, l.PromiseID)
	}
}
