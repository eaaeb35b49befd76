package primary

import "context"

// LedgerService defines the primary port for the completion ledger.
// Dates are YYYY-MM-DD calendar dates.
type LedgerService interface {
	// LogCompletion records whether a promise was kept on a date. Logging
	// the same promise and date again overwrites the earlier entry.
	LogCompletion(ctx context.Context, req LogCompletionRequest) error

	// GetLogsForWeek returns a promise's logs for the Monday..Sunday week
	// containing weekStart.
	GetLogsForWeek(ctx context.Context, promiseID, userID, weekStart string) ([]*PromiseLog, error)

	// GetLogsForSprint returns the logs of every promise in a sprint.
	GetLogsForSprint(ctx context.Context, sprintID, userID string) ([]*PromiseLog, error)

	// GetLogsForDateRange returns a user's logs across all sprints.
	GetLogsForDateRange(ctx context.Context, userID, start, end string) ([]*PromiseLog, error)

	// DeleteTodayLog removes today's log of a promise, if any.
	DeleteTodayLog(ctx context.Context, promiseID, userID string) error
}

// LogCompletionRequest contains parameters for logging a completion.
type LogCompletionRequest struct {
	PromiseID  string `validate:"required"`
	Date       string `validate:"required,datetime=2006-01-02"`
	Completed  bool
	UserID     string `validate:"required"`
	DailyLogID string // optional link to the day's entry
}

// PromiseLog is one ledger entry.
type PromiseLog struct {
	PromiseID  string `json:"promiseId"`
	Date       string `json:"date"`
	UserID     string `json:"userId"`
	Completed  bool   `json:"completed"`
	DailyLogID string `json:"dailyLogId,omitempty"`
	UpdatedAt  string `json:"updatedAt"`
}
