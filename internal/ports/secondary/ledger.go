package secondary

import "context"

// LedgerRepository defines the secondary port for promise logs.
type LedgerRepository interface {
	// PromiseOwner resolves the sprint and user owning a promise.
	// Returns nil when the promise does not exist.
	PromiseOwner(ctx context.Context, promiseID string) (*PromiseOwnerRecord, error)

	// UpsertLog inserts a log or overwrites completed and daily log of the
	// existing (promise, date) row in one statement.
	UpsertLog(ctx context.Context, log *PromiseLogRecord) error

	// ListLogsForPromiseRange lists one promise's logs in [start, end].
	ListLogsForPromiseRange(ctx context.Context, promiseID, userID, start, end string) ([]*PromiseLogRecord, error)

	// ListPromiseIDsForSprint lists the ids of every promise in a sprint.
	ListPromiseIDsForSprint(ctx context.Context, sprintID string) ([]string, error)

	// ListLogsForPromises lists the logs of many promises in one query.
	ListLogsForPromises(ctx context.Context, promiseIDs []string, userID string) ([]*PromiseLogRecord, error)

	// ListLogsForUserRange lists a user's logs in [start, end] across sprints.
	ListLogsForUserRange(ctx context.Context, userID, start, end string) ([]*PromiseLogRecord, error)

	// DeleteLogForDate deletes one log and reports whether a row was removed.
	DeleteLogForDate(ctx context.Context, promiseID, userID, date string) (bool, error)
}

// PromiseOwnerRecord identifies who owns a promise.
type PromiseOwnerRecord struct {
	PromiseID string
	SprintID  string
	UserID    string
}

// PromiseLogRecord represents a promise log as stored in persistence.
type PromiseLogRecord struct {
	PromiseID  string
	Date       string
	UserID     string
	Completed  bool
	DailyLogID string // empty when not linked
	UpdatedAt  string
}

// DailyLogRepository defines the secondary port for daily entries.
type DailyLogRepository interface {
	// Upsert inserts or replaces the user's entry for the record's date and
	// returns the id of the stored row.
	Upsert(ctx context.Context, day *DailyLogRecord) (string, error)

	// GetByID retrieves an entry by id.
	GetByID(ctx context.Context, id string) (*DailyLogRecord, error)

	// ListForUserRange lists a user's entries in [start, end] by date.
	ListForUserRange(ctx context.Context, userID, start, end string) ([]*DailyLogRecord, error)
}

// DailyLogRecord represents a daily entry as stored in persistence.
type DailyLogRecord struct {
	ID          string
	UserID      string
	Date        string
	Energy      int
	MotionUnits int
	ActionUnits int
	Note        string
}
