package primary

import "context"

// DailyLogService defines the primary port for a user's daily entries of
// energy and effort.
type DailyLogService interface {
	// RecordDay creates or replaces the user's entry for a date.
	RecordDay(ctx context.Context, req RecordDayRequest) (*DailyLog, error)

	// ListDays lists a user's entries in [start, end].
	ListDays(ctx context.Context, userID, start, end string) ([]*DailyLog, error)
}

// RecordDayRequest contains parameters for recording a day.
type RecordDayRequest struct {
	UserID      string `validate:"required"`
	Date        string `validate:"required,datetime=2006-01-02"`
	Energy      int    `validate:"omitempty,min=1,max=5"`
	MotionUnits int    `validate:"min=0"`
	ActionUnits int    `validate:"min=0"`
	Note        string `validate:"max=500"`
}

// DailyLog is one day's entry.
type DailyLog struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	Date        string `json:"date"`
	Energy      int    `json:"energy"`
	MotionUnits int    `json:"motionUnits"`
	ActionUnits int    `json:"actionUnits"`
	Note        string `json:"note,omitempty"`
}
