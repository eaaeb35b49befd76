package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/pledge/internal/adapters/cache"
	"github.com/example/pledge/internal/apperror"
	"github.com/example/pledge/internal/ports/primary"
	"github.com/example/pledge/internal/ports/secondary"
)

// DailyLogServiceImpl implements the DailyLogService interface.
type DailyLogServiceImpl struct {
	dailyLogRepo secondary.DailyLogRepository
	cache        secondary.Cache
	logger       *zap.Logger
	newID        func() string
}

// NewDailyLogService creates a new DailyLogService with injected dependencies.
func NewDailyLogService(dailyLogRepo secondary.DailyLogRepository, cache secondary.Cache, logger *zap.Logger) *DailyLogServiceImpl {
	return &DailyLogServiceImpl{
		dailyLogRepo: dailyLogRepo,
		cache:        cache,
		logger:       logger,
		newID:        newID,
	}
}

// RecordDay upserts the user's entry for a date. Recording a date again
// keeps the entry's id.
func (s *DailyLogServiceImpl) RecordDay(ctx context.Context, req primary.RecordDayRequest) (*primary.DailyLog, error) {
	if err := validate.Struct(req); err != nil {
		return nil, apperror.FromValidator("", err)
	}

	record := &secondary.DailyLogRecord{
		ID:          s.newID(),
		UserID:      req.UserID,
		Date:        req.Date,
		Energy:      req.Energy,
		MotionUnits: req.MotionUnits,
		ActionUnits: req.ActionUnits,
		Note:        req.Note,
	}
	id, err := s.dailyLogRepo.Upsert(ctx, record)
	if err != nil {
		return nil, err
	}
	record.ID = id

	invalidate(ctx, s.cache, s.logger, userDaysTag(req.UserID))
	return recordToDailyLog(record), nil
}

// ListDays lists a user's entries in [start, end], read through the cache.
func (s *DailyLogServiceImpl) ListDays(ctx context.Context, userID, start, end string) ([]*primary.DailyLog, error) {
	start, end, err := parseRange(start, end)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("days:range:%s:%s:%s", userID, start, end)
	return cache.FetchJSON(ctx, s.cache, key, []string{userDaysTag(userID)},
		func(ctx context.Context) ([]*primary.DailyLog, error) {
			records, err := s.dailyLogRepo.ListForUserRange(ctx, userID, start, end)
			if err != nil {
				return nil, err
			}
			days := make([]*primary.DailyLog, 0, len(records))
			for _, r := range records {
				days = append(days, recordToDailyLog(r))
			}
			return days, nil
		})
}
