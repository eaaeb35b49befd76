package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/pledge/internal/adapters/cache"
	"github.com/example/pledge/internal/apperror"
	"github.com/example/pledge/internal/core/schedule"
	"github.com/example/pledge/internal/ports/primary"
	"github.com/example/pledge/internal/ports/secondary"
)

// LedgerServiceImpl implements the LedgerService interface.
type LedgerServiceImpl struct {
	ledgerRepo   secondary.LedgerRepository
	dailyLogRepo secondary.DailyLogRepository
	sprintRepo   secondary.SprintRepository
	cache        secondary.Cache
	clock        secondary.Clock
	logger       *zap.Logger
}

// NewLedgerService creates a new LedgerService with injected dependencies.
func NewLedgerService(
	ledgerRepo secondary.LedgerRepository,
	dailyLogRepo secondary.DailyLogRepository,
	sprintRepo secondary.SprintRepository,
	cache secondary.Cache,
	clock secondary.Clock,
	logger *zap.Logger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		ledgerRepo:   ledgerRepo,
		dailyLogRepo: dailyLogRepo,
		sprintRepo:   sprintRepo,
		cache:        cache,
		clock:        clock,
		logger:       logger,
	}
}

// LogCompletion records a completion with one upsert on (promise, date).
func (s *LedgerServiceImpl) LogCompletion(ctx context.Context, req primary.LogCompletionRequest) error {
	if err := validate.Struct(req); err != nil {
		return apperror.FromValidator("", err)
	}

	owner, err := s.ownedPromise(ctx, req.PromiseID, req.UserID)
	if err != nil {
		return err
	}

	if req.DailyLogID != "" {
		day, err := s.dailyLogRepo.GetByID(ctx, req.DailyLogID)
		if err != nil {
			return err
		}
		if day.UserID != req.UserID {
			return apperror.Forbidden("daily log", req.DailyLogID)
		}
	}

	record := &secondary.PromiseLogRecord{
		PromiseID:  req.PromiseID,
		Date:       req.Date,
		UserID:     req.UserID,
		Completed:  req.Completed,
		DailyLogID: req.DailyLogID,
	}
	if err := s.ledgerRepo.UpsertLog(ctx, record); err != nil {
		return err
	}

	invalidate(ctx, s.cache, s.logger, promiseTag(req.PromiseID), sprintTag(owner.SprintID), userLogsTag(req.UserID))
	return nil
}

// GetLogsForWeek returns a promise's logs for the ISO week containing weekStart.
func (s *LedgerServiceImpl) GetLogsForWeek(ctx context.Context, promiseID, userID, weekStart string) ([]*primary.PromiseLog, error) {
	d, err := schedule.ParseDate(weekStart)
	if err != nil {
		return nil, apperror.Invalid("", "weekStart", "must be a YYYY-MM-DD date")
	}
	if _, err := s.ownedPromise(ctx, promiseID, userID); err != nil {
		return nil, err
	}

	from, to := schedule.WeekRange(d)
	start, end := schedule.FormatDate(from), schedule.FormatDate(to)
	key := fmt.Sprintf("logs:week:%s:%s", promiseID, start)
	return cache.FetchJSON(ctx, s.cache, key, []string{promiseTag(promiseID), userLogsTag(userID)},
		func(ctx context.Context) ([]*primary.PromiseLog, error) {
			records, err := s.ledgerRepo.ListLogsForPromiseRange(ctx, promiseID, userID, start, end)
			if err != nil {
				return nil, err
			}
			return recordsToLogs(records), nil
		})
}

// GetLogsForSprint returns the logs of every promise in a sprint using two
// queries: promise ids, then logs for all of them.
func (s *LedgerServiceImpl) GetLogsForSprint(ctx context.Context, sprintID, userID string) ([]*primary.PromiseLog, error) {
	sprint, err := s.sprintRepo.GetByID(ctx, sprintID)
	if err != nil {
		return nil, err
	}
	if sprint.UserID != userID {
		return nil, apperror.Forbidden("sprint", sprintID)
	}

	key := "logs:sprint:" + sprintID
	return cache.FetchJSON(ctx, s.cache, key, []string{sprintTag(sprintID), userLogsTag(userID)},
		func(ctx context.Context) ([]*primary.PromiseLog, error) {
			ids, err := s.ledgerRepo.ListPromiseIDsForSprint(ctx, sprintID)
			if err != nil {
				return nil, err
			}
			records, err := s.ledgerRepo.ListLogsForPromises(ctx, ids, userID)
			if err != nil {
				return nil, err
			}
			return recordsToLogs(records), nil
		})
}

// GetLogsForDateRange returns a user's logs in [start, end] across sprints.
func (s *LedgerServiceImpl) GetLogsForDateRange(ctx context.Context, userID, start, end string) ([]*primary.PromiseLog, error) {
	start, end, err := parseRange(start, end)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("logs:range:%s:%s:%s", userID, start, end)
	return cache.FetchJSON(ctx, s.cache, key, []string{userLogsTag(userID)},
		func(ctx context.Context) ([]*primary.PromiseLog, error) {
			records, err := s.ledgerRepo.ListLogsForUserRange(ctx, userID, start, end)
			if err != nil {
				return nil, err
			}
			return recordsToLogs(records), nil
		})
}

// DeleteTodayLog removes the user's log of a promise for today, if any.
func (s *LedgerServiceImpl) DeleteTodayLog(ctx context.Context, promiseID, userID string) error {
	owner, err := s.ownedPromise(ctx, promiseID, userID)
	if err != nil {
		return err
	}

	today := schedule.FormatDate(s.clock.Now())
	deleted, err := s.ledgerRepo.DeleteLogForDate(ctx, promiseID, userID, today)
	if err != nil {
		return err
	}
	if deleted {
		invalidate(ctx, s.cache, s.logger, promiseTag(promiseID), sprintTag(owner.SprintID), userLogsTag(userID))
	}
	return nil
}

// ownedPromise resolves a promise and checks it belongs to userID.
func (s *LedgerServiceImpl) ownedPromise(ctx context.Context, promiseID, userID string) (*secondary.PromiseOwnerRecord, error) {
	owner, err := s.ledgerRepo.PromiseOwner(ctx, promiseID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, apperror.NotFound("promise", promiseID)
	}
	if owner.UserID != userID {
		return nil, apperror.Forbidden("promise", promiseID)
	}
	return owner, nil
}
