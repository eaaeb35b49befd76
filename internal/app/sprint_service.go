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

// SprintServiceImpl implements the SprintService interface.
type SprintServiceImpl struct {
	sprintRepo secondary.SprintRepository
	cache      secondary.Cache
	logger     *zap.Logger
	newID      func() string
}

// NewSprintService creates a new SprintService with injected dependencies.
func NewSprintService(sprintRepo secondary.SprintRepository, cache secondary.Cache, logger *zap.Logger) *SprintServiceImpl {
	return &SprintServiceImpl{
		sprintRepo: sprintRepo,
		cache:      cache,
		logger:     logger,
		newID:      newID,
	}
}

// CreateSprint creates an empty sprint.
func (s *SprintServiceImpl) CreateSprint(ctx context.Context, req primary.CreateSprintRequest) (*primary.Sprint, error) {
	if err := validate.Struct(req); err != nil {
		return nil, apperror.FromValidator("", err)
	}
	start, _ := schedule.ParseDate(req.StartDate)
	end, _ := schedule.ParseDate(req.EndDate)
	if end.Before(start) {
		return nil, apperror.Invalid("", "endDate", "must not be before startDate")
	}

	record := &secondary.SprintRecord{
		ID:        s.newID(),
		UserID:    req.UserID,
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	if err := s.sprintRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	created, err := s.sprintRepo.GetByID(ctx, record.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created sprint: %w", err)
	}

	s.logger.Info("sprint created", zap.String("sprint_id", created.ID), zap.String("user_id", created.UserID))
	return recordToSprint(created, nil), nil
}

// GetSprint retrieves a sprint with its goal tree from the cache.
func (s *SprintServiceImpl) GetSprint(ctx context.Context, sprintID, userID string) (*primary.Sprint, error) {
	key := "sprint:" + sprintID + ":plan"
	sprint, err := cache.FetchJSON(ctx, s.cache, key, []string{sprintTag(sprintID)},
		func(ctx context.Context) (*primary.Sprint, error) {
			record, err := s.sprintRepo.GetByID(ctx, sprintID)
			if err != nil {
				return nil, err
			}
			trees, err := s.sprintRepo.ListGoalsWithPromises(ctx, sprintID)
			if err != nil {
				return nil, err
			}
			return recordToSprint(record, trees), nil
		})
	if err != nil {
		return nil, err
	}
	if sprint.UserID != userID {
		return nil, apperror.Forbidden("sprint", sprintID)
	}
	return sprint, nil
}

// ListSprints lists a user's sprints without goal trees.
func (s *SprintServiceImpl) ListSprints(ctx context.Context, userID string) ([]*primary.Sprint, error) {
	records, err := s.sprintRepo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	sprints := make([]*primary.Sprint, 0, len(records))
	for _, r := range records {
		sprints = append(sprints, recordToSprint(r, nil))
	}
	return sprints, nil
}

// DeleteSprint deletes a sprint owned by userID.
func (s *SprintServiceImpl) DeleteSprint(ctx context.Context, sprintID, userID string) error {
	record, err := s.sprintRepo.GetByID(ctx, sprintID)
	if err != nil {
		return err
	}
	if record.UserID != userID {
		return apperror.Forbidden("sprint", sprintID)
	}
	if err := s.sprintRepo.Delete(ctx, sprintID); err != nil {
		return err
	}

	invalidate(ctx, s.cache, s.logger, sprintTag(sprintID), userLogsTag(userID))
	s.logger.Info("sprint deleted", zap.String("sprint_id", sprintID))
	return nil
}
