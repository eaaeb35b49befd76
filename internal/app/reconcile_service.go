package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/pledge/internal/apperror"
	"github.com/example/pledge/internal/core/commitment"
	"github.com/example/pledge/internal/core/schedule"
	"github.com/example/pledge/internal/ports/primary"
	"github.com/example/pledge/internal/ports/secondary"
)

// ReconcileServiceImpl implements the ReconcileService interface.
type ReconcileServiceImpl struct {
	store  secondary.CommitmentStore
	cache  secondary.Cache
	clock  secondary.Clock
	logger *zap.Logger
	newID  func() string
}

// NewReconcileService creates a new ReconcileService with injected dependencies.
func NewReconcileService(store secondary.CommitmentStore, cache secondary.Cache, clock secondary.Clock, logger *zap.Logger) *ReconcileServiceImpl {
	return &ReconcileServiceImpl{
		store:  store,
		cache:  cache,
		clock:  clock,
		logger: logger,
		newID:  newID,
	}
}

// Reconcile applies the desired goal set of a sprint in one transaction.
// Validation and not-found failures are returned as they are; any other
// failure rolls back and is reported as a ConsistencyError.
func (s *ReconcileServiceImpl) Reconcile(ctx context.Context, req primary.ReconcileRequest) (*primary.ReconcileResult, error) {
	desired := desiredToCommitment(req.Goals)
	today := schedule.FormatDate(s.clock.Now())

	var (
		counts      commitment.Counts
		invalidated int
		tags        []string
		unchanged   bool
	)
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx secondary.CommitmentTx) error {
		owned, err := tx.SprintOwnedBy(ctx, req.SprintID, req.UserID)
		if err != nil {
			return fmt.Errorf("failed to check sprint owner: %w", err)
		}
		if !owned {
			return apperror.NotFound("sprint", req.SprintID)
		}

		trees, err := tx.ListGoalsWithPromises(ctx, req.SprintID)
		if err != nil {
			return fmt.Errorf("failed to load goals: %w", err)
		}

		plan, err := commitment.Plan(treesToCommitment(trees), desired, s.newID)
		if err != nil {
			return err
		}
		if plan.Empty() {
			unchanged = true
			return nil
		}

		invalidated, err = s.apply(ctx, tx, req, today, plan)
		if err != nil {
			return err
		}
		counts = plan.Counts()

		tags = []string{sprintTag(req.SprintID), userLogsTag(req.UserID)}
		for _, t := range trees {
			for _, p := range t.Promises {
				tags = append(tags, promiseTag(p.ID))
			}
		}
		return nil
	})
	if err != nil {
		if apperror.IsValidation(err) || apperror.IsHidden(err) {
			return nil, err
		}
		return nil, &apperror.ConsistencyError{Op: "reconcile", Err: err}
	}

	if unchanged {
		s.logger.Info("sprint unchanged", zap.String("sprint_id", req.SprintID))
		return &primary.ReconcileResult{}, nil
	}

	invalidate(ctx, s.cache, s.logger, tags...)

	s.logger.Info("sprint reconciled",
		zap.String("sprint_id", req.SprintID),
		zap.Int("goals_created", counts.GoalsCreated),
		zap.Int("goals_updated", counts.GoalsUpdated),
		zap.Int("goals_deleted", counts.GoalsDeleted),
		zap.Int("promises_created", counts.PromisesCreated),
		zap.Int("promises_updated", counts.PromisesUpdated),
		zap.Int("promises_deleted", counts.PromisesDeleted),
		zap.Int("schedules_changed", counts.SchedulesChanged),
		zap.Int("logs_invalidated", invalidated),
	)

	return &primary.ReconcileResult{
		GoalsCreated:    counts.GoalsCreated,
		GoalsUpdated:    counts.GoalsUpdated,
		GoalsDeleted:    counts.GoalsDeleted,
		PromisesCreated: counts.PromisesCreated,
		PromisesUpdated: counts.PromisesUpdated,
		PromisesDeleted: counts.PromisesDeleted,
		LogsInvalidated: invalidated,
	}, nil
}

// apply performs the planned writes: goal deletes first, then each desired
// goal in order with its promise deletes, updates and one batched insert.
// It returns the number of today's logs removed by schedule changes.
func (s *ReconcileServiceImpl) apply(ctx context.Context, tx secondary.CommitmentTx, req primary.ReconcileRequest, today string, plan *commitment.ReconcilePlan) (int, error) {
	if len(plan.DeleteGoalIDs) > 0 {
		if err := tx.DeleteGoals(ctx, req.SprintID, plan.DeleteGoalIDs); err != nil {
			return 0, fmt.Errorf("failed to delete goals: %w", err)
		}
	}

	invalidated := 0
	for _, gp := range plan.Goals {
		goal := goalToRecord(req.SprintID, gp.Goal)
		switch {
		case gp.Create:
			if err := tx.InsertGoal(ctx, goal); err != nil {
				return 0, fmt.Errorf("failed to create goal %q: %w", goal.GoalText, err)
			}
		case gp.GoalChanged:
			if err := tx.UpdateGoal(ctx, goal); err != nil {
				return 0, fmt.Errorf("failed to update goal %q: %w", goal.GoalText, err)
			}
		}

		if len(gp.DeletePromiseIDs) > 0 {
			if err := tx.DeletePromises(ctx, goal.ID, gp.DeletePromiseIDs); err != nil {
				return 0, fmt.Errorf("failed to delete promises: %w", err)
			}
		}

		for _, u := range gp.UpdatePromises {
			// A changed promise is a different commitment from today on;
			// earlier days keep their history.
			if u.ScheduleChanged {
				deleted, err := tx.DeleteLogForDate(ctx, u.Promise.ID, req.UserID, today)
				if err != nil {
					return 0, fmt.Errorf("failed to invalidate today's log: %w", err)
				}
				if deleted {
					invalidated++
				}
			}
			if err := tx.UpdatePromise(ctx, promiseToRecord(req.SprintID, goal.ID, u.Promise)); err != nil {
				return 0, fmt.Errorf("failed to update promise %q: %w", u.Promise.Text, err)
			}
		}

		if len(gp.CreatePromises) > 0 {
			records := make([]*secondary.PromiseRecord, 0, len(gp.CreatePromises))
			for _, p := range gp.CreatePromises {
				records = append(records, promiseToRecord(req.SprintID, goal.ID, p))
			}
			if err := tx.InsertPromises(ctx, records); err != nil {
				return 0, fmt.Errorf("failed to create promises: %w", err)
			}
		}
	}
	return invalidated, nil
}
