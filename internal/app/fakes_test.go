package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/pledge/internal/apperror"
	"github.com/example/pledge/internal/ports/secondary"
)

var errBoom = errors.New("boom")

// jan2 is Tuesday 2024-01-02 09:00 UTC, the "today" of most tests.
var jan2 = time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)

// ============================================================================
// Commitment store
// ============================================================================

// fakeCommitmentStore records the statements a reconciliation issues.
// It does not roll back; atomicity is covered against SQLite.
type fakeCommitmentStore struct {
	owner     string
	trees     []*secondary.GoalWithPromises
	failOn    string
	calls     []string
	committed bool
}

var _ secondary.CommitmentStore = (*fakeCommitmentStore)(nil)

func newFakeCommitmentStore(owner string, trees ...*secondary.GoalWithPromises) *fakeCommitmentStore {
	return &fakeCommitmentStore{owner: owner, trees: trees}
}

func (f *fakeCommitmentStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx secondary.CommitmentTx) error) error {
	if err := fn(ctx, &fakeCommitmentTx{store: f}); err != nil {
		return err
	}
	f.committed = true
	return nil
}

type fakeCommitmentTx struct {
	store *fakeCommitmentStore
}

func (t *fakeCommitmentTx) record(call string) error {
	t.store.calls = append(t.store.calls, call)
	if t.store.failOn != "" && strings.HasPrefix(call, t.store.failOn) {
		return errBoom
	}
	return nil
}

func (t *fakeCommitmentTx) SprintOwnedBy(ctx context.Context, sprintID, userID string) (bool, error) {
	if err := t.record("SprintOwnedBy"); err != nil {
		return false, err
	}
	return userID == t.store.owner, nil
}

func (t *fakeCommitmentTx) ListGoalsWithPromises(ctx context.Context, sprintID string) ([]*secondary.GoalWithPromises, error) {
	if err := t.record("ListGoalsWithPromises"); err != nil {
		return nil, err
	}
	return t.store.trees, nil
}

func (t *fakeCommitmentTx) DeleteGoals(ctx context.Context, sprintID string, ids []string) error {
	return t.record(fmt.Sprintf("DeleteGoals:%v", ids))
}

func (t *fakeCommitmentTx) InsertGoal(ctx context.Context, goal *secondary.GoalRecord) error {
	return t.record("InsertGoal:" + goal.GoalText)
}

func (t *fakeCommitmentTx) UpdateGoal(ctx context.Context, goal *secondary.GoalRecord) error {
	return t.record("UpdateGoal:" + goal.ID)
}

func (t *fakeCommitmentTx) InsertPromises(ctx context.Context, promises []*secondary.PromiseRecord) error {
	return t.record(fmt.Sprintf("InsertPromises:%d", len(promises)))
}

func (t *fakeCommitmentTx) UpdatePromise(ctx context.Context, promise *secondary.PromiseRecord) error {
	return t.record("UpdatePromise:" + promise.ID)
}

func (t *fakeCommitmentTx) DeletePromises(ctx context.Context, goalID string, ids []string) error {
	return t.record(fmt.Sprintf("DeletePromises:%v", ids))
}

func (t *fakeCommitmentTx) DeleteLogForDate(ctx context.Context, promiseID, userID, date string) (bool, error) {
	if err := t.record(fmt.Sprintf("DeleteLogForDate:%s:%s", promiseID, date)); err != nil {
		return false, err
	}
	return true, nil
}

// ============================================================================
// Ledger repository
// ============================================================================

// mockLedgerRepository implements secondary.LedgerRepository for testing.
type mockLedgerRepository struct {
	owners    map[string]*secondary.PromiseOwnerRecord
	logs      map[string]*secondary.PromiseLogRecord // promiseID|date
	upsertErr error
	listCalls int
}

var _ secondary.LedgerRepository = (*mockLedgerRepository)(nil)

func newMockLedgerRepository() *mockLedgerRepository {
	return &mockLedgerRepository{
		owners: make(map[string]*secondary.PromiseOwnerRecord),
		logs:   make(map[string]*secondary.PromiseLogRecord),
	}
}

func (m *mockLedgerRepository) addPromise(promiseID, sprintID, userID string) {
	m.owners[promiseID] = &secondary.PromiseOwnerRecord{PromiseID: promiseID, SprintID: sprintID, UserID: userID}
}

func (m *mockLedgerRepository) PromiseOwner(ctx context.Context, promiseID string) (*secondary.PromiseOwnerRecord, error) {
	return m.owners[promiseID], nil
}

func (m *mockLedgerRepository) UpsertLog(ctx context.Context, log *secondary.PromiseLogRecord) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	stored := *log
	m.logs[log.PromiseID+"|"+log.Date] = &stored
	return nil
}

func (m *mockLedgerRepository) ListLogsForPromiseRange(ctx context.Context, promiseID, userID, start, end string) ([]*secondary.PromiseLogRecord, error) {
	m.listCalls++
	var out []*secondary.PromiseLogRecord
	for _, l := range m.logs {
		if l.PromiseID == promiseID && l.UserID == userID && l.Date >= start && l.Date <= end {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *mockLedgerRepository) ListPromiseIDsForSprint(ctx context.Context, sprintID string) ([]string, error) {
	var ids []string
	for id, o := range m.owners {
		if o.SprintID == sprintID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *mockLedgerRepository) ListLogsForPromises(ctx context.Context, promiseIDs []string, userID string) ([]*secondary.PromiseLogRecord, error) {
	m.listCalls++
	want := make(map[string]bool, len(promiseIDs))
	for _, id := range promiseIDs {
		want[id] = true
	}
	var out []*secondary.PromiseLogRecord
	for _, l := range m.logs {
		if want[l.PromiseID] && l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *mockLedgerRepository) ListLogsForUserRange(ctx context.Context, userID, start, end string) ([]*secondary.PromiseLogRecord, error) {
	m.listCalls++
	var out []*secondary.PromiseLogRecord
	for _, l := range m.logs {
		if l.UserID == userID && l.Date >= start && l.Date <= end {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *mockLedgerRepository) DeleteLogForDate(ctx context.Context, promiseID, userID, date string) (bool, error) {
	key := promiseID + "|" + date
	l, ok := m.logs[key]
	if !ok || l.UserID != userID {
		return false, nil
	}
	delete(m.logs, key)
	return true, nil
}

// ============================================================================
// Daily log repository
// ============================================================================

// mockDailyLogRepository implements secondary.DailyLogRepository for testing.
type mockDailyLogRepository struct {
	days map[string]*secondary.DailyLogRecord // userID|date
}

var _ secondary.DailyLogRepository = (*mockDailyLogRepository)(nil)

func newMockDailyLogRepository() *mockDailyLogRepository {
	return &mockDailyLogRepository{days: make(map[string]*secondary.DailyLogRecord)}
}

func (m *mockDailyLogRepository) Upsert(ctx context.Context, day *secondary.DailyLogRecord) (string, error) {
	key := day.UserID + "|" + day.Date
	stored := *day
	if existing, ok := m.days[key]; ok {
		stored.ID = existing.ID
	}
	m.days[key] = &stored
	return stored.ID, nil
}

func (m *mockDailyLogRepository) GetByID(ctx context.Context, id string) (*secondary.DailyLogRecord, error) {
	for _, d := range m.days {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, apperror.NotFound("daily log", id)
}

func (m *mockDailyLogRepository) ListForUserRange(ctx context.Context, userID, start, end string) ([]*secondary.DailyLogRecord, error) {
	var out []*secondary.DailyLogRecord
	for _, d := range m.days {
		if d.UserID == userID && d.Date >= start && d.Date <= end {
			out = append(out, d)
		}
	}
	return out, nil
}

// ============================================================================
// Sprint repository
// ============================================================================

// mockSprintRepository implements secondary.SprintRepository for testing.
type mockSprintRepository struct {
	sprints   map[string]*secondary.SprintRecord
	trees     map[string][]*secondary.GoalWithPromises
	createErr error
	loads     int
}

var _ secondary.SprintRepository = (*mockSprintRepository)(nil)

func newMockSprintRepository() *mockSprintRepository {
	return &mockSprintRepository{
		sprints: make(map[string]*secondary.SprintRecord),
		trees:   make(map[string][]*secondary.GoalWithPromises),
	}
}

func (m *mockSprintRepository) Create(ctx context.Context, sprint *secondary.SprintRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	stored := *sprint
	stored.CreatedAt = "2024-01-01T00:00:00Z"
	m.sprints[sprint.ID] = &stored
	return nil
}

func (m *mockSprintRepository) GetByID(ctx context.Context, id string) (*secondary.SprintRecord, error) {
	if s, ok := m.sprints[id]; ok {
		return s, nil
	}
	return nil, apperror.NotFound("sprint", id)
}

func (m *mockSprintRepository) List(ctx context.Context, userID string) ([]*secondary.SprintRecord, error) {
	var out []*secondary.SprintRecord
	for _, s := range m.sprints {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockSprintRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.sprints[id]; !ok {
		return apperror.NotFound("sprint", id)
	}
	delete(m.sprints, id)
	delete(m.trees, id)
	return nil
}

func (m *mockSprintRepository) ListGoalsWithPromises(ctx context.Context, sprintID string) ([]*secondary.GoalWithPromises, error) {
	m.loads++
	return m.trees[sprintID], nil
}

func (m *mockSprintRepository) ListGoalsForUserRange(ctx context.Context, userID, start, end string) ([]*secondary.GoalWithPromises, error) {
	var out []*secondary.GoalWithPromises
	for id, s := range m.sprints {
		if s.UserID == userID && s.StartDate <= end && s.EndDate >= start {
			out = append(out, m.trees[id]...)
		}
	}
	return out, nil
}

// ============================================================================
// Fixtures
// ============================================================================

// writingTree is goal g1 with p1 "Write 500 words" daily Mon..Fri.
func writingTree() *secondary.GoalWithPromises {
	return &secondary.GoalWithPromises{
		Goal: &secondary.GoalRecord{ID: "g1", SprintID: "s1", GoalText: "Writing", SortOrder: 0},
		Promises: []*secondary.PromiseRecord{{
			ID: "p1", SprintGoalID: "g1", SprintID: "s1",
			Text: "Write 500 words", Type: "daily", ScheduleDays: []int{1, 2, 3, 4, 5},
		}},
	}
}
