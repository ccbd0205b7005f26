package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Dosada05/debate-tournament/models"
	"github.com/Dosada05/debate-tournament/repositories"
)

// ------------------------
// Fake Transactor
// ------------------------

type FakeTransactor struct {
	WithinTxFunc func(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error
}

func (f *FakeTransactor) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	if f.WithinTxFunc != nil {
		return f.WithinTxFunc(ctx, fn)
	}
	return fn(nil)
}

// ------------------------
// Fake Event Repository
// ------------------------

type FakeEventRepo struct {
	mu     sync.Mutex
	trace  []string
	Events map[int]*models.Event

	GetByIDFunc        func(ctx context.Context, id int) (*models.Event, error)
	UpdateProgressFunc func(ctx context.Context, id int, progress models.EventProgress) error
}

func NewFakeEventRepo(events ...*models.Event) *FakeEventRepo {
	f := &FakeEventRepo{Events: make(map[int]*models.Event)}
	for _, e := range events {
		f.Events[e.ID] = e
	}
	return f
}

func (f *FakeEventRepo) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

func (f *FakeEventRepo) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.trace...)
}

func (f *FakeEventRepo) get(ctx context.Context, id int) (*models.Event, error) {
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.Events[id]
	if !ok {
		return nil, repositories.ErrEventNotFound
	}
	copied := *event
	return &copied, nil
}

func (f *FakeEventRepo) GetByID(ctx context.Context, _ repositories.SQLExecutor, id int) (*models.Event, error) {
	f.record("GetByID")
	return f.get(ctx, id)
}

func (f *FakeEventRepo) LockByID(ctx context.Context, _ repositories.SQLExecutor, id int) (*models.Event, error) {
	f.record("LockByID")
	return f.get(ctx, id)
}

func (f *FakeEventRepo) UpdateMatchInterval(_ context.Context, _ repositories.SQLExecutor, id int, seconds int) error {
	f.record("UpdateMatchInterval")
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.Events[id]
	if !ok {
		return repositories.ErrEventNotFound
	}
	event.MatchInterval = seconds
	return nil
}

func (f *FakeEventRepo) UpdateProgress(ctx context.Context, _ repositories.SQLExecutor, id int, progress models.EventProgress) error {
	f.record("UpdateProgress")
	if f.UpdateProgressFunc != nil {
		return f.UpdateProgressFunc(ctx, id, progress)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.Events[id]
	if !ok {
		return repositories.ErrEventNotFound
	}
	event.EventProgress = progress
	return nil
}

// ------------------------
// Fake Entrant Repository
// ------------------------

type FakeEntrantRepo struct {
	Approved []int

	ListApprovedIDsFunc func(ctx context.Context, eventID int, mode models.EntrantMode) ([]int, error)
	ListMembersFunc     func(ctx context.Context, eventID int, mode models.EntrantMode, ids []int) (map[int][]models.Member, error)
}

func (f *FakeEntrantRepo) ListApprovedIDs(ctx context.Context, _ repositories.SQLExecutor, eventID int, mode models.EntrantMode) ([]int, error) {
	if f.ListApprovedIDsFunc != nil {
		return f.ListApprovedIDsFunc(ctx, eventID, mode)
	}
	return append([]int{}, f.Approved...), nil
}

// ListMembers по умолчанию выдаёт каждому участнику один аккаунт "acc-<id>".
func (f *FakeEntrantRepo) ListMembers(ctx context.Context, _ repositories.SQLExecutor, eventID int, mode models.EntrantMode, ids []int) (map[int][]models.Member, error) {
	if f.ListMembersFunc != nil {
		return f.ListMembersFunc(ctx, eventID, mode, ids)
	}
	members := make(map[int][]models.Member, len(ids))
	for _, id := range ids {
		members[id] = []models.Member{{ID: id, EventID: eventID, UserID: fmt.Sprintf("acc-%d", id)}}
	}
	return members, nil
}

// ------------------------
// Fake Judge Repository
// ------------------------

type FakeJudgeRepo struct {
	Judges []int

	ListEligibleIDsFunc func(ctx context.Context, eventID int) ([]int, error)
}

func (f *FakeJudgeRepo) ListEligibleIDs(ctx context.Context, _ repositories.SQLExecutor, eventID int) ([]int, error) {
	if f.ListEligibleIDsFunc != nil {
		return f.ListEligibleIDsFunc(ctx, eventID)
	}
	return append([]int{}, f.Judges...), nil
}

// ------------------------
// Fake Match Repository
// ------------------------

// FakeMatchRepo хранит копии матчей в памяти, как это делала бы база.
type FakeMatchRepo struct {
	mu     sync.Mutex
	trace  []string
	nextID int
	store  map[string]*models.Match

	CreateFunc func(ctx context.Context, match *models.Match) error
	UpdateFunc func(ctx context.Context, match *models.Match) error
}

func NewFakeMatchRepo() *FakeMatchRepo {
	return &FakeMatchRepo{store: make(map[string]*models.Match)}
}

func storeKey(eventID int, key string) string {
	return fmt.Sprintf("%d/%s", eventID, key)
}

func cloneMatch(m *models.Match) *models.Match {
	c := *m
	c.JudgePanel = append([]int{}, m.JudgePanel...)
	c.RosterA = append([]string{}, m.RosterA...)
	c.RosterB = append([]string{}, m.RosterB...)
	if m.Schedule != nil {
		at := *m.Schedule
		c.Schedule = &at
	}
	if m.WinnerID != nil {
		id := *m.WinnerID
		c.WinnerID = &id
	}
	return &c
}

func (f *FakeMatchRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeMatchRepo) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.trace...)
}

// Put кладёт матч в хранилище напрямую, минуя трассировку.
func (f *FakeMatchRepo) Put(m *models.Match) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	m.ID = f.nextID
	f.store[storeKey(m.EventID, m.Key)] = cloneMatch(m)
}

func (f *FakeMatchRepo) DeleteByEvent(_ context.Context, _ repositories.SQLExecutor, eventID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteByEvent")
	for k, m := range f.store {
		if m.EventID == eventID {
			delete(f.store, k)
		}
	}
	return nil
}

func (f *FakeMatchRepo) Create(ctx context.Context, _ repositories.SQLExecutor, m *models.Match) error {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, m)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Create")
	k := storeKey(m.EventID, m.Key)
	if _, ok := f.store[k]; ok {
		return repositories.ErrConflict
	}
	f.nextID++
	m.ID = f.nextID
	m.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f.store[k] = cloneMatch(m)
	return nil
}

func (f *FakeMatchRepo) Update(ctx context.Context, _ repositories.SQLExecutor, m *models.Match) error {
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, m)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Update")
	k := storeKey(m.EventID, m.Key)
	if _, ok := f.store[k]; !ok {
		return repositories.ErrMatchNotFound
	}
	f.store[k] = cloneMatch(m)
	return nil
}

func (f *FakeMatchRepo) GetByKey(_ context.Context, _ repositories.SQLExecutor, eventID int, key string) (*models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.store[storeKey(eventID, key)]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	return cloneMatch(m), nil
}

func (f *FakeMatchRepo) ListByEvent(_ context.Context, _ repositories.SQLExecutor, eventID int, filter repositories.MatchFilter) ([]*models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Match, 0)
	for _, m := range f.store {
		if m.EventID != eventID {
			continue
		}
		if filter.Round != nil && m.Round != *filter.Round {
			continue
		}
		if filter.From != nil && (m.Schedule == nil || m.Schedule.Before(*filter.From)) {
			continue
		}
		if filter.To != nil && (m.Schedule == nil || !m.Schedule.Before(*filter.To)) {
			continue
		}
		out = append(out, cloneMatch(m))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		if out[i].IsPlacement != out[j].IsPlacement {
			return !out[i].IsPlacement
		}
		return out[i].Index < out[j].Index
	})
	return out, nil
}

func (f *FakeMatchRepo) MaxRound(_ context.Context, _ repositories.SQLExecutor, eventID int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	maxRound := 0
	for _, m := range f.store {
		if m.EventID == eventID && m.Round > maxRound {
			maxRound = m.Round
		}
	}
	return maxRound, nil
}

func (f *FakeMatchRepo) MaxScheduleInRound(_ context.Context, _ repositories.SQLExecutor, eventID, round int) (*time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *time.Time
	for _, m := range f.store {
		if m.EventID != eventID || m.Round != round || m.Schedule == nil {
			continue
		}
		if latest == nil || m.Schedule.After(*latest) {
			at := *m.Schedule
			latest = &at
		}
	}
	return latest, nil
}

// ------------------------
// Fake Scoring Repository
// ------------------------

type FakeScoringRepo struct {
	Items   []models.JudgingItem
	Answers []models.JudgingAnswer
	Votes   map[string]map[int]int

	ListAnswersFunc func(ctx context.Context, eventID int, keys []string) ([]models.JudgingAnswer, error)
}

func (f *FakeScoringRepo) ListItems(_ context.Context, _ int) ([]models.JudgingItem, error) {
	return f.Items, nil
}

func (f *FakeScoringRepo) ListAnswers(ctx context.Context, eventID int, keys []string) ([]models.JudgingAnswer, error) {
	if f.ListAnswersFunc != nil {
		return f.ListAnswersFunc(ctx, eventID, keys)
	}
	wanted := make(map[string]bool, len(keys))
	for _, k := range keys {
		wanted[k] = true
	}
	out := make([]models.JudgingAnswer, 0)
	for _, a := range f.Answers {
		if wanted[a.MatchKey] {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *FakeScoringRepo) CountVotes(_ context.Context, _ int, _ []string) (map[string]map[int]int, error) {
	if f.Votes == nil {
		return map[string]map[int]int{}, nil
	}
	return f.Votes, nil
}

// ------------------------
// Fake Notifier
// ------------------------

type notification struct {
	EventID int
	Kind    string
	Keys    []string
}

type FakeNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (f *FakeNotifier) NotifyBracket(_ context.Context, eventID int, kind string, matches []*models.Match) {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, len(matches))
	for i, m := range matches {
		keys[i] = m.Key
	}
	f.sent = append(f.sent, notification{EventID: eventID, Kind: kind, Keys: keys})
}

func (f *FakeNotifier) Sent() []notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notification{}, f.sent...)
}
