package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Dosada05/debate-tournament/brackets"
	"github.com/Dosada05/debate-tournament/models"
	"github.com/Dosada05/debate-tournament/repositories"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var ErrRoundNotScheduled = errors.New("round has no scheduled matches")

// PanelGroup - матчи раунда, которые судит одна панель.
type PanelGroup struct {
	Judges  []int           `json:"judges"`
	Matches []*models.Match `json:"matches"`
}

type BracketService interface {
	BuildBracket(ctx context.Context, in BuildBracketInput) ([]int, error)
	AdvanceRound(ctx context.Context, in AdvanceRoundInput) error
	RecordResult(ctx context.Context, in RecordResultInput) (*models.Match, error)
	Reschedule(ctx context.Context, in RescheduleInput) (*models.Match, error)
	GetBracket(ctx context.Context, eventID int, filter BracketFilter) ([]*models.Match, error)
	NumRounds(ctx context.Context, eventID int) (int, error)
	MatchDates(ctx context.Context, eventID int, round *int, timeOffset float64) ([]models.DateCount, error)
	PanelGroups(ctx context.Context, eventID int, round int) ([]PanelGroup, error)
	GetProgress(ctx context.Context, eventID int) (*models.EventProgress, error)
	UpdateProgress(ctx context.Context, eventID int, in UpdateProgressInput) (*models.EventProgress, error)
}

type bracketService struct {
	tx          repositories.Transactor
	eventRepo   repositories.EventRepository
	entrantRepo repositories.EntrantRepository
	judgeRepo   repositories.JudgeRepository
	matchRepo   repositories.MatchRepository
	generator   brackets.BracketGenerator
	notifier    BracketNotifier
	rng         brackets.Randomizer
	metrics     *Metrics
	logger      *slog.Logger
	locker      *eventLocker
	newKey      func() string
}

func NewBracketService(
	tx repositories.Transactor,
	eventRepo repositories.EventRepository,
	entrantRepo repositories.EntrantRepository,
	judgeRepo repositories.JudgeRepository,
	matchRepo repositories.MatchRepository,
	notifier BracketNotifier,
	rng brackets.Randomizer,
	metrics *Metrics,
	logger *slog.Logger,
) BracketService {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = Notifiers{}
	}
	return &bracketService{
		tx:          tx,
		eventRepo:   eventRepo,
		entrantRepo: entrantRepo,
		judgeRepo:   judgeRepo,
		matchRepo:   matchRepo,
		generator:   brackets.NewSingleEliminationGenerator(),
		notifier:    notifier,
		rng:         rng,
		metrics:     metrics,
		logger:      logger,
		locker:      newEventLocker(),
		newKey:      uuid.NewString,
	}
}

// BuildBracket строит сетку события заново: старые матчи удаляются,
// все матчи новой сетки сохраняются в одной транзакции.
func (s *bracketService) BuildBracket(ctx context.Context, in BuildBracketInput) (ids []int, err error) {
	started := time.Now()
	defer func() { s.done("build", in.EventID, started, err) }()

	if err := in.Validate(); err != nil {
		return nil, validationError(err)
	}

	unlock := s.locker.Lock(in.EventID)
	defer unlock()

	var bracket *brackets.Bracket
	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		event, err := s.eventRepo.LockByID(ctx, exec, in.EventID)
		if err != nil {
			return err
		}

		window, err := in.window(event)
		if err != nil {
			return err
		}
		sched, err := brackets.NewScheduler(window)
		if err != nil {
			return err
		}

		pool, err := resolvePool(ctx, s.entrantRepo, exec, event, s.rng)
		if err != nil {
			return err
		}
		judges, err := s.judgeRepo.ListEligibleIDs(ctx, exec, event.ID)
		if err != nil {
			return fmt.Errorf("failed to load judges of event %d: %w", event.ID, err)
		}
		members, err := s.entrantRepo.ListMembers(ctx, exec, event.ID, event.Mode, pool)
		if err != nil {
			return fmt.Errorf("failed to load rosters of event %d: %w", event.ID, err)
		}

		bracket, err = s.generator.GenerateBracket(brackets.GenerateBracketParams{
			EventID:   event.ID,
			Entrants:  pool,
			Subject:   in.Subject,
			Judges:    judges,
			Panels:    in.JudgeTeamNum,
			Placement: event.PlacementMatch,
			Scheduler: sched,
			Rand:      s.rng,
		})
		if err != nil {
			return fmt.Errorf("failed to generate bracket for event %d: %w", event.ID, err)
		}
		brackets.AttachRosters(event.Mode, bracket.Matches, members)

		if err := s.matchRepo.DeleteByEvent(ctx, exec, event.ID); err != nil {
			return err
		}
		for _, m := range bracket.Matches {
			m.StreamKey = s.newKey()
			if err := s.matchRepo.Create(ctx, exec, m); err != nil {
				return err
			}
		}

		if err := s.eventRepo.UpdateMatchInterval(ctx, exec, event.ID, in.Interval); err != nil {
			return err
		}
		return s.eventRepo.UpdateProgress(ctx, exec, event.ID, models.EventProgress{BracketCreated: true})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.addMatches(len(bracket.Matches))
	s.notifier.NotifyBracket(ctx, in.EventID, NotifyBracketBuilt, bracket.Matches)

	ids = make([]int, len(bracket.Matches))
	for i, m := range bracket.Matches {
		ids[i] = m.ID
	}
	return ids, nil
}

// AdvanceRound переносит победителей завершённого раунда в следующий,
// назначает ему тему, судей и расписание.
func (s *bracketService) AdvanceRound(ctx context.Context, in AdvanceRoundInput) (err error) {
	started := time.Now()
	defer func() { s.done("advance", in.EventID, started, err) }()

	if err := in.Validate(); err != nil {
		return validationError(err)
	}

	unlock := s.locker.Lock(in.EventID)
	defer unlock()

	var touched []*models.Match
	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		event, err := s.eventRepo.LockByID(ctx, exec, in.EventID)
		if err != nil {
			return err
		}
		if !event.BracketCreated {
			return fmt.Errorf("%w: event %d", ErrBracketNotBuilt, event.ID)
		}

		all, err := s.matchRepo.ListByEvent(ctx, exec, event.ID, repositories.MatchFilter{})
		if err != nil {
			return err
		}
		if len(all) == 0 {
			return fmt.Errorf("%w: event %d", ErrBracketNotBuilt, event.ID)
		}
		bracket := bracketFromMatches(all)
		if in.CompletedRound >= bracket.Rounds {
			return fmt.Errorf("%w: round %d of %d", ErrNoNextRound, in.CompletedRound, bracket.Rounds)
		}

		window, err := in.window(event)
		if err != nil {
			return err
		}
		sched, err := brackets.NewScheduler(window)
		if err != nil {
			return err
		}

		completed := bracket.Round(in.CompletedRound)
		next := bracket.Round(in.CompletedRound + 1)
		var placement *models.Match
		if in.CompletedRound+1 == bracket.Rounds {
			placement = bracket.Placement()
		}

		if err := brackets.Advance(brackets.AdvanceParams{
			Completed: completed,
			Next:      next,
			Placement: placement,
			Rand:      s.rng,
		}); err != nil {
			return fmt.Errorf("failed to advance round %d of event %d: %w", in.CompletedRound, event.ID, err)
		}

		touched = append(touched, next...)
		if placement != nil {
			touched = append(touched, placement)
		}

		entrants := make([]int, 0, 2*len(touched))
		for _, m := range touched {
			entrants = append(entrants, m.EntrantIDs()...)
		}
		members, err := s.entrantRepo.ListMembers(ctx, exec, event.ID, event.Mode, entrants)
		if err != nil {
			return fmt.Errorf("failed to load rosters of event %d: %w", event.ID, err)
		}
		brackets.AttachRosters(event.Mode, touched, members)

		judges, err := s.judgeRepo.ListEligibleIDs(ctx, exec, event.ID)
		if err != nil {
			return fmt.Errorf("failed to load judges of event %d: %w", event.ID, err)
		}
		panels := brackets.DealPanels(judges, in.JudgeTeamNum, s.rng)
		brackets.AssignRound(touched, in.Subject, panels, sched)

		for _, m := range touched {
			if err := s.matchRepo.Update(ctx, exec, m); err != nil {
				return err
			}
		}

		progress := event.EventProgress
		progress.FinishedRound = in.CompletedRound
		return s.eventRepo.UpdateProgress(ctx, exec, event.ID, progress)
	})
	if err != nil {
		return err
	}

	s.metrics.addMatches(len(touched))
	s.notifier.NotifyBracket(ctx, in.EventID, NotifyRoundAdvanced, touched)
	return nil
}

// RecordResult фиксирует победителя матча. Результат раунда, который уже
// перенесён в следующий, менять нельзя; матч за место остаётся открытым.
func (s *bracketService) RecordResult(ctx context.Context, in RecordResultInput) (match *models.Match, err error) {
	started := time.Now()
	defer func() { s.done("result", in.EventID, started, err) }()

	if err := in.Validate(); err != nil {
		return nil, validationError(err)
	}

	unlock := s.locker.Lock(in.EventID)
	defer unlock()

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		event, err := s.eventRepo.LockByID(ctx, exec, in.EventID)
		if err != nil {
			return err
		}
		match, err = s.matchRepo.GetByKey(ctx, exec, event.ID, in.MatchKey)
		if err != nil {
			return err
		}
		if match.Round <= event.FinishedRound && !match.IsPlacement {
			return fmt.Errorf("%w: match %s belongs to round %d", ErrRoundAlreadyAdvanced, match.Key, match.Round)
		}
		if err := brackets.SetWinner(match, in.WinnerID); err != nil {
			return err
		}
		if err := s.matchRepo.Update(ctx, exec, match); err != nil {
			return err
		}

		maxRound, err := s.matchRepo.MaxRound(ctx, exec, event.ID)
		if err != nil {
			return err
		}
		if match.Round != maxRound {
			return nil
		}
		final, err := s.matchRepo.ListByEvent(ctx, exec, event.ID, repositories.MatchFilter{Round: &maxRound})
		if err != nil {
			return err
		}
		finalized := true
		for _, m := range final {
			if m.WinnerID == nil {
				finalized = false
			}
		}
		if finalized == event.BracketFinalized {
			return nil
		}
		progress := event.EventProgress
		progress.BracketFinalized = finalized
		return s.eventRepo.UpdateProgress(ctx, exec, event.ID, progress)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.addMatches(1)
	s.notifier.NotifyBracket(ctx, in.EventID, NotifyMatchUpdated, []*models.Match{match})
	return match, nil
}

// Reschedule переносит матч в конец своего раунда.
func (s *bracketService) Reschedule(ctx context.Context, in RescheduleInput) (match *models.Match, err error) {
	started := time.Now()
	defer func() { s.done("reschedule", in.EventID, started, err) }()

	if err := in.Validate(); err != nil {
		return nil, validationError(err)
	}

	unlock := s.locker.Lock(in.EventID)
	defer unlock()

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		event, err := s.eventRepo.LockByID(ctx, exec, in.EventID)
		if err != nil {
			return err
		}
		match, err = s.matchRepo.GetByKey(ctx, exec, event.ID, in.MatchKey)
		if err != nil {
			return err
		}
		latest, err := s.matchRepo.MaxScheduleInRound(ctx, exec, event.ID, match.Round)
		if err != nil {
			return err
		}
		if latest == nil {
			return fmt.Errorf("%w: round %d", ErrRoundNotScheduled, match.Round)
		}
		at := latest.Add(event.Interval() + event.MatchDuration()).UTC()
		match.Schedule = &at
		return s.matchRepo.Update(ctx, exec, match)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyBracket(ctx, in.EventID, NotifyMatchUpdated, []*models.Match{match})
	return match, nil
}

func (s *bracketService) GetBracket(ctx context.Context, eventID int, filter BracketFilter) ([]*models.Match, error) {
	matchFilter := repositories.MatchFilter{Round: filter.Round}
	if filter.Date != "" {
		day, err := time.ParseInLocation(dateLayout, filter.Date, brackets.Zone(brackets.OffsetHours(filter.TimeOffset)))
		if err != nil {
			return nil, validationError(fmt.Errorf("date must be YYYY-MM-DD: %w", err))
		}
		from, to := day.UTC(), day.AddDate(0, 0, 1).UTC()
		matchFilter.From, matchFilter.To = &from, &to
	}

	var matches []*models.Match
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		_, err := s.eventRepo.GetByID(gCtx, nil, eventID)
		return err
	})
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByEvent(gCtx, nil, eventID, matchFilter)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (s *bracketService) NumRounds(ctx context.Context, eventID int) (int, error) {
	if _, err := s.eventRepo.GetByID(ctx, nil, eventID); err != nil {
		return 0, err
	}
	return s.matchRepo.MaxRound(ctx, nil, eventID)
}

// MatchDates считает запланированные матчи по календарным дням в поясе timeOffset.
func (s *bracketService) MatchDates(ctx context.Context, eventID int, round *int, timeOffset float64) ([]models.DateCount, error) {
	matches, err := s.GetBracket(ctx, eventID, BracketFilter{Round: round})
	if err != nil {
		return nil, err
	}

	loc := brackets.Zone(brackets.OffsetHours(timeOffset))
	counts := make(map[string]int)
	for _, m := range matches {
		if m.Schedule == nil {
			continue
		}
		counts[m.Schedule.In(loc).Format(dateLayout)]++
	}

	dates := make([]models.DateCount, 0, len(counts))
	for date, count := range counts {
		dates = append(dates, models.DateCount{Date: date, Count: count})
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Date < dates[j].Date })
	return dates, nil
}

// PanelGroups группирует матчи раунда по составу судейской панели
// в порядке первого появления панели.
func (s *bracketService) PanelGroups(ctx context.Context, eventID int, round int) ([]PanelGroup, error) {
	matches, err := s.GetBracket(ctx, eventID, BracketFilter{Round: &round})
	if err != nil {
		return nil, err
	}

	groups := make([]PanelGroup, 0)
	index := make(map[string]int)
	for _, m := range matches {
		key := panelKey(m.JudgePanel)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, PanelGroup{Judges: m.JudgePanel, Matches: []*models.Match{}})
		}
		groups[i].Matches = append(groups[i].Matches, m)
	}
	return groups, nil
}

func panelKey(judges []int) string {
	parts := make([]string, len(judges))
	for i, id := range judges {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

func (s *bracketService) GetProgress(ctx context.Context, eventID int) (*models.EventProgress, error) {
	event, err := s.eventRepo.GetByID(ctx, nil, eventID)
	if err != nil {
		return nil, err
	}
	return &event.EventProgress, nil
}

func (s *bracketService) UpdateProgress(ctx context.Context, eventID int, in UpdateProgressInput) (*models.EventProgress, error) {
	if err := in.Validate(); err != nil {
		return nil, validationError(err)
	}

	unlock := s.locker.Lock(eventID)
	defer unlock()

	var progress models.EventProgress
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		event, err := s.eventRepo.LockByID(ctx, exec, eventID)
		if err != nil {
			return err
		}
		progress = event.EventProgress
		in.apply(&progress)
		return s.eventRepo.UpdateProgress(ctx, exec, eventID, progress)
	})
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// done пишет метрики операции; нарушение структуры сетки логируется.
func (s *bracketService) done(operation string, eventID int, started time.Time, err error) {
	s.metrics.observe(operation, started, err)
	if errors.Is(err, ErrBracketInconsistency) {
		s.logger.Error("bracket inconsistency detected",
			slog.String("operation", operation),
			slog.Int("event_id", eventID),
			slog.Any("error", err),
		)
	}
}

// bracketFromMatches собирает сетку из сохранённых матчей.
func bracketFromMatches(matches []*models.Match) *brackets.Bracket {
	b := &brackets.Bracket{Matches: matches}
	for _, m := range matches {
		if m.Round > b.Rounds {
			b.Rounds = m.Round
		}
	}
	return b
}
