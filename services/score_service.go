package services

import (
	"context"
	"fmt"

	"github.com/Dosada05/debate-tournament/models"
	"github.com/Dosada05/debate-tournament/repositories"
	"github.com/Dosada05/debate-tournament/scoring"
	"golang.org/x/sync/errgroup"
)

type ScoreService interface {
	MatchScore(ctx context.Context, eventID int, matchKey string) (*scoring.MatchScore, error)
	RoundResults(ctx context.Context, eventID int, round int) ([]scoring.MatchScore, error)
}

type scoreService struct {
	eventRepo   repositories.EventRepository
	matchRepo   repositories.MatchRepository
	scoringRepo repositories.ScoringRepository
}

func NewScoreService(
	eventRepo repositories.EventRepository,
	matchRepo repositories.MatchRepository,
	scoringRepo repositories.ScoringRepository,
) ScoreService {
	return &scoreService{
		eventRepo:   eventRepo,
		matchRepo:   matchRepo,
		scoringRepo: scoringRepo,
	}
}

func (s *scoreService) MatchScore(ctx context.Context, eventID int, matchKey string) (*scoring.MatchScore, error) {
	if _, _, err := models.ParseMatchKey(matchKey); err != nil {
		return nil, validationError(err)
	}

	var (
		event *models.Event
		match *models.Match
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		event, err = s.eventRepo.GetByID(gCtx, nil, eventID)
		return err
	})
	g.Go(func() error {
		var err error
		match, err = s.matchRepo.GetByKey(gCtx, nil, eventID, matchKey)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	scores, err := s.aggregate(ctx, event, []*models.Match{match})
	if err != nil {
		return nil, err
	}
	return &scores[0], nil
}

func (s *scoreService) RoundResults(ctx context.Context, eventID int, round int) ([]scoring.MatchScore, error) {
	var (
		event   *models.Event
		matches []*models.Match
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		event, err = s.eventRepo.GetByID(gCtx, nil, eventID)
		return err
	})
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByEvent(gCtx, nil, eventID, repositories.MatchFilter{Round: &round})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return s.aggregate(ctx, event, matches)
}

// aggregate загружает рубрику, ответы и голоса параллельно и считает очки матчей.
func (s *scoreService) aggregate(ctx context.Context, event *models.Event, matches []*models.Match) ([]scoring.MatchScore, error) {
	keys := make([]string, len(matches))
	for i, m := range matches {
		keys[i] = m.Key
	}

	var (
		items   []models.JudgingItem
		answers []models.JudgingAnswer
		votes   map[string]map[int]int
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.scoringRepo.ListItems(gCtx, event.ID)
		return err
	})
	g.Go(func() error {
		var err error
		answers, err = s.scoringRepo.ListAnswers(gCtx, event.ID, keys)
		return err
	})
	g.Go(func() error {
		var err error
		votes, err = s.scoringRepo.CountVotes(gCtx, event.ID, keys)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load scoring data of event %d: %w", event.ID, err)
	}

	byMatch := make(map[string][]models.JudgingAnswer, len(matches))
	for _, a := range answers {
		byMatch[a.MatchKey] = append(byMatch[a.MatchKey], a)
	}

	scores := make([]scoring.MatchScore, 0, len(matches))
	for _, m := range matches {
		in := scoring.Input{
			MatchKey:   m.Key,
			ScoreTo:    event.ScoreTo,
			PanelSize:  len(m.JudgePanel),
			Items:      items,
			Answers:    byMatch[m.Key],
			VoteCounts: votes[m.Key],
		}
		if m.SideA.IsResolved() {
			in.SideA = m.SideA.EntrantID
		}
		if m.SideB.IsResolved() {
			in.SideB = m.SideB.EntrantID
		}
		scores = append(scores, scoring.Aggregate(in))
	}
	return scores, nil
}
