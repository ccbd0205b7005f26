package handlers

import (
	"context"

	"github.com/Dosada05/debate-tournament/models"
	"github.com/Dosada05/debate-tournament/scoring"
	"github.com/Dosada05/debate-tournament/services"
)

// ------------------------
// Fake Bracket Service
// ------------------------

type FakeBracketService struct {
	BuildBracketFunc   func(ctx context.Context, in services.BuildBracketInput) ([]int, error)
	AdvanceRoundFunc   func(ctx context.Context, in services.AdvanceRoundInput) error
	RecordResultFunc   func(ctx context.Context, in services.RecordResultInput) (*models.Match, error)
	RescheduleFunc     func(ctx context.Context, in services.RescheduleInput) (*models.Match, error)
	GetBracketFunc     func(ctx context.Context, eventID int, filter services.BracketFilter) ([]*models.Match, error)
	NumRoundsFunc      func(ctx context.Context, eventID int) (int, error)
	MatchDatesFunc     func(ctx context.Context, eventID int, round *int, timeOffset float64) ([]models.DateCount, error)
	PanelGroupsFunc    func(ctx context.Context, eventID int, round int) ([]services.PanelGroup, error)
	GetProgressFunc    func(ctx context.Context, eventID int) (*models.EventProgress, error)
	UpdateProgressFunc func(ctx context.Context, eventID int, in services.UpdateProgressInput) (*models.EventProgress, error)
}

func (f *FakeBracketService) BuildBracket(ctx context.Context, in services.BuildBracketInput) ([]int, error) {
	if f.BuildBracketFunc != nil {
		return f.BuildBracketFunc(ctx, in)
	}
	return []int{}, nil
}

func (f *FakeBracketService) AdvanceRound(ctx context.Context, in services.AdvanceRoundInput) error {
	if f.AdvanceRoundFunc != nil {
		return f.AdvanceRoundFunc(ctx, in)
	}
	return nil
}

func (f *FakeBracketService) RecordResult(ctx context.Context, in services.RecordResultInput) (*models.Match, error) {
	if f.RecordResultFunc != nil {
		return f.RecordResultFunc(ctx, in)
	}
	return &models.Match{EventID: in.EventID, Key: in.MatchKey}, nil
}

func (f *FakeBracketService) Reschedule(ctx context.Context, in services.RescheduleInput) (*models.Match, error) {
	if f.RescheduleFunc != nil {
		return f.RescheduleFunc(ctx, in)
	}
	return &models.Match{EventID: in.EventID, Key: in.MatchKey}, nil
}

func (f *FakeBracketService) GetBracket(ctx context.Context, eventID int, filter services.BracketFilter) ([]*models.Match, error) {
	if f.GetBracketFunc != nil {
		return f.GetBracketFunc(ctx, eventID, filter)
	}
	return []*models.Match{}, nil
}

func (f *FakeBracketService) NumRounds(ctx context.Context, eventID int) (int, error) {
	if f.NumRoundsFunc != nil {
		return f.NumRoundsFunc(ctx, eventID)
	}
	return 0, nil
}

func (f *FakeBracketService) MatchDates(ctx context.Context, eventID int, round *int, timeOffset float64) ([]models.DateCount, error) {
	if f.MatchDatesFunc != nil {
		return f.MatchDatesFunc(ctx, eventID, round, timeOffset)
	}
	return []models.DateCount{}, nil
}

func (f *FakeBracketService) PanelGroups(ctx context.Context, eventID int, round int) ([]services.PanelGroup, error) {
	if f.PanelGroupsFunc != nil {
		return f.PanelGroupsFunc(ctx, eventID, round)
	}
	return []services.PanelGroup{}, nil
}

func (f *FakeBracketService) GetProgress(ctx context.Context, eventID int) (*models.EventProgress, error) {
	if f.GetProgressFunc != nil {
		return f.GetProgressFunc(ctx, eventID)
	}
	return &models.EventProgress{}, nil
}

func (f *FakeBracketService) UpdateProgress(ctx context.Context, eventID int, in services.UpdateProgressInput) (*models.EventProgress, error) {
	if f.UpdateProgressFunc != nil {
		return f.UpdateProgressFunc(ctx, eventID, in)
	}
	return &models.EventProgress{}, nil
}

// ------------------------
// Fake Score Service
// ------------------------

type FakeScoreService struct {
	MatchScoreFunc   func(ctx context.Context, eventID int, matchKey string) (*scoring.MatchScore, error)
	RoundResultsFunc func(ctx context.Context, eventID int, round int) ([]scoring.MatchScore, error)
}

func (f *FakeScoreService) MatchScore(ctx context.Context, eventID int, matchKey string) (*scoring.MatchScore, error) {
	if f.MatchScoreFunc != nil {
		return f.MatchScoreFunc(ctx, eventID, matchKey)
	}
	return &scoring.MatchScore{MatchKey: matchKey}, nil
}

func (f *FakeScoreService) RoundResults(ctx context.Context, eventID int, round int) ([]scoring.MatchScore, error) {
	if f.RoundResultsFunc != nil {
		return f.RoundResultsFunc(ctx, eventID, round)
	}
	return []scoring.MatchScore{}, nil
}
