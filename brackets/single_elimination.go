package brackets

import (
	"fmt"
	"math/bits"
	"time"

	"github.com/Dosada05/debate-tournament/models"
)

type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() BracketGenerator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

// NumRounds возвращает число раундов для пула из n участников.
func NumRounds(n int) int {
	if n < 2 {
		return 0
	}
	if isPowerOfTwo(n) {
		return bits.Len(uint(n)) - 1
	}
	return bits.Len(uint(n))
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// GenerateBracket строит все раунды сетки в памяти. Первый раунд получает тему,
// судейские панели и расписание; остальные раунды остаются пустыми заготовками
// до продвижения победителей.
func (g *SingleEliminationGenerator) GenerateBracket(p GenerateBracketParams) (*Bracket, error) {
	n := len(p.Entrants)
	if n < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrNotEnoughEntrants, n)
	}
	if p.Panels < 1 {
		return nil, ErrInvalidPanelCount
	}
	if p.Scheduler == nil {
		return nil, ErrSchedulerRequired
	}
	if p.Rand == nil {
		return nil, ErrRandomizerRequired
	}

	rounds := NumRounds(n)
	square := 1 << (bits.Len(uint(n)) - 1)
	bracket := &Bracket{Rounds: rounds}

	var firstRound []*models.Match
	built := 1
	if square == n {
		firstRound = newRound(p.EventID, 1, n/2)
		for i, m := range firstRound {
			m.SideA = models.ResolvedSlot(p.Entrants[2*i])
			m.SideB = models.ResolvedSlot(p.Entrants[2*i+1])
		}
		bracket.Matches = append(bracket.Matches, firstRound...)
	} else {
		extra := n - square
		firstRound = newRound(p.EventID, 1, extra)
		for i, m := range firstRound {
			m.SideA = models.ResolvedSlot(p.Entrants[2*i])
			m.SideB = models.ResolvedSlot(p.Entrants[2*i+1])
		}

		// Остальные участники сразу попадают во второй раунд, слоты заполняются по порядку.
		secondRound := newRound(p.EventID, 2, square/2)
		for k, id := range p.Entrants[2*extra:] {
			m := secondRound[k/2]
			if k%2 == 0 {
				m.SideA = models.ResolvedSlot(id)
			} else {
				m.SideB = models.ResolvedSlot(id)
			}
		}
		bracket.Matches = append(bracket.Matches, firstRound...)
		bracket.Matches = append(bracket.Matches, secondRound...)
		built = 2
	}

	for round := built + 1; round <= rounds; round++ {
		bracket.Matches = append(bracket.Matches, newRound(p.EventID, round, 1<<(rounds-round))...)
	}

	if p.Placement && rounds >= 2 {
		placement := models.NewMatch(p.EventID, rounds, 2)
		placement.IsPlacement = true
		bracket.Matches = append(bracket.Matches, placement)
	}

	panels := DealPanels(p.Judges, p.Panels, p.Rand)
	AssignRound(firstRound, p.Subject, panels, p.Scheduler)

	return bracket, nil
}

func newRound(eventID, round, size int) []*models.Match {
	matches := make([]*models.Match, size)
	for i := range matches {
		matches[i] = models.NewMatch(eventID, round, i+1)
	}
	return matches
}

// DealPanels перемешивает судей и раздаёт их по кругу в count панелей.
func DealPanels(judges []int, count int, rng Randomizer) [][]int {
	panels := make([][]int, count)
	for i := range panels {
		panels[i] = []int{}
	}
	for i, id := range ShuffledInts(judges, rng) {
		panels[i%count] = append(panels[i%count], id)
	}
	return panels
}

// AssignRound раздаёт тему, панели (по кругу) и время матчам в порядке ключей.
func AssignRound(matches []*models.Match, subject string, panels [][]int, sched *Scheduler) {
	for i, m := range matches {
		m.Subject = subject
		panel := panels[i%len(panels)]
		m.JudgePanel = append([]int{}, panel...)
		at := sched.Next()
		m.Schedule = timePtr(at)
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
