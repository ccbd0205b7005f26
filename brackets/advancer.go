package brackets

import (
	"fmt"

	"github.com/Dosada05/debate-tournament/models"
)

type AdvanceParams struct {
	Completed []*models.Match // раунд N без матча за место, по порядку ключей
	Next      []*models.Match // раунд N+1 без матча за место, по порядку ключей
	Placement *models.Match   // задаётся, только если N+1 - финал и матч за место включён
	Rand      Randomizer
}

// Winners returns the winners of a finished round in match order.
func Winners(completed []*models.Match) ([]int, error) {
	winners := make([]int, 0, len(completed))
	for _, m := range completed {
		if m.WinnerID == nil {
			ResolveBye(m)
		}
		if m.WinnerID == nil {
			return nil, fmt.Errorf("%w: match %s", ErrRoundNotComplete, m.Key)
		}
		if !m.SideA.Holds(*m.WinnerID) && !m.SideB.Holds(*m.WinnerID) {
			return nil, fmt.Errorf("%w: winner %d of match %s is not on either side",
				ErrBracketInconsistency, *m.WinnerID, m.Key)
		}
		winners = append(winners, *m.WinnerID)
	}
	return winners, nil
}

// Advance переносит победителей раунда N в раунд N+1. Сначала заполняются
// матчи с одним уже известным участником, затем пустые матчи парами со
// случайным выбором стороны.
func Advance(p AdvanceParams) error {
	if p.Rand == nil {
		return ErrRandomizerRequired
	}

	winners, err := Winners(p.Completed)
	if err != nil {
		return err
	}

	open := 0
	for _, m := range p.Next {
		if m.SideA.IsEmpty() {
			open++
		}
		if m.SideB.IsEmpty() {
			open++
		}
	}
	if open == 0 {
		return ErrRoundAlreadyAdvanced
	}
	if open != len(winners) {
		return fmt.Errorf("%w: %d open slots for %d winners", ErrBracketInconsistency, open, len(winners))
	}

	next := 0
	for _, m := range p.Next {
		switch {
		case m.SideA.IsEmpty() && m.SideB.IsResolved():
			m.SideA = models.ResolvedSlot(winners[next])
			next++
		case m.SideB.IsEmpty() && m.SideA.IsResolved():
			m.SideB = models.ResolvedSlot(winners[next])
			next++
		}
	}

	for _, m := range p.Next {
		if !m.SideA.IsEmpty() || !m.SideB.IsEmpty() {
			continue
		}
		a, b := winners[next], winners[next+1]
		next += 2
		if p.Rand.Intn(2) == 1 {
			a, b = b, a
		}
		m.SideA = models.ResolvedSlot(a)
		m.SideB = models.ResolvedSlot(b)
	}

	if next != len(winners) {
		return fmt.Errorf("%w: %d of %d winners placed", ErrBracketInconsistency, next, len(winners))
	}

	for _, m := range p.Next {
		ResolveBye(m)
	}

	if p.Placement != nil {
		return FillPlacement(p.Placement, p.Completed, p.Rand)
	}
	return nil
}

// ResolveBye назначает победителя, если одна сторона занята, а другая - bye.
func ResolveBye(m *models.Match) bool {
	if m.WinnerID != nil {
		return false
	}
	switch {
	case m.SideA.IsResolved() && m.SideB.IsBye():
		id := m.SideA.EntrantID
		m.WinnerID = &id
	case m.SideB.IsResolved() && m.SideA.IsBye():
		id := m.SideB.EntrantID
		m.WinnerID = &id
	default:
		return false
	}
	return true
}

// SetWinner records the result of a match.
func SetWinner(m *models.Match, winnerID int) error {
	if m.SideA.IsEmpty() || m.SideB.IsEmpty() {
		return fmt.Errorf("%w: match %s", ErrMatchNotReady, m.Key)
	}
	if !m.SideA.Holds(winnerID) && !m.SideB.Holds(winnerID) {
		return fmt.Errorf("%w: entrant %d in match %s", ErrInvalidWinner, winnerID, m.Key)
	}
	m.WinnerID = &winnerID
	return nil
}
