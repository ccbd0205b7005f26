package brackets

import "github.com/Dosada05/debate-tournament/models"

type GenerateBracketParams struct {
	EventID   int
	Entrants  []int // уже перемешанный пул
	Subject   string
	Judges    []int
	Panels    int
	Placement bool
	Scheduler *Scheduler
	Rand      Randomizer
}

type BracketGenerator interface {
	GenerateBracket(params GenerateBracketParams) (*Bracket, error)

	GetName() string
}

// Bracket - вся сетка события, матчи упорядочены по раунду и индексу,
// матч за место идёт после финала.
type Bracket struct {
	Rounds  int
	Matches []*models.Match
}

func (b *Bracket) Round(round int) []*models.Match {
	out := make([]*models.Match, 0)
	for _, m := range b.Matches {
		if m.Round == round && !m.IsPlacement {
			out = append(out, m)
		}
	}
	return out
}

func (b *Bracket) Placement() *models.Match {
	for _, m := range b.Matches {
		if m.IsPlacement {
			return m
		}
	}
	return nil
}
