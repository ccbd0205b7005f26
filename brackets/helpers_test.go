package brackets

import (
	"testing"
	"time"

	"github.com/Dosada05/debate-tournament/models"
	"github.com/stretchr/testify/require"
)

// scriptedRand keeps shuffles as identity and replays Intn values in order.
type scriptedRand struct {
	ints []int
	pos  int
}

func (r *scriptedRand) Intn(n int) int {
	if r.pos >= len(r.ints) {
		return 0
	}
	v := r.ints[r.pos] % n
	r.pos++
	return v
}

func (r *scriptedRand) Shuffle(int, func(i, j int)) {}

func seq(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

func testWindow() Window {
	return Window{
		Date:          time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		DayStart:      9 * time.Hour,
		DayEnd:        18 * time.Hour,
		MatchDuration: 30 * time.Minute,
		Interval:      10 * time.Minute,
		Panels:        1,
	}
}

func newTestScheduler(t *testing.T, w Window) *Scheduler {
	t.Helper()
	s, err := NewScheduler(w)
	require.NoError(t, err)
	return s
}

func buildTestBracket(t *testing.T, entrants []int, placement bool) *Bracket {
	t.Helper()
	gen := NewSingleEliminationGenerator()
	b, err := gen.GenerateBracket(GenerateBracketParams{
		EventID:   1,
		Entrants:  entrants,
		Subject:   "This house would ban homework",
		Judges:    []int{100, 101},
		Panels:    1,
		Placement: placement,
		Scheduler: newTestScheduler(t, testWindow()),
		Rand:      &scriptedRand{},
	})
	require.NoError(t, err)
	return b
}

// decideRound marks side A as the winner of every match in the round.
func decideRound(matches []*models.Match) {
	for _, m := range matches {
		if m.WinnerID != nil {
			continue
		}
		id := m.SideA.EntrantID
		m.WinnerID = &id
	}
}

func utc(hour, minute int) time.Time {
	return time.Date(2024, time.March, 1, hour, minute, 0, 0, time.UTC)
}
