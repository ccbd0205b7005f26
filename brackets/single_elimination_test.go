package brackets

import (
	"errors"
	"testing"

	"github.com/Dosada05/debate-tournament/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumRounds(t *testing.T) {
	tests := []struct {
		name string
		pool int
		want int
	}{
		{name: "single entrant", pool: 1, want: 0},
		{name: "two", pool: 2, want: 1},
		{name: "three", pool: 3, want: 2},
		{name: "four", pool: 4, want: 2},
		{name: "five", pool: 5, want: 3},
		{name: "eight", pool: 8, want: 3},
		{name: "nine", pool: 9, want: 4},
		{name: "sixteen", pool: 16, want: 4},
		{name: "thirty three", pool: 33, want: 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NumRounds(tt.pool))
		})
	}
}

type slotView struct {
	Key   string
	SideA models.Slot
	SideB models.Slot
}

func viewOf(matches []*models.Match) []slotView {
	out := make([]slotView, 0, len(matches))
	for _, m := range matches {
		out = append(out, slotView{Key: m.Key, SideA: m.SideA, SideB: m.SideB})
	}
	return out
}

func TestGenerateBracket_PowerOfTwo(t *testing.T) {
	b := buildTestBracket(t, seq(1, 8), false)

	assert.Equal(t, 3, b.Rounds)
	assert.Len(t, b.Round(1), 4)
	assert.Len(t, b.Round(2), 2)
	assert.Len(t, b.Round(3), 1)
	assert.Nil(t, b.Placement())

	want := []slotView{
		{Key: "1-1", SideA: models.ResolvedSlot(1), SideB: models.ResolvedSlot(2)},
		{Key: "1-2", SideA: models.ResolvedSlot(3), SideB: models.ResolvedSlot(4)},
		{Key: "1-3", SideA: models.ResolvedSlot(5), SideB: models.ResolvedSlot(6)},
		{Key: "1-4", SideA: models.ResolvedSlot(7), SideB: models.ResolvedSlot(8)},
	}
	if diff := cmp.Diff(want, viewOf(b.Round(1))); diff != "" {
		t.Errorf("round 1 mismatch (-want +got):\n%s", diff)
	}

	for _, m := range b.Round(1) {
		assert.Equal(t, "This house would ban homework", m.Subject)
		require.NotNil(t, m.Schedule)
	}
	for _, round := range []int{2, 3} {
		for _, m := range b.Round(round) {
			assert.True(t, m.SideA.IsEmpty(), m.Key)
			assert.True(t, m.SideB.IsEmpty(), m.Key)
			assert.Empty(t, m.Subject)
			assert.Nil(t, m.Schedule)
		}
	}
}

func TestGenerateBracket_FiveEntrants(t *testing.T) {
	b := buildTestBracket(t, seq(1, 5), false)

	assert.Equal(t, 3, b.Rounds)
	want := []slotView{
		{Key: "1-1", SideA: models.ResolvedSlot(1), SideB: models.ResolvedSlot(2)},
		{Key: "2-1", SideA: models.ResolvedSlot(3), SideB: models.ResolvedSlot(4)},
		{Key: "2-2", SideA: models.ResolvedSlot(5), SideB: models.EmptySlot()},
		{Key: "3-1", SideA: models.EmptySlot(), SideB: models.EmptySlot()},
	}
	if diff := cmp.Diff(want, viewOf(b.Matches)); diff != "" {
		t.Errorf("bracket mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateBracket_RoundSizes(t *testing.T) {
	for n := 2; n <= 40; n++ {
		b := buildTestBracket(t, seq(1, n), false)
		rounds := NumRounds(n)
		require.Equal(t, rounds, b.Rounds, "pool %d", n)

		square := 1
		for square*2 <= n {
			square *= 2
		}

		if square == n {
			assert.Len(t, b.Round(1), n/2, "pool %d", n)
		} else {
			assert.Len(t, b.Round(1), n-square, "pool %d", n)

			// Победители первого раунда плюс посеянные участники дают ровно square.
			seeded := 0
			for _, m := range b.Round(2) {
				seeded += len(m.EntrantIDs())
			}
			assert.Equal(t, square, seeded+len(b.Round(1)), "pool %d", n)
		}

		for round := 2; round < rounds; round++ {
			assert.Equal(t, len(b.Round(round)), 2*len(b.Round(round+1)), "pool %d round %d", n, round)
		}
		assert.Len(t, b.Round(rounds), 1, "pool %d", n)
	}
}

func TestGenerateBracket_Placement(t *testing.T) {
	b := buildTestBracket(t, seq(1, 4), true)

	placement := b.Placement()
	require.NotNil(t, placement)
	assert.Equal(t, "2-2", placement.Key)
	assert.Equal(t, 2, placement.Round)
	assert.Same(t, placement, b.Matches[len(b.Matches)-1])

	two := buildTestBracket(t, seq(1, 2), true)
	assert.Nil(t, two.Placement(), "a two entrant bracket has no semifinal losers")
}

func TestGenerateBracket_PanelsAndSchedule(t *testing.T) {
	w := testWindow()
	w.Panels = 2
	gen := NewSingleEliminationGenerator()
	b, err := gen.GenerateBracket(GenerateBracketParams{
		EventID:   7,
		Entrants:  seq(1, 8),
		Subject:   "Motion",
		Judges:    []int{10, 11, 12, 13, 14},
		Panels:    2,
		Scheduler: newTestScheduler(t, w),
		Rand:      &scriptedRand{},
	})
	require.NoError(t, err)

	round := b.Round(1)
	assert.Equal(t, []int{10, 12, 14}, round[0].JudgePanel)
	assert.Equal(t, []int{11, 13}, round[1].JudgePanel)
	assert.Equal(t, []int{10, 12, 14}, round[2].JudgePanel)

	assert.Equal(t, utc(9, 0), *round[0].Schedule)
	assert.Equal(t, utc(9, 0), *round[1].Schedule)
	assert.Equal(t, utc(9, 40), *round[2].Schedule)
	assert.Equal(t, utc(9, 40), *round[3].Schedule)

	for _, m := range b.Matches {
		assert.Equal(t, 7, m.EventID)
	}
}

func TestGenerateBracket_Errors(t *testing.T) {
	gen := NewSingleEliminationGenerator()
	tests := []struct {
		name   string
		params func(t *testing.T) GenerateBracketParams
		want   error
	}{
		{
			name: "one entrant",
			params: func(t *testing.T) GenerateBracketParams {
				return GenerateBracketParams{Entrants: []int{1}, Panels: 1, Scheduler: newTestScheduler(t, testWindow()), Rand: &scriptedRand{}}
			},
			want: ErrNotEnoughEntrants,
		},
		{
			name: "no panels",
			params: func(t *testing.T) GenerateBracketParams {
				return GenerateBracketParams{Entrants: seq(1, 4), Panels: 0, Scheduler: newTestScheduler(t, testWindow()), Rand: &scriptedRand{}}
			},
			want: ErrInvalidPanelCount,
		},
		{
			name: "no scheduler",
			params: func(t *testing.T) GenerateBracketParams {
				return GenerateBracketParams{Entrants: seq(1, 4), Panels: 1, Rand: &scriptedRand{}}
			},
			want: ErrSchedulerRequired,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gen.GenerateBracket(tt.params(t))
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestDealPanels(t *testing.T) {
	panels := DealPanels([]int{1, 2, 3}, 5, &scriptedRand{})
	require.Len(t, panels, 5)
	assert.Equal(t, []int{1}, panels[0])
	assert.Equal(t, []int{3}, panels[2])
	assert.Equal(t, []int{}, panels[4])

	shuffled := DealPanels(seq(1, 20), 3, NewRandomizer(1))
	total := 0
	for _, p := range shuffled {
		total += len(p)
	}
	assert.Equal(t, 20, total)
}
