package scoring

import (
	"testing"

	"github.com/Dosada05/debate-tournament/models"
	"github.com/stretchr/testify/assert"
)

func TestVoteScore(t *testing.T) {
	tests := []struct {
		name                      string
		votes, totalVotes, scoreTo int
		want                      float64
	}{
		{name: "no votes", votes: 0, totalVotes: 0, scoreTo: 70, want: 0},
		{name: "two of three", votes: 2, totalVotes: 3, scoreTo: 70, want: 20},
		{name: "one of three", votes: 1, totalVotes: 3, scoreTo: 70, want: 10},
		{name: "judges only", votes: 5, totalVotes: 5, scoreTo: 100, want: 0},
		{name: "audience only", votes: 1, totalVotes: 4, scoreTo: 0, want: 25},
		{name: "rounded", votes: 1, totalVotes: 7, scoreTo: 50, want: 7.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, VoteScore(tt.votes, tt.totalVotes, tt.scoreTo), 1e-9)
		})
	}
}

func TestAggregate(t *testing.T) {
	items := []models.JudgingItem{
		{ID: 1, Area: "Content", Percent: 60},
		{ID: 2, Area: "Delivery", Percent: 40},
	}
	answers := []models.JudgingAnswer{
		{JudgeID: 1, ItemID: 1, EntrantID: 10, Answer: 5},
		{JudgeID: 2, ItemID: 1, EntrantID: 10, Answer: 4},
		{JudgeID: 1, ItemID: 2, EntrantID: 10, Answer: 3},
		{JudgeID: 2, ItemID: 2, EntrantID: 10, Answer: 3},
		{JudgeID: 1, ItemID: 1, EntrantID: 20, Answer: 2},
		// второй судья не оценил сторону 20 по первому пункту
		{JudgeID: 1, ItemID: 2, EntrantID: 20, Answer: 5},
		{JudgeID: 2, ItemID: 2, EntrantID: 20, Answer: 5},
	}

	got := Aggregate(Input{
		MatchKey:   "1-1",
		SideA:      10,
		SideB:      20,
		ScoreTo:    80,
		PanelSize:  2,
		Items:      items,
		Answers:    answers,
		VoteCounts: map[int]int{10: 3, 20: 1, 30: 9},
	})

	assert.Equal(t, "1-1", got.MatchKey)
	assert.Equal(t, 4, got.TotalVotes)

	// сторона A: (4.5/5*60 + 3/5*40) * 0.8 = (54 + 24) * 0.8 = 62.4
	assert.InDelta(t, 62.4, got.SideA.JudgeScore, 1e-9)
	assert.InDelta(t, 15.0, got.SideA.VoteScore, 1e-9)
	assert.InDelta(t, 77.4, got.SideA.Total, 1e-9)
	assert.Equal(t, 3, got.SideA.Votes)
	if assert.Len(t, got.SideA.Items, 2) {
		assert.InDelta(t, 4.5, got.SideA.Items[0].Average, 1e-9)
		assert.InDelta(t, 43.2, got.SideA.Items[0].Score, 1e-9)
	}

	// сторона B: (1/5*60 + 5/5*40) * 0.8 = (12 + 40) * 0.8 = 41.6
	assert.InDelta(t, 41.6, got.SideB.JudgeScore, 1e-9)
	assert.InDelta(t, 5.0, got.SideB.VoteScore, 1e-9)
	assert.InDelta(t, 46.6, got.SideB.Total, 1e-9)
}

func TestAggregate_EmptyPanelUsesAnsweredJudges(t *testing.T) {
	got := Aggregate(Input{
		SideA:   1,
		ScoreTo: 100,
		Items:   []models.JudgingItem{{ID: 1, Percent: 100}},
		Answers: []models.JudgingAnswer{
			{JudgeID: 1, ItemID: 1, EntrantID: 1, Answer: 4},
			{JudgeID: 2, ItemID: 1, EntrantID: 1, Answer: 2},
		},
	})

	assert.InDelta(t, 60.0, got.SideA.JudgeScore, 1e-9)
	assert.Zero(t, got.SideA.VoteScore)
	assert.Zero(t, got.SideB.Total, "an unresolved side scores nothing")
	assert.Zero(t, got.TotalVotes)
}
