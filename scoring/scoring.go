// Package scoring combines judge rubric answers and audience votes into
// per-side match scores.
package scoring

import (
	"math"

	"github.com/Dosada05/debate-tournament/models"
)

// maxAnswer - верхняя граница шкалы ответа судьи.
const maxAnswer = 5.0

type Input struct {
	MatchKey   string
	SideA      int // 0, если сторона не определена
	SideB      int
	ScoreTo    int // доля судей в процентах
	PanelSize  int
	Items      []models.JudgingItem
	Answers    []models.JudgingAnswer
	VoteCounts map[int]int // entrant id -> голоса
}

type ItemScore struct {
	ItemID  int     `json:"item_id"`
	Area    string  `json:"area"`
	Percent float64 `json:"percent"`
	Average float64 `json:"average"`
	Score   float64 `json:"score"`
}

type SideScore struct {
	EntrantID  int         `json:"entrant_id"`
	Items      []ItemScore `json:"items"`
	JudgeScore float64     `json:"judge_score"`
	Votes      int         `json:"votes"`
	VoteScore  float64     `json:"vote_score"`
	Total      float64     `json:"total"`
}

type MatchScore struct {
	MatchKey   string    `json:"match_key"`
	SideA      SideScore `json:"side_a"`
	SideB      SideScore `json:"side_b"`
	TotalVotes int       `json:"total_votes"`
}

func Aggregate(in Input) MatchScore {
	totalVotes := 0
	if in.SideA != 0 {
		totalVotes += in.VoteCounts[in.SideA]
	}
	if in.SideB != 0 {
		totalVotes += in.VoteCounts[in.SideB]
	}

	return MatchScore{
		MatchKey:   in.MatchKey,
		SideA:      sideScore(in, in.SideA, totalVotes),
		SideB:      sideScore(in, in.SideB, totalVotes),
		TotalVotes: totalVotes,
	}
}

func sideScore(in Input, entrantID int, totalVotes int) SideScore {
	side := SideScore{EntrantID: entrantID, Items: make([]ItemScore, 0, len(in.Items))}
	if entrantID == 0 {
		return side
	}

	judgeShare := float64(in.ScoreTo) / 100
	judgeTotal := 0.0
	for _, item := range in.Items {
		sum, answered := 0.0, 0
		for _, a := range in.Answers {
			if a.ItemID == item.ID && a.EntrantID == entrantID {
				sum += a.Answer
				answered++
			}
		}

		divisor := in.PanelSize
		if divisor == 0 {
			divisor = answered
		}
		avg := 0.0
		if divisor > 0 {
			avg = sum / float64(divisor)
		}

		score := avg / maxAnswer * item.Percent
		judgeTotal += score
		side.Items = append(side.Items, ItemScore{
			ItemID:  item.ID,
			Area:    item.Area,
			Percent: item.Percent,
			Average: Round1(avg),
			Score:   Round1(score * judgeShare),
		})
	}
	side.JudgeScore = Round1(judgeTotal * judgeShare)

	side.Votes = in.VoteCounts[entrantID]
	side.VoteScore = VoteScore(side.Votes, totalVotes, in.ScoreTo)
	side.Total = Round1(judgeTotal*judgeShare + side.VoteScore)
	return side
}

// VoteScore переводит долю голосов в очки зрительской части.
func VoteScore(votes, totalVotes, scoreTo int) float64 {
	if totalVotes == 0 {
		return 0
	}
	return Round1(float64(votes) / float64(totalVotes) * float64(100-scoreTo))
}

func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
