package models

import "time"

// EntrantMode соответствует полю freedom_to: кто участвует в дебатах.
type EntrantMode int

const (
	ModeIndividual  EntrantMode = 0
	ModeTeamOfTwo   EntrantMode = 1
	ModeTeamOfThree EntrantMode = 2
)

func (m EntrantMode) IsTeam() bool {
	return m == ModeTeamOfTwo || m == ModeTeamOfThree
}

func (m EntrantMode) Valid() bool {
	return m == ModeIndividual || m.IsTeam()
}

// RosterSize - максимальное число участников на одной стороне матча.
func (m EntrantMode) RosterSize() int {
	switch m {
	case ModeTeamOfTwo:
		return 2
	case ModeTeamOfThree:
		return 3
	default:
		return 1
	}
}

type Event struct {
	ID             int         `json:"id"`
	Name           string      `json:"name"`
	Mode           EntrantMode `json:"mode"`
	Phase1Seconds  int         `json:"progress1"`
	Phase2Seconds  int         `json:"progress2"`
	Phase3Seconds  int         `json:"progress3"`
	MatchInterval  int         `json:"match_interval"` // seconds
	ScoreTo        int         `json:"score_to"`
	PlacementMatch bool        `json:"placement_match"`
	EventProgress
	CreatedAt time.Time `json:"created_at"`
}

// EventProgress хранит флаги продвижения сетки.
type EventProgress struct {
	BracketCreated   bool `json:"bracket_created"`
	BracketFinalized bool `json:"bracket_finalized"`
	FinishedRound    int  `json:"finished_round"`
}

func (e *Event) MatchDuration() time.Duration {
	return time.Duration(e.Phase1Seconds+e.Phase2Seconds+e.Phase3Seconds) * time.Second
}

func (e *Event) Interval() time.Duration {
	return time.Duration(e.MatchInterval) * time.Second
}
