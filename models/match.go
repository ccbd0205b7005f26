package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SlotState - состояние одной стороны матча.
type SlotState int16

const (
	SlotEmpty    SlotState = iota // участник ещё не определён
	SlotBye                       // соперника нет, присутствующая сторона проходит дальше
	SlotResolved                  // участник известен
)

var slotStateNames = map[SlotState]string{
	SlotEmpty:    "empty",
	SlotBye:      "bye",
	SlotResolved: "resolved",
}

func (s SlotState) String() string {
	if name, ok := slotStateNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s SlotState) MarshalText() ([]byte, error) {
	name, ok := slotStateNames[s]
	if !ok {
		return nil, fmt.Errorf("unknown slot state %d", s)
	}
	return []byte(name), nil
}

func (s *SlotState) UnmarshalText(text []byte) error {
	for state, name := range slotStateNames {
		if name == string(text) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown slot state %q", string(text))
}

type Slot struct {
	State     SlotState `json:"state"`
	EntrantID int       `json:"entrant_id,omitempty"`
}

func EmptySlot() Slot { return Slot{State: SlotEmpty} }

func ByeSlot() Slot { return Slot{State: SlotBye} }

func ResolvedSlot(entrantID int) Slot {
	return Slot{State: SlotResolved, EntrantID: entrantID}
}

func (s Slot) IsEmpty() bool    { return s.State == SlotEmpty }
func (s Slot) IsBye() bool      { return s.State == SlotBye }
func (s Slot) IsResolved() bool { return s.State == SlotResolved }

// Holds сообщает, занят ли слот указанным участником.
func (s Slot) Holds(entrantID int) bool {
	return s.State == SlotResolved && s.EntrantID == entrantID
}

type Match struct {
	ID          int        `json:"id"`
	EventID     int        `json:"event_id"`
	Round       int        `json:"round"`
	Index       int        `json:"index"`
	Key         string     `json:"match_key"`
	Subject     string     `json:"subject"`
	SideA       Slot       `json:"side_a"`
	SideB       Slot       `json:"side_b"`
	JudgePanel  []int      `json:"judge_panel"`
	Schedule    *time.Time `json:"schedule,omitempty"`
	WinnerID    *int       `json:"winner_id,omitempty"`
	RosterA     []string   `json:"roster_a"`
	RosterB     []string   `json:"roster_b"`
	StreamKey   string     `json:"stream_key"`
	IsPlacement bool       `json:"is_placement"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewMatch создаёт пустую заготовку матча с ключом "<round>-<index>".
func NewMatch(eventID, round, index int) *Match {
	return &Match{
		EventID:    eventID,
		Round:      round,
		Index:      index,
		Key:        MatchKey(round, index),
		SideA:      EmptySlot(),
		SideB:      EmptySlot(),
		JudgePanel: []int{},
	}
}

func MatchKey(round, index int) string {
	return strconv.Itoa(round) + "-" + strconv.Itoa(index)
}

func ParseMatchKey(key string) (round int, index int, err error) {
	roundStr, indexStr, ok := strings.Cut(key, "-")
	if !ok {
		return 0, 0, fmt.Errorf("invalid match key %q", key)
	}
	round, err = strconv.Atoi(roundStr)
	if err != nil || round < 1 {
		return 0, 0, fmt.Errorf("invalid round in match key %q", key)
	}
	index, err = strconv.Atoi(indexStr)
	if err != nil || index < 1 {
		return 0, 0, fmt.Errorf("invalid index in match key %q", key)
	}
	return round, index, nil
}

// Loser возвращает проигравшего, если победитель определён и обе стороны заняты.
func (m *Match) Loser() (int, bool) {
	if m.WinnerID == nil || !m.SideA.IsResolved() || !m.SideB.IsResolved() {
		return 0, false
	}
	switch *m.WinnerID {
	case m.SideA.EntrantID:
		return m.SideB.EntrantID, true
	case m.SideB.EntrantID:
		return m.SideA.EntrantID, true
	}
	return 0, false
}

// EntrantIDs returns the resolved entrants of both sides.
func (m *Match) EntrantIDs() []int {
	ids := make([]int, 0, 2)
	if m.SideA.IsResolved() {
		ids = append(ids, m.SideA.EntrantID)
	}
	if m.SideB.IsResolved() {
		ids = append(ids, m.SideB.EntrantID)
	}
	return ids
}

type DateCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}
