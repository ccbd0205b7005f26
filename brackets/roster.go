package brackets

import (
	"sort"

	"github.com/Dosada05/debate-tournament/models"
)

// Roster возвращает аккаунты участников одной стороны: лидер, второй и
// дополнительный участник. Порядок определяется временем вступления.
func Roster(mode models.EntrantMode, members []models.Member) []string {
	if len(members) == 0 {
		return []string{}
	}

	ordered := make([]models.Member, len(members))
	copy(ordered, members)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].JoinedAt.Equal(ordered[j].JoinedAt) {
			return ordered[i].JoinedAt.Before(ordered[j].JoinedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})

	roster := []string{ordered[0].UserID}
	if mode.IsTeam() && len(ordered) > 1 {
		roster = append(roster, ordered[1].UserID)
	}
	if mode == models.ModeTeamOfThree && len(ordered) > 2 {
		roster = append(roster, ordered[len(ordered)-1].UserID)
	}
	return roster
}

// AttachRosters fills RosterA/RosterB from the members of each resolved side.
func AttachRosters(mode models.EntrantMode, matches []*models.Match, members map[int][]models.Member) {
	for _, m := range matches {
		m.RosterA = []string{}
		m.RosterB = []string{}
		if m.SideA.IsResolved() {
			m.RosterA = Roster(mode, members[m.SideA.EntrantID])
		}
		if m.SideB.IsResolved() {
			m.RosterB = Roster(mode, members[m.SideB.EntrantID])
		}
	}
}
