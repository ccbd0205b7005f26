// Package reports renders bracket data as spreadsheet workbooks.
package reports

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Dosada05/debate-tournament/models"
	"github.com/Dosada05/debate-tournament/scoring"
	"github.com/xuri/excelize/v2"
)

const (
	MatchesSheet = "Matches"
	ScoresSheet  = "Scores"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	matchesHeader = []interface{}{"Match", "Round", "Side A", "Side B", "Schedule", "Winner", "Judges", "Placement"}
	scoresHeader  = []interface{}{
		"Match",
		"Side A", "A judges", "A votes", "A vote score", "A total",
		"Side B", "B judges", "B votes", "B vote score", "B total",
	}
)

// WriteBracketWorkbook пишет книгу с листом матчей и листом очков.
// Время матчей выводится в поясе loc.
func WriteBracketWorkbook(w io.Writer, matches []*models.Match, scores []scoring.MatchScore, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), MatchesSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(ScoresSheet); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", ScoresSheet, err)
	}

	matchRows := make([][]interface{}, 0, len(matches)+1)
	matchRows = append(matchRows, matchesHeader)
	for _, m := range matches {
		schedule := ""
		if m.Schedule != nil {
			schedule = m.Schedule.In(loc).Format("2006-01-02 15:04")
		}
		winner := ""
		if m.WinnerID != nil {
			winner = strconv.Itoa(*m.WinnerID)
		}
		matchRows = append(matchRows, []interface{}{
			m.Key, m.Round, slotLabel(m.SideA), slotLabel(m.SideB), schedule, winner, joinInts(m.JudgePanel), m.IsPlacement,
		})
	}
	if err := writeRows(f, MatchesSheet, matchRows); err != nil {
		return err
	}

	scoreRows := make([][]interface{}, 0, len(scores)+1)
	scoreRows = append(scoreRows, scoresHeader)
	for _, s := range scores {
		scoreRows = append(scoreRows, []interface{}{
			s.MatchKey,
			s.SideA.EntrantID, s.SideA.JudgeScore, s.SideA.Votes, s.SideA.VoteScore, s.SideA.Total,
			s.SideB.EntrantID, s.SideB.JudgeScore, s.SideB.Votes, s.SideB.VoteScore, s.SideB.Total,
		})
	}
	if err := writeRows(f, ScoresSheet, scoreRows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of sheet %q: %w", i+1, sheet, err)
		}
	}
	return nil
}

func slotLabel(s models.Slot) string {
	switch {
	case s.IsResolved():
		return strconv.Itoa(s.EntrantID)
	case s.IsBye():
		return "BYE"
	default:
		return ""
	}
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}
