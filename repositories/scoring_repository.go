package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/debate-tournament/models"
	"github.com/lib/pq"
)

// ScoringRepository читает рубрику, ответы судей и голоса зрителей.
type ScoringRepository interface {
	ListItems(ctx context.Context, eventID int) ([]models.JudgingItem, error)
	ListAnswers(ctx context.Context, eventID int, matchKeys []string) ([]models.JudgingAnswer, error)
	// CountVotes returns votes per match key, then per entrant.
	CountVotes(ctx context.Context, eventID int, matchKeys []string) (map[string]map[int]int, error)
}

type postgresScoringRepository struct {
	db *sql.DB
}

func NewPostgresScoringRepository(db *sql.DB) ScoringRepository {
	return &postgresScoringRepository{db: db}
}

func (r *postgresScoringRepository) ListItems(ctx context.Context, eventID int) ([]models.JudgingItem, error) {
	query := `SELECT id, event_id, area, content, percent FROM judging_items WHERE event_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query judging items for event %d: %w", eventID, err)
	}
	defer rows.Close()

	items := make([]models.JudgingItem, 0)
	for rows.Next() {
		var item models.JudgingItem
		if err := rows.Scan(&item.ID, &item.EventID, &item.Area, &item.Content, &item.Percent); err != nil {
			return nil, fmt.Errorf("failed to scan judging item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during judging item rows iteration: %w", err)
	}
	return items, nil
}

func (r *postgresScoringRepository) ListAnswers(ctx context.Context, eventID int, matchKeys []string) ([]models.JudgingAnswer, error) {
	answers := make([]models.JudgingAnswer, 0)
	if len(matchKeys) == 0 {
		return answers, nil
	}

	query := `
		SELECT id, event_id, judge_id, item_id, match_key, entrant_id, answer
		FROM judging_answers
		WHERE event_id = $1 AND match_key = ANY($2)
		ORDER BY match_key, entrant_id, item_id, judge_id`
	rows, err := r.db.QueryContext(ctx, query, eventID, pq.Array(matchKeys))
	if err != nil {
		return nil, fmt.Errorf("failed to query judging answers for event %d: %w", eventID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var a models.JudgingAnswer
		if err := rows.Scan(&a.ID, &a.EventID, &a.JudgeID, &a.ItemID, &a.MatchKey, &a.EntrantID, &a.Answer); err != nil {
			return nil, fmt.Errorf("failed to scan judging answer: %w", err)
		}
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during judging answer rows iteration: %w", err)
	}
	return answers, nil
}

func (r *postgresScoringRepository) CountVotes(ctx context.Context, eventID int, matchKeys []string) (map[string]map[int]int, error) {
	counts := make(map[string]map[int]int, len(matchKeys))
	if len(matchKeys) == 0 {
		return counts, nil
	}

	query := `
		SELECT match_key, entrant_id, COUNT(*)
		FROM votes
		WHERE event_id = $1 AND match_key = ANY($2)
		GROUP BY match_key, entrant_id`
	rows, err := r.db.QueryContext(ctx, query, eventID, pq.Array(matchKeys))
	if err != nil {
		return nil, fmt.Errorf("failed to count votes for event %d: %w", eventID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			key       string
			entrantID int
			count     int
		)
		if err := rows.Scan(&key, &entrantID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan vote count: %w", err)
		}
		if counts[key] == nil {
			counts[key] = make(map[int]int)
		}
		counts[key][entrantID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during vote rows iteration: %w", err)
	}
	return counts, nil
}
