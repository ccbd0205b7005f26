package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

type JudgeRepository interface {
	// ListEligibleIDs - судьи, принявшие приглашение и активные.
	ListEligibleIDs(ctx context.Context, exec SQLExecutor, eventID int) ([]int, error)
}

type postgresJudgeRepository struct {
	db *sql.DB
}

func NewPostgresJudgeRepository(db *sql.DB) JudgeRepository {
	return &postgresJudgeRepository{db: db}
}

func (r *postgresJudgeRepository) ListEligibleIDs(ctx context.Context, exec SQLExecutor, eventID int) ([]int, error) {
	query := `SELECT id FROM event_judges WHERE event_id = $1 AND accept = TRUE AND status = 0 ORDER BY id`
	rows, err := executor(r.db, exec).QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query judges for event %d: %w", eventID, err)
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan judge id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during judge rows iteration: %w", err)
	}
	return ids, nil
}
