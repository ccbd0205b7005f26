package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/debate-tournament/models"
)

var ErrEventNotFound = errors.New("event not found")

type EventRepository interface {
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Event, error)
	// LockByID читает событие с блокировкой строки до конца транзакции.
	LockByID(ctx context.Context, exec SQLExecutor, id int) (*models.Event, error)
	UpdateMatchInterval(ctx context.Context, exec SQLExecutor, id int, seconds int) error
	UpdateProgress(ctx context.Context, exec SQLExecutor, id int, progress models.EventProgress) error
}

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

const eventColumns = `
		id, name, mode, progress1, progress2, progress3, match_interval, score_to, schedule_to,
		bracket_created, bracket_finalized, finished_round, created_at`

func (r *postgresEventRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Event, error) {
	query := `SELECT` + eventColumns + ` FROM events WHERE id = $1`
	return r.scanEvent(executor(r.db, exec).QueryRowContext(ctx, query, id), id)
}

func (r *postgresEventRepository) LockByID(ctx context.Context, exec SQLExecutor, id int) (*models.Event, error) {
	query := `SELECT` + eventColumns + ` FROM events WHERE id = $1 FOR UPDATE`
	return r.scanEvent(executor(r.db, exec).QueryRowContext(ctx, query, id), id)
}

func (r *postgresEventRepository) scanEvent(row *sql.Row, id int) (*models.Event, error) {
	event := &models.Event{}
	err := row.Scan(
		&event.ID,
		&event.Name,
		&event.Mode,
		&event.Phase1Seconds,
		&event.Phase2Seconds,
		&event.Phase3Seconds,
		&event.MatchInterval,
		&event.ScoreTo,
		&event.PlacementMatch,
		&event.BracketCreated,
		&event.BracketFinalized,
		&event.FinishedRound,
		&event.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to scan event %d: %w", id, err)
	}
	return event, nil
}

func (r *postgresEventRepository) UpdateMatchInterval(ctx context.Context, exec SQLExecutor, id int, seconds int) error {
	query := `UPDATE events SET match_interval = $1 WHERE id = $2`
	result, err := executor(r.db, exec).ExecContext(ctx, query, seconds, id)
	if err != nil {
		return fmt.Errorf("failed to update match interval for event %d: %w", id, mapPQError(err))
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) UpdateProgress(ctx context.Context, exec SQLExecutor, id int, progress models.EventProgress) error {
	query := `
		UPDATE events
		SET bracket_created = $1, bracket_finalized = $2, finished_round = $3
		WHERE id = $4`
	result, err := executor(r.db, exec).ExecContext(ctx, query,
		progress.BracketCreated, progress.BracketFinalized, progress.FinishedRound, id)
	if err != nil {
		return fmt.Errorf("failed to update progress for event %d: %w", id, mapPQError(err))
	}
	return checkAffectedRows(result, ErrEventNotFound)
}
