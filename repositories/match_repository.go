package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/debate-tournament/models"
	"github.com/lib/pq"
)

var ErrMatchNotFound = errors.New("match not found")

// MatchFilter ограничивает выборку матчей события. Нулевые поля не фильтруют.
type MatchFilter struct {
	Round *int
	From  *time.Time
	To    *time.Time
}

type MatchRepository interface {
	DeleteByEvent(ctx context.Context, exec SQLExecutor, eventID int) error
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	Update(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByKey(ctx context.Context, exec SQLExecutor, eventID int, key string) (*models.Match, error)
	ListByEvent(ctx context.Context, exec SQLExecutor, eventID int, filter MatchFilter) ([]*models.Match, error)
	MaxRound(ctx context.Context, exec SQLExecutor, eventID int) (int, error)
	// MaxScheduleInRound возвращает самое позднее время матча раунда или nil.
	MaxScheduleInRound(ctx context.Context, exec SQLExecutor, eventID, round int) (*time.Time, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `
		id, event_id, round, match_index, match_key, subject,
		side_a_state, side_a_entrant, side_b_state, side_b_entrant,
		judge_panel, schedule, winner_id, roster_a, roster_b, stream_key, is_placement, created_at`

func (r *postgresMatchRepository) DeleteByEvent(ctx context.Context, exec SQLExecutor, eventID int) error {
	query := `DELETE FROM matches WHERE event_id = $1`
	if _, err := executor(r.db, exec).ExecContext(ctx, query, eventID); err != nil {
		return fmt.Errorf("failed to delete matches of event %d: %w", eventID, err)
	}
	return nil
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	query := `
		INSERT INTO matches (
			event_id, round, match_index, match_key, subject,
			side_a_state, side_a_entrant, side_b_state, side_b_entrant,
			judge_panel, schedule, winner_id, roster_a, roster_b, stream_key, is_placement
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at`

	err := executor(r.db, exec).QueryRowContext(ctx, query,
		m.EventID, m.Round, m.Index, m.Key, m.Subject,
		m.SideA.State, slotEntrant(m.SideA), m.SideB.State, slotEntrant(m.SideB),
		int64Array(m.JudgePanel), m.Schedule, m.WinnerID,
		pq.Array(stringsOrEmpty(m.RosterA)), pq.Array(stringsOrEmpty(m.RosterB)),
		m.StreamKey, m.IsPlacement,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create match %s: %w", m.Key, mapPQError(err))
	}
	return nil
}

func (r *postgresMatchRepository) Update(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	query := `
		UPDATE matches SET
			subject = $1,
			side_a_state = $2, side_a_entrant = $3,
			side_b_state = $4, side_b_entrant = $5,
			judge_panel = $6, schedule = $7, winner_id = $8,
			roster_a = $9, roster_b = $10
		WHERE event_id = $11 AND match_key = $12`

	result, err := executor(r.db, exec).ExecContext(ctx, query,
		m.Subject,
		m.SideA.State, slotEntrant(m.SideA),
		m.SideB.State, slotEntrant(m.SideB),
		int64Array(m.JudgePanel), m.Schedule, m.WinnerID,
		pq.Array(stringsOrEmpty(m.RosterA)), pq.Array(stringsOrEmpty(m.RosterB)),
		m.EventID, m.Key,
	)
	if err != nil {
		return fmt.Errorf("failed to update match %s: %w", m.Key, mapPQError(err))
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) GetByKey(ctx context.Context, exec SQLExecutor, eventID int, key string) (*models.Match, error) {
	query := `SELECT` + matchColumns + ` FROM matches WHERE event_id = $1 AND match_key = $2`
	m, err := scanMatch(executor(r.db, exec).QueryRowContext(ctx, query, eventID, key))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match %s of event %d: %w", key, eventID, err)
	}
	return m, nil
}

func (r *postgresMatchRepository) ListByEvent(ctx context.Context, exec SQLExecutor, eventID int, filter MatchFilter) ([]*models.Match, error) {
	query := `SELECT` + matchColumns + ` FROM matches WHERE event_id = $1`
	args := []interface{}{eventID}
	argID := 2

	if filter.Round != nil {
		query += fmt.Sprintf(" AND round = $%d", argID)
		args = append(args, *filter.Round)
		argID++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND schedule >= $%d", argID)
		args = append(args, *filter.From)
		argID++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND schedule < $%d", argID)
		args = append(args, *filter.To)
		argID++
	}
	query += " ORDER BY round ASC, is_placement ASC, match_index ASC"

	rows, err := executor(r.db, exec).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches of event %d: %w", eventID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) MaxRound(ctx context.Context, exec SQLExecutor, eventID int) (int, error) {
	var maxRound int
	query := `SELECT COALESCE(MAX(round), 0) FROM matches WHERE event_id = $1`
	if err := executor(r.db, exec).QueryRowContext(ctx, query, eventID).Scan(&maxRound); err != nil {
		return 0, fmt.Errorf("failed to get max round of event %d: %w", eventID, err)
	}
	return maxRound, nil
}

func (r *postgresMatchRepository) MaxScheduleInRound(ctx context.Context, exec SQLExecutor, eventID, round int) (*time.Time, error) {
	var latest sql.NullTime
	query := `SELECT MAX(schedule) FROM matches WHERE event_id = $1 AND round = $2`
	if err := executor(r.db, exec).QueryRowContext(ctx, query, eventID, round).Scan(&latest); err != nil {
		return nil, fmt.Errorf("failed to get latest schedule of round %d: %w", round, err)
	}
	if !latest.Valid {
		return nil, nil
	}
	return &latest.Time, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMatch(row rowScanner) (*models.Match, error) {
	var (
		m        models.Match
		entrantA sql.NullInt64
		entrantB sql.NullInt64
		panel    pq.Int64Array
		schedule sql.NullTime
		winner   sql.NullInt64
		rosterA  pq.StringArray
		rosterB  pq.StringArray
	)
	err := row.Scan(
		&m.ID, &m.EventID, &m.Round, &m.Index, &m.Key, &m.Subject,
		&m.SideA.State, &entrantA, &m.SideB.State, &entrantB,
		&panel, &schedule, &winner, &rosterA, &rosterB, &m.StreamKey, &m.IsPlacement, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if entrantA.Valid {
		m.SideA.EntrantID = int(entrantA.Int64)
	}
	if entrantB.Valid {
		m.SideB.EntrantID = int(entrantB.Int64)
	}
	m.JudgePanel = make([]int, len(panel))
	for i, id := range panel {
		m.JudgePanel[i] = int(id)
	}
	if schedule.Valid {
		t := schedule.Time.UTC()
		m.Schedule = &t
	}
	if winner.Valid {
		id := int(winner.Int64)
		m.WinnerID = &id
	}
	m.RosterA = []string(rosterA)
	m.RosterB = []string(rosterB)
	if m.RosterA == nil {
		m.RosterA = []string{}
	}
	if m.RosterB == nil {
		m.RosterB = []string{}
	}
	return &m, nil
}

// slotEntrant возвращает id участника только для занятого слота.
func slotEntrant(s models.Slot) interface{} {
	if !s.IsResolved() {
		return nil
	}
	return s.EntrantID
}

func int64Array(v []int) pq.Int64Array {
	out := make(pq.Int64Array, len(v))
	for i, id := range v {
		out[i] = int64(id)
	}
	return out
}

func stringsOrEmpty(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
