package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/debate-tournament/models"
)

type EntrantRepository interface {
	// ListApprovedIDs возвращает одобренных участников события: пользователей
	// в индивидуальном режиме или команды в командном.
	ListApprovedIDs(ctx context.Context, exec SQLExecutor, eventID int, mode models.EntrantMode) ([]int, error)
	// ListMembers возвращает состав каждого участника, ключ - id участника.
	ListMembers(ctx context.Context, exec SQLExecutor, eventID int, mode models.EntrantMode, entrantIDs []int) (map[int][]models.Member, error)
}

type postgresEntrantRepository struct {
	db *sql.DB
}

func NewPostgresEntrantRepository(db *sql.DB) EntrantRepository {
	return &postgresEntrantRepository{db: db}
}

func (r *postgresEntrantRepository) ListApprovedIDs(ctx context.Context, exec SQLExecutor, eventID int, mode models.EntrantMode) ([]int, error) {
	query := `SELECT id FROM event_users WHERE event_id = $1 AND status = $2 ORDER BY id`
	if mode.IsTeam() {
		query = `SELECT id FROM event_teams WHERE event_id = $1 AND status = $2 ORDER BY id`
	}

	rows, err := executor(r.db, exec).QueryContext(ctx, query, eventID, models.EntrantStatusApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to query approved entrants for event %d: %w", eventID, err)
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan entrant id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during entrant rows iteration: %w", err)
	}
	return ids, nil
}

func (r *postgresEntrantRepository) ListMembers(ctx context.Context, exec SQLExecutor, eventID int, mode models.EntrantMode, entrantIDs []int) (map[int][]models.Member, error) {
	members := make(map[int][]models.Member, len(entrantIDs))
	if len(entrantIDs) == 0 {
		return members, nil
	}

	filter := "id"
	if mode.IsTeam() {
		filter = "team_id"
	}
	query := `
		SELECT id, event_id, team_id, user_id, nickname, status, joined_at
		FROM event_users
		WHERE event_id = $1 AND ` + filter + ` = ANY($2)
		ORDER BY joined_at ASC, id ASC`

	rows, err := executor(r.db, exec).QueryContext(ctx, query, eventID, int64Array(entrantIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query members for event %d: %w", eventID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			m      models.Member
			teamID sql.NullInt64
		)
		if err := rows.Scan(&m.ID, &m.EventID, &teamID, &m.UserID, &m.Nickname, &m.Status, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member row: %w", err)
		}
		key := m.ID
		if teamID.Valid {
			id := int(teamID.Int64)
			m.TeamID = &id
			if mode.IsTeam() {
				key = id
			}
		}
		members[key] = append(members[key], m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during member rows iteration: %w", err)
	}
	return members, nil
}
