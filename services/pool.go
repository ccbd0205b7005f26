package services

import (
	"context"
	"fmt"

	"github.com/Dosada05/debate-tournament/brackets"
	"github.com/Dosada05/debate-tournament/models"
	"github.com/Dosada05/debate-tournament/repositories"
)

// resolvePool загружает одобренных участников события и перемешивает их.
// Перемешивание всего пула до нарезки раундов даёт каждому участнику
// одинаковый шанс пропустить первый раунд.
func resolvePool(
	ctx context.Context,
	repo repositories.EntrantRepository,
	exec repositories.SQLExecutor,
	event *models.Event,
	rng brackets.Randomizer,
) ([]int, error) {
	ids, err := repo.ListApprovedIDs(ctx, exec, event.ID, event.Mode)
	if err != nil {
		return nil, fmt.Errorf("failed to load participants of event %d: %w", event.ID, err)
	}
	switch len(ids) {
	case 0:
		return nil, fmt.Errorf("%w: event %d", ErrNoParticipants, event.ID)
	case 1:
		return nil, fmt.Errorf("%w: event %d has only one", ErrNotEnoughParticipants, event.ID)
	}
	return brackets.ShuffledInts(ids, rng), nil
}
