package brackets

import (
	"fmt"

	"github.com/Dosada05/debate-tournament/models"
)

// FillPlacement отправляет проигравших раунда перед финалом в матч за место.
// Первый проигравший пары получает случайную сторону, второй - противоположную.
// Недостающая сторона становится bye.
func FillPlacement(placement *models.Match, completed []*models.Match, rng Randomizer) error {
	if !placement.SideA.IsEmpty() || !placement.SideB.IsEmpty() {
		return fmt.Errorf("%w: placement match %s is already filled", ErrRoundAlreadyAdvanced, placement.Key)
	}

	losers := make([]int, 0, 2)
	for _, m := range completed {
		if loser, ok := m.Loser(); ok {
			losers = append(losers, loser)
		}
	}
	if len(losers) > 2 {
		return fmt.Errorf("%w: %d losers for placement match %s", ErrBracketInconsistency, len(losers), placement.Key)
	}

	placement.SideA = models.ByeSlot()
	placement.SideB = models.ByeSlot()

	side := 0
	for i, loser := range losers {
		if i%2 == 0 {
			side = rng.Intn(2)
		} else {
			side = 1 - side
		}
		if side == 0 {
			placement.SideA = models.ResolvedSlot(loser)
		} else {
			placement.SideB = models.ResolvedSlot(loser)
		}
	}

	ResolveBye(placement)
	return nil
}
