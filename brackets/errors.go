package brackets

import "errors"

var (
	ErrNotEnoughEntrants     = errors.New("at least two entrants are required to build a bracket")
	ErrInvalidPanelCount     = errors.New("judge team count must be positive")
	ErrInvalidScheduleWindow = errors.New("invalid schedule window")
	ErrSchedulerRequired     = errors.New("scheduler is required")
	ErrRandomizerRequired    = errors.New("randomizer is required")

	// Нарушена структура сетки: требуется вмешательство оператора.
	ErrBracketInconsistency = errors.New("bracket inconsistency")

	ErrRoundNotComplete     = errors.New("round has matches without a winner")
	ErrRoundAlreadyAdvanced = errors.New("round has already been advanced")
	ErrMatchNotReady        = errors.New("match sides are not resolved yet")
	ErrInvalidWinner        = errors.New("winner must be one of the match sides")
)
