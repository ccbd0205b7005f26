package services

import (
	"errors"

	"github.com/Dosada05/debate-tournament/brackets"
	"github.com/Dosada05/debate-tournament/repositories"
)

// Общие ошибки сервисов, используются в маппинге HTTP.
var (
	ErrValidationFailed = errors.New("validation failed")

	// Пул участников
	ErrNoParticipants        = errors.New("event has no approved participants")
	ErrNotEnoughParticipants = errors.New("at least two approved participants are required")

	ErrBracketNotBuilt = errors.New("bracket has not been built for this event")
	ErrNoNextRound     = errors.New("completed round is the final round")

	// Ошибки, приходящие из репозиториев
	ErrEventNotFound = repositories.ErrEventNotFound
	ErrMatchNotFound = repositories.ErrMatchNotFound

	// Ошибки сетки
	ErrBracketInconsistency  = brackets.ErrBracketInconsistency
	ErrInvalidScheduleWindow = brackets.ErrInvalidScheduleWindow
	ErrRoundNotComplete      = brackets.ErrRoundNotComplete
	ErrRoundAlreadyAdvanced  = brackets.ErrRoundAlreadyAdvanced
	ErrMatchNotReady         = brackets.ErrMatchNotReady
	ErrInvalidWinner         = brackets.ErrInvalidWinner
)
