package services

import (
	"context"

	"github.com/Dosada05/debate-tournament/models"
)

// Типы уведомлений об изменении сетки.
const (
	NotifyBracketBuilt  = "BRACKET_BUILT"
	NotifyRoundAdvanced = "ROUND_ADVANCED"
	NotifyMatchUpdated  = "MATCH_UPDATED"
)

// BracketNotifier получает изменённые матчи после успешного коммита.
// Ошибки доставки остаются внутри реализации и не влияют на запрос.
type BracketNotifier interface {
	NotifyBracket(ctx context.Context, eventID int, kind string, matches []*models.Match)
}

// Notifiers рассылает уведомление всем получателям по очереди.
type Notifiers []BracketNotifier

func (n Notifiers) NotifyBracket(ctx context.Context, eventID int, kind string, matches []*models.Match) {
	for _, notifier := range n {
		if notifier != nil {
			notifier.NotifyBracket(ctx, eventID, kind, matches)
		}
	}
}
