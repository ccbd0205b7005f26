package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Dosada05/debate-tournament/models"
	"github.com/Dosada05/debate-tournament/repositories"
)

const snapshotTimeout = 30 * time.Second

// MatchLister - часть репозитория матчей, нужная для снимка.
type MatchLister interface {
	ListByEvent(ctx context.Context, exec repositories.SQLExecutor, eventID int, filter repositories.MatchFilter) ([]*models.Match, error)
}

type BracketSnapshot struct {
	EventID     int             `json:"event_id"`
	Kind        string          `json:"kind"`
	PublishedAt time.Time       `json:"published_at"`
	Matches     []*models.Match `json:"matches"`
}

func SnapshotKey(eventID int) string {
	return fmt.Sprintf("brackets/%d/bracket.json", eventID)
}

// SnapshotPublisher выгружает всю сетку события в хранилище после каждого
// изменения. Выгрузка идёт в фоне и не зависит от отмены запроса.
type SnapshotPublisher struct {
	uploader FileUploader
	matches  MatchLister
	logger   *slog.Logger
	now      func() time.Time
	wg       sync.WaitGroup
}

func NewSnapshotPublisher(uploader FileUploader, matches MatchLister, logger *slog.Logger) *SnapshotPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotPublisher{
		uploader: uploader,
		matches:  matches,
		logger:   logger,
		now:      time.Now,
	}
}

func (p *SnapshotPublisher) NotifyBracket(ctx context.Context, eventID int, kind string, _ []*models.Match) {
	bg := context.WithoutCancel(ctx)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ctx, cancel := context.WithTimeout(bg, snapshotTimeout)
		defer cancel()

		result, err := p.Publish(ctx, eventID, kind)
		if err != nil {
			p.logger.Error("failed to publish bracket snapshot",
				slog.Int("event_id", eventID), slog.String("kind", kind), slog.Any("error", err))
			return
		}
		p.logger.Info("bracket snapshot published",
			slog.Int("event_id", eventID), slog.String("key", result.Key), slog.String("location", result.Location))
	}()
}

// Publish synchronously uploads the current bracket of the event.
func (p *SnapshotPublisher) Publish(ctx context.Context, eventID int, kind string) (*UploadResult, error) {
	matches, err := p.matches.ListByEvent(ctx, nil, eventID, repositories.MatchFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load bracket of event %d: %w", eventID, err)
	}

	body, err := json.Marshal(BracketSnapshot{
		EventID:     eventID,
		Kind:        kind,
		PublishedAt: p.now().UTC(),
		Matches:     matches,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode bracket snapshot: %w", err)
	}

	return p.uploader.Upload(ctx, SnapshotKey(eventID), "application/json", bytes.NewReader(body))
}

// Wait blocks until background uploads finish.
func (p *SnapshotPublisher) Wait() {
	p.wg.Wait()
}
