package services

import (
	"context"
	"testing"

	"github.com/Dosada05/debate-tournament/models"
	"github.com/stretchr/testify/assert"
)

func TestNotifiers_FanOut(t *testing.T) {
	first, second := &FakeNotifier{}, &FakeNotifier{}
	group := Notifiers{first, nil, second}

	group.NotifyBracket(context.Background(), 3, NotifyMatchUpdated, []*models.Match{models.NewMatch(3, 1, 1)})

	want := []notification{{EventID: 3, Kind: NotifyMatchUpdated, Keys: []string{"1-1"}}}
	assert.Equal(t, want, first.Sent())
	assert.Equal(t, want, second.Sent())
}
