package events

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/payments-engine/internal/models"
	modelevents "github.com/sheikh-saqib/payments-engine/internal/models/events"
)

type published struct {
	key   string
	event any
}

type fakePublisher struct {
	sent   []published
	failAt int
}

func (p *fakePublisher) Publish(_ context.Context, key string, event any) error {
	if p.failAt > 0 && len(p.sent)+1 == p.failAt {
		return errors.New("broker down")
	}
	p.sent = append(p.sent, published{key, event})
	return nil
}

func testAccounts() []models.Account {
	return []models.Account{
		{Client: 1, Available: models.MustParseAmount("1.5"), Held: models.MustParseAmount("2")},
		{Client: 4, Locked: true},
	}
}

func TestSnapshotPublisher_Export(t *testing.T) {
	pub := &fakePublisher{}
	sp := NewSnapshotPublisher(pub, nil)
	fixed := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	sp.now = func() time.Time { return fixed }

	require.NoError(t, sp.Export(context.Background(), "run-1", slices.Values(testAccounts())))
	require.Len(t, pub.sent, 2)

	assert.Equal(t, "1", pub.sent[0].key)
	first, ok := pub.sent[0].event.(modelevents.AccountSnapshotted)
	require.True(t, ok)
	assert.Equal(t, "run-1", first.RunID)
	assert.Equal(t, uint16(1), first.ClientID)
	assert.Equal(t, "3.5", first.Total.String())
	assert.False(t, first.Locked)
	assert.Equal(t, fixed, first.OccurredAt)

	second := pub.sent[1].event.(modelevents.AccountSnapshotted)
	assert.Equal(t, "4", pub.sent[1].key)
	assert.True(t, second.Locked)
	assert.True(t, second.Total.IsZero())
}

func TestSnapshotPublisher_StopsOnFailure(t *testing.T) {
	pub := &fakePublisher{failAt: 1}
	sp := NewSnapshotPublisher(pub, nil)

	err := sp.Export(context.Background(), "run-1", slices.Values(testAccounts()))
	assert.ErrorContains(t, err, "client 1")
	assert.Empty(t, pub.sent)
}

func TestSnapshotPublisher_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pub := &fakePublisher{}
	err := NewSnapshotPublisher(pub, nil).Export(ctx, "run-1", slices.Values(testAccounts()))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, pub.sent)
}
