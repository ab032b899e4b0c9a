package events

import (
	"context"
	"fmt"
	"iter"
	"strconv"
	"time"

	"go.uber.org/zap"

	interfaces "github.com/sheikh-saqib/payments-engine/internal/interfaces"
	"github.com/sheikh-saqib/payments-engine/internal/models"
	modelevents "github.com/sheikh-saqib/payments-engine/internal/models/events"
)

// SnapshotPublisher emits one AccountSnapshotted event per account.
type SnapshotPublisher struct {
	publisher interfaces.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewSnapshotPublisher(publisher interfaces.EventPublisher, logger *zap.Logger) *SnapshotPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotPublisher{
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Export publishes the accounts in order and stops at the first failure.
func (p *SnapshotPublisher) Export(ctx context.Context, runID string, accounts iter.Seq[models.Account]) error {
	occurredAt := p.now().UTC()
	published := 0

	for account := range accounts {
		if err := ctx.Err(); err != nil {
			return err
		}

		event := modelevents.AccountSnapshotted{
			RunID:      runID,
			ClientID:   uint16(account.Client),
			Available:  account.Available.Decimal(),
			Held:       account.Held.Decimal(),
			Total:      account.Total().Decimal(),
			Locked:     account.Locked,
			OccurredAt: occurredAt,
		}
		key := strconv.FormatUint(uint64(account.Client), 10)
		if err := p.publisher.Publish(ctx, key, event); err != nil {
			return fmt.Errorf("publish snapshot for client %d: %w", account.Client, err)
		}
		published++
	}

	p.logger.Info("snapshot published", zap.String("run_id", runID), zap.Int("accounts", published))
	return nil
}

var _ interfaces.SnapshotSink = (*SnapshotPublisher)(nil)
