package interfaces

import (
	"context"
	"iter"

	"github.com/sheikh-saqib/payments-engine/internal/models"
)

type EventPublisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// SnapshotSink receives the final account snapshot of a run.
type SnapshotSink interface {
	Export(ctx context.Context, runID string, accounts iter.Seq[models.Account]) error
}
