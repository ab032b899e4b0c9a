package ledger

import (
	"errors"
	"fmt"
	"iter"

	"go.uber.org/zap"

	"github.com/sheikh-saqib/payments-engine/internal/models"
)

// Stats summarises a Process run.
type Stats struct {
	Applied   int
	Rejected  int
	Malformed int
}

// Process applies records in order until the sequence is exhausted.
// Malformed and rejected records are logged and skipped. Processing stops at
// the first amount overflow or at any error that is not tied to a single
// record, such as a failing reader.
func (l *Ledger) Process(records iter.Seq2[models.Record, error]) (Stats, error) {
	var stats Stats

	for record, err := range records {
		if err != nil {
			if errors.Is(err, models.ErrAmountOverflow) || !errors.Is(err, models.ErrMalformedRecord) {
				return stats, fmt.Errorf("read records: %w", err)
			}
			stats.Malformed++
			l.logger.Warn("skipping malformed record", zap.Error(err))
			continue
		}
		if record == nil {
			stats.Malformed++
			l.logger.Warn("skipping empty record")
			continue
		}

		if err := l.Apply(record); err != nil {
			if errors.Is(err, models.ErrAmountOverflow) {
				return stats, fmt.Errorf("apply %s tx %d: %w", record.Kind(), record.TxID(), err)
			}
			stats.Rejected++
			if ce := l.logger.Check(zap.DebugLevel, "record rejected"); ce != nil {
				ce.Write(
					zap.String("type", record.Kind()),
					zap.Uint32("tx", uint32(record.TxID())),
					zap.Uint16("client", uint16(record.ClientID())),
					zap.Error(err),
				)
			}
			continue
		}
		stats.Applied++
	}

	l.logger.Info("records processed",
		zap.Int("applied", stats.Applied),
		zap.Int("rejected", stats.Rejected),
		zap.Int("malformed", stats.Malformed),
		zap.Int("accounts", l.accounts.Len()),
		zap.Int("stored_transactions", l.transactions.Len()),
	)
	return stats, nil
}
