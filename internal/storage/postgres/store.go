package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
	"time"

	_ "github.com/lib/pq" // registers the "postgres" driver

	interfaces "github.com/sheikh-saqib/payments-engine/internal/interfaces"
	"github.com/sheikh-saqib/payments-engine/internal/models"
)

const schema = `CREATE TABLE IF NOT EXISTS account_snapshots (
	run_id     TEXT        NOT NULL,
	client_id  INTEGER     NOT NULL,
	available  NUMERIC     NOT NULL,
	held       NUMERIC     NOT NULL,
	total      NUMERIC     NOT NULL,
	locked     BOOLEAN     NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (run_id, client_id)
)`

// SnapshotStore writes the final account snapshot of a run to PostgreSQL.
// Rows are only ever inserted; the engine never reads them back.
type SnapshotStore struct {
	db  *sql.DB
	now func() time.Time
}

// Open connects to dsn with the lib/pq driver and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return db, nil
}

func NewSnapshotStore(db *sql.DB) *SnapshotStore {
	return &SnapshotStore{
		db:  db,
		now: time.Now,
	}
}

// EnsureSchema creates the account_snapshots table if it does not exist.
func (p *SnapshotStore) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("postgres: ensure schema: %w", err)
	}
	return nil
}

// Export inserts one row per account inside a single transaction, so a run is
// either stored completely or not at all.
func (p *SnapshotStore) Export(ctx context.Context, runID string, accounts iter.Seq[models.Account]) (err error) {
	const query = `INSERT INTO account_snapshots (run_id, client_id, available, held, total, locked, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

	dbTx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}

	defer func() {
		if err != nil {
			dbTx.Rollback()
		}
	}()

	stmt, err := dbTx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("postgres: prepare: %w", err)
	}
	defer stmt.Close()

	createdAt := p.now().UTC()
	for account := range accounts {
		_, err = stmt.ExecContext(ctx,
			runID,
			int(account.Client),
			account.Available.String(),
			account.Held.String(),
			account.Total().String(),
			account.Locked,
			createdAt,
		)
		if err != nil {
			return fmt.Errorf("postgres: insert client %d: %w", account.Client, err)
		}
	}

	if err = dbTx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

var _ interfaces.SnapshotSink = (*SnapshotStore)(nil)
