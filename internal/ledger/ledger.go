package ledger

import (
	"errors"
	"fmt"
	"iter"

	"go.uber.org/zap"

	interfaces "github.com/sheikh-saqib/payments-engine/internal/interfaces"
	"github.com/sheikh-saqib/payments-engine/internal/models"
)

var (
	ErrDuplicateTransaction = errors.New("ledger: duplicate transaction id")
	ErrUnknownTransaction   = errors.New("ledger: unknown transaction")
	ErrClientMismatch       = errors.New("ledger: transaction belongs to another client")
	ErrUnsupportedRecord    = errors.New("ledger: unsupported record")
)

// Ledger decides, for every incoming record, whether it is legal and which
// account ledger operation it implies. Only deposits are retained, so only
// deposits can be disputed.
//
// A Ledger is driven by a single goroutine; records must be applied in input
// order.
type Ledger struct {
	accounts     interfaces.AccountLedger
	transactions interfaces.TransactionStore
	logger       *zap.Logger
}

// NewLedger wires a transaction store to an account ledger. A nil logger
// disables logging.
func NewLedger(accounts interfaces.AccountLedger, transactions interfaces.TransactionStore, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{
		accounts:     accounts,
		transactions: transactions,
		logger:       logger,
	}
}

// Apply routes a record to the matching operation. A non-nil error means the
// record was rejected and nothing changed, unless it wraps
// models.ErrAmountOverflow.
func (l *Ledger) Apply(record models.Record) error {
	switch r := record.(type) {
	case models.Deposit:
		return l.ApplyDeposit(r.Tx, r.Client, r.Amount)
	case models.Withdrawal:
		return l.ApplyWithdrawal(r.Tx, r.Client, r.Amount)
	case models.Dispute:
		return l.ApplyDispute(r.Tx, r.Client)
	case models.Resolve:
		return l.ApplyResolve(r.Tx, r.Client)
	case models.Chargeback:
		return l.ApplyChargeback(r.Tx, r.Client)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedRecord, record)
	}
}

// ApplyDeposit credits the client and stores the deposit for later disputes.
// The deposit is stored only when the credit was accepted.
func (l *Ledger) ApplyDeposit(tx models.TransactionID, client models.ClientID, amount models.Amount) error {
	if l.transactions.Contains(tx) {
		return fmt.Errorf("%w (tx = %d)", ErrDuplicateTransaction, tx)
	}

	if err := l.accounts.CreditAvailable(client, amount); err != nil {
		return fmt.Errorf("deposit tx %d: %w", tx, err)
	}

	return l.transactions.Insert(tx, models.StoredTransaction{
		Client: client,
		Amount: amount,
		Status: models.Undisputed,
	})
}

// ApplyWithdrawal debits the client. Withdrawals are never stored.
func (l *Ledger) ApplyWithdrawal(tx models.TransactionID, client models.ClientID, amount models.Amount) error {
	if err := l.accounts.DebitAvailable(client, amount); err != nil {
		return fmt.Errorf("withdrawal tx %d: %w", tx, err)
	}
	return nil
}

// ApplyDispute holds the disputed deposit's amount.
func (l *Ledger) ApplyDispute(tx models.TransactionID, client models.ClientID) error {
	stored, err := l.lookup(tx, client, models.Disputed)
	if err != nil {
		return err
	}

	if err := l.accounts.MoveToHeld(client, stored.Amount); err != nil {
		return fmt.Errorf("dispute tx %d: %w", tx, err)
	}
	return l.transactions.UpdateStatus(tx, models.Disputed)
}

// ApplyResolve releases the held amount of a disputed deposit.
func (l *Ledger) ApplyResolve(tx models.TransactionID, client models.ClientID) error {
	stored, err := l.lookup(tx, client, models.Undisputed)
	if err != nil {
		return err
	}

	if err := l.accounts.MoveToAvailable(client, stored.Amount); err != nil {
		return fmt.Errorf("resolve tx %d: %w", tx, err)
	}
	return l.transactions.UpdateStatus(tx, models.Undisputed)
}

// ApplyChargeback reverses a disputed deposit and locks the account. The
// deposit can never be disputed again.
func (l *Ledger) ApplyChargeback(tx models.TransactionID, client models.ClientID) error {
	stored, err := l.lookup(tx, client, models.ChargedBack)
	if err != nil {
		return err
	}

	if err := l.accounts.ChargeBack(client, stored.Amount); err != nil {
		return fmt.Errorf("chargeback tx %d: %w", tx, err)
	}
	return l.transactions.UpdateStatus(tx, models.ChargedBack)
}

// lookup returns the stored deposit tx if it belongs to client and may move
// to the next status.
func (l *Ledger) lookup(tx models.TransactionID, client models.ClientID, next models.DisputeStatus) (models.StoredTransaction, error) {
	stored, exists := l.transactions.Get(tx)
	if !exists {
		return models.StoredTransaction{}, fmt.Errorf("%w (tx = %d)", ErrUnknownTransaction, tx)
	}
	if stored.Client != client {
		return models.StoredTransaction{}, fmt.Errorf("%w (tx = %d, client = %d)", ErrClientMismatch, tx, client)
	}
	if !stored.Status.CanTransition(next) {
		return models.StoredTransaction{}, fmt.Errorf("%w: %s -> %s (tx = %d)",
			models.ErrInvalidDisputeState, stored.Status, next, tx)
	}
	return stored, nil
}

// Accounts yields the account snapshot in ascending client order.
func (l *Ledger) Accounts() iter.Seq[models.Account] {
	return l.accounts.Snapshot()
}
