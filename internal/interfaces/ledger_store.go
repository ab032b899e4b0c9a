package interfaces

import (
	"iter"

	"github.com/sheikh-saqib/payments-engine/internal/models"
)

// AccountLedger holds per-client balances and applies validated deltas.
// Refusals are reported as errors and leave the ledger untouched.
type AccountLedger interface {
	CreditAvailable(client models.ClientID, amount models.Amount) error
	DebitAvailable(client models.ClientID, amount models.Amount) error
	MoveToHeld(client models.ClientID, amount models.Amount) error
	MoveToAvailable(client models.ClientID, amount models.Amount) error
	ChargeBack(client models.ClientID, amount models.Amount) error
	Snapshot() iter.Seq[models.Account]
	Len() int
}

// TransactionStore retains disputable deposits keyed by transaction id.
type TransactionStore interface {
	Contains(id models.TransactionID) bool
	Get(id models.TransactionID) (models.StoredTransaction, bool)
	Insert(id models.TransactionID, tx models.StoredTransaction) error
	UpdateStatus(id models.TransactionID, status models.DisputeStatus) error
	Len() int
}
