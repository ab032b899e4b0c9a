package memory

import (
	"errors"
	"fmt"

	interfaces "github.com/sheikh-saqib/payments-engine/internal/interfaces"
	"github.com/sheikh-saqib/payments-engine/internal/models"
)

var (
	ErrTransactionExists   = errors.New("memory: transaction already stored")
	ErrTransactionNotFound = errors.New("memory: transaction not found")
)

// TransactionStore keeps disputable deposits in a map for the life of a run.
// Entries are never deleted. Not safe for concurrent use.
type TransactionStore struct {
	transactions map[models.TransactionID]models.StoredTransaction
}

func NewTransactionStore() *TransactionStore {
	return &TransactionStore{
		transactions: make(map[models.TransactionID]models.StoredTransaction),
	}
}

func (s *TransactionStore) Contains(id models.TransactionID) bool {
	_, exists := s.transactions[id]
	return exists
}

// Get returns a copy of the stored transaction.
func (s *TransactionStore) Get(id models.TransactionID) (models.StoredTransaction, bool) {
	tx, exists := s.transactions[id]
	return tx, exists
}

func (s *TransactionStore) Insert(id models.TransactionID, tx models.StoredTransaction) error {
	if _, exists := s.transactions[id]; exists {
		return fmt.Errorf("%w (tx = %d)", ErrTransactionExists, id)
	}
	s.transactions[id] = tx
	return nil
}

// UpdateStatus moves a stored transaction to status. Client and amount are
// left as they were stored.
func (s *TransactionStore) UpdateStatus(id models.TransactionID, status models.DisputeStatus) error {
	tx, exists := s.transactions[id]
	if !exists {
		return fmt.Errorf("%w (tx = %d)", ErrTransactionNotFound, id)
	}
	if !tx.Status.CanTransition(status) {
		return fmt.Errorf("%w: %s -> %s (tx = %d)", models.ErrInvalidDisputeState, tx.Status, status, id)
	}

	tx.Status = status
	s.transactions[id] = tx
	return nil
}

func (s *TransactionStore) Len() int {
	return len(s.transactions)
}

var _ interfaces.TransactionStore = (*TransactionStore)(nil)
