package memory

import (
	"fmt"
	"iter"
	"maps"
	"slices"

	interfaces "github.com/sheikh-saqib/payments-engine/internal/interfaces"
	"github.com/sheikh-saqib/payments-engine/internal/models"
)

type accountData struct {
	available models.Amount
	held      models.Amount
	locked    bool
}

// AccountStore is an in-memory implementation of interfaces.AccountLedger.
// It is owned by a single driver and is not safe for concurrent use.
type AccountStore struct {
	accounts map[models.ClientID]*accountData
}

// NewAccountStore creates and returns an empty AccountStore
func NewAccountStore() *AccountStore {
	return &AccountStore{
		accounts: make(map[models.ClientID]*accountData),
	}
}

// CreditAvailable adds amount to the client's available funds, opening the
// account on first credit. Locked accounts refuse the credit.
func (s *AccountStore) CreditAvailable(client models.ClientID, amount models.Amount) error {
	data, exists := s.accounts[client]
	if !exists {
		// amount alone is already range checked by the Amount type
		s.accounts[client] = &accountData{available: amount}
		return nil
	}
	if data.locked {
		return fmt.Errorf("%w (client = %d)", models.ErrAccountLocked, client)
	}

	// available+held must stay representable so Total never overflows
	total := models.Account{Available: data.available, Held: data.held}.Total()
	if _, err := total.Add(amount); err != nil {
		return fmt.Errorf("credit client %d: %w", client, err)
	}

	data.available, _ = data.available.Add(amount)
	return nil
}

// DebitAvailable removes amount from the client's available funds. A debit
// larger than the available funds is refused as a whole.
func (s *AccountStore) DebitAvailable(client models.ClientID, amount models.Amount) error {
	data, err := s.unlocked(client)
	if err != nil {
		return err
	}
	if amount.Cmp(data.available) > 0 {
		return fmt.Errorf("%w (client = %d, available = %s, requested = %s)",
			models.ErrInsufficientFunds, client, data.available, amount)
	}

	data.available = data.available.Sub(amount)
	return nil
}

// MoveToHeld holds up to amount of the available funds.
func (s *AccountStore) MoveToHeld(client models.ClientID, amount models.Amount) error {
	data, err := s.get(client)
	if err != nil {
		return err
	}

	moved := amount.Min(data.available)
	data.available = data.available.Sub(moved)
	data.held, _ = data.held.Add(moved)
	return nil
}

// MoveToAvailable releases up to amount of the held funds.
func (s *AccountStore) MoveToAvailable(client models.ClientID, amount models.Amount) error {
	data, err := s.get(client)
	if err != nil {
		return err
	}

	moved := amount.Min(data.held)
	data.held = data.held.Sub(moved)
	data.available, _ = data.available.Add(moved)
	return nil
}

// ChargeBack destroys up to amount of the held funds and freezes the account.
func (s *AccountStore) ChargeBack(client models.ClientID, amount models.Amount) error {
	data, err := s.get(client)
	if err != nil {
		return err
	}

	data.held = data.held.Sub(amount.Min(data.held))
	data.locked = true
	return nil
}

// Snapshot yields every known account in ascending client order.
func (s *AccountStore) Snapshot() iter.Seq[models.Account] {
	return func(yield func(models.Account) bool) {
		for _, client := range slices.Sorted(maps.Keys(s.accounts)) {
			data := s.accounts[client]
			account := models.Account{
				Client:    client,
				Available: data.available,
				Held:      data.held,
				Locked:    data.locked,
			}
			if !yield(account) {
				return
			}
		}
	}
}

func (s *AccountStore) Len() int {
	return len(s.accounts)
}

func (s *AccountStore) get(client models.ClientID) (*accountData, error) {
	data, exists := s.accounts[client]
	if !exists {
		return nil, fmt.Errorf("%w (client = %d)", models.ErrAccountNotFound, client)
	}
	return data, nil
}

func (s *AccountStore) unlocked(client models.ClientID) (*accountData, error) {
	data, err := s.get(client)
	if err != nil {
		return nil, err
	}
	if data.locked {
		return nil, fmt.Errorf("%w (client = %d)", models.ErrAccountLocked, client)
	}
	return data, nil
}

// Compile-time check: ensure AccountStore implements AccountLedger interface
var _ interfaces.AccountLedger = (*AccountStore)(nil)
