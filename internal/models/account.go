package models

// Account is a point-in-time view of a client's balances.
type Account struct {
	Client    ClientID
	Available Amount
	Held      Amount
	Locked    bool
}

// Total is always derived from available and held funds, never stored.
// The account ledger keeps available+held within MaxAmount, so the sum
// cannot overflow.
func (a Account) Total() Amount {
	return Amount{d: a.Available.d.Add(a.Held.d)}
}
