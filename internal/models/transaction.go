package models

// TransactionID identifies a deposit or withdrawal in the input stream.
type TransactionID uint32

// ClientID identifies a client account.
type ClientID uint16

// DisputeStatus is the dispute lifecycle state of a stored deposit.
type DisputeStatus uint8

const (
	Undisputed DisputeStatus = iota
	Disputed
	ChargedBack
)

func (s DisputeStatus) String() string {
	switch s {
	case Undisputed:
		return "undisputed"
	case Disputed:
		return "disputed"
	case ChargedBack:
		return "charged_back"
	default:
		return "unknown"
	}
}

// CanTransition reports whether a stored deposit may move from s to next.
// Undisputed -> Disputed -> Undisputed | ChargedBack; ChargedBack is terminal.
func (s DisputeStatus) CanTransition(next DisputeStatus) bool {
	switch s {
	case Undisputed:
		return next == Disputed
	case Disputed:
		return next == Undisputed || next == ChargedBack
	default:
		return false
	}
}

// StoredTransaction is a deposit retained so it can later be disputed.
// Client and Amount never change once stored; only Status does.
type StoredTransaction struct {
	Client ClientID
	Amount Amount
	Status DisputeStatus
}
