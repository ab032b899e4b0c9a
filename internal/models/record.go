package models

// Record is one parsed input row. The set of implementations is closed:
// Deposit, Withdrawal, Dispute, Resolve and Chargeback. Only Deposit and
// Withdrawal carry an amount.
type Record interface {
	TxID() TransactionID
	ClientID() ClientID
	Kind() string

	isRecord()
}

// Deposit credits a client's available funds.
type Deposit struct {
	Tx     TransactionID
	Client ClientID
	Amount Amount
}

// Withdrawal debits a client's available funds.
type Withdrawal struct {
	Tx     TransactionID
	Client ClientID
	Amount Amount
}

// Dispute contests a prior deposit.
type Dispute struct {
	Tx     TransactionID
	Client ClientID
}

// Resolve settles a dispute in favour of the original deposit.
type Resolve struct {
	Tx     TransactionID
	Client ClientID
}

// Chargeback settles a dispute by reversing the deposit and locking the account.
type Chargeback struct {
	Tx     TransactionID
	Client ClientID
}

func (r Deposit) TxID() TransactionID    { return r.Tx }
func (r Withdrawal) TxID() TransactionID { return r.Tx }
func (r Dispute) TxID() TransactionID    { return r.Tx }
func (r Resolve) TxID() TransactionID    { return r.Tx }
func (r Chargeback) TxID() TransactionID { return r.Tx }

func (r Deposit) ClientID() ClientID    { return r.Client }
func (r Withdrawal) ClientID() ClientID { return r.Client }
func (r Dispute) ClientID() ClientID    { return r.Client }
func (r Resolve) ClientID() ClientID    { return r.Client }
func (r Chargeback) ClientID() ClientID { return r.Client }

func (Deposit) Kind() string    { return "deposit" }
func (Withdrawal) Kind() string { return "withdrawal" }
func (Dispute) Kind() string    { return "dispute" }
func (Resolve) Kind() string    { return "resolve" }
func (Chargeback) Kind() string { return "chargeback" }

func (Deposit) isRecord()    {}
func (Withdrawal) isRecord() {}
func (Dispute) isRecord()    {}
func (Resolve) isRecord()    {}
func (Chargeback) isRecord() {}
