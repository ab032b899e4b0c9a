package models

import "errors"

var (
	// ErrAmountOverflow is the only error the engine cannot absorb: an amount
	// literal or sum that does not fit the Amount range.
	ErrAmountOverflow = errors.New("models: amount overflow")
	ErrInvalidAmount  = errors.New("models: invalid amount")

	// ErrMalformedRecord marks an input row that could not be turned into a Record.
	ErrMalformedRecord = errors.New("models: malformed record")

	ErrAccountLocked       = errors.New("models: account is locked")
	ErrAccountNotFound     = errors.New("models: account not found")
	ErrInsufficientFunds   = errors.New("models: insufficient funds")
	ErrInvalidDisputeState = errors.New("models: invalid dispute status transition")
)
