package engine

import "errors"

var (
	// ErrInvalidStrategy indicates a strategy definition that fails
	// validation: unknown category, missing parameters or a binding outside
	// the declared bounds.
	ErrInvalidStrategy = errors.New("invalid strategy definition")

	// ErrInsufficientFunds indicates a buy order whose notional value plus
	// fees exceeds available cash. The ledger is left untouched.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientPosition indicates a sell order exceeding the currently
	// held quantity.
	ErrInsufficientPosition = errors.New("insufficient position")
)
