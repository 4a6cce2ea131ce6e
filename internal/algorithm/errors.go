package algorithm

import "errors"

var (
	// ErrNoDenominations indicates an empty denomination list.
	ErrNoDenominations = errors.New("algorithm: at least one denomination is required")
	// ErrFirstDenominationNotOne indicates denominations[0] != 1.
	ErrFirstDenominationNotOne = errors.New("algorithm: first denomination must be 1")
	// ErrNonPositiveDenomination indicates a zero or negative denomination.
	ErrNonPositiveDenomination = errors.New("algorithm: denominations must be positive")
	// ErrNegativeAmount indicates a target amount below zero.
	ErrNegativeAmount = errors.New("algorithm: amount must not be negative")
	// ErrTableTooLarge indicates rows*(amount+1) exceeds the configured cell limit.
	ErrTableTooLarge = errors.New("algorithm: cost table exceeds cell limit")
	// ErrIndexOutOfRange indicates a cell lookup outside the table.
	ErrIndexOutOfRange = errors.New("algorithm: table index out of range")
	// ErrTableIncomplete indicates traceback reached a cell that was never computed.
	ErrTableIncomplete = errors.New("algorithm: cost table is not populated")
	// ErrUnknownStrategy indicates an unrecognized fill strategy name.
	ErrUnknownStrategy = errors.New("algorithm: unknown fill strategy")
)
