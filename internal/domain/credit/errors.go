package credit

import "errors"

var (
	ErrUnknownType        = errors.New("unknown credit type")
	ErrInsufficientCredit = errors.New("insufficient credit balance")
	ErrAlreadyApplied     = errors.New("ledger entry already applied")
	ErrInvalidAmount      = errors.New("grant amount must be positive")
)
