package wallet

import "errors"

var (
	// ErrConfiguration aborts startup: missing engine or malformed wallet names.
	ErrConfiguration = errors.New("wallet: invalid configuration")
	// ErrInvalidAmount is returned before any store access.
	ErrInvalidAmount = errors.New("wallet: invalid amount")
	// ErrInsufficientBalance means paid + free is below the requested spend.
	ErrInsufficientBalance = errors.New("wallet: not enough balance")
	// ErrValidation guards absolute balance writes.
	ErrValidation = errors.New("wallet: balance cannot be lower than 0")
	// ErrPersistence covers driver errors and writes that affected no rows.
	ErrPersistence = errors.New("wallet: persistence failure")
	// ErrWalletNotFound is used by callers that resolve wallets by name.
	ErrWalletNotFound = errors.New("wallet: not found")
)
