package usecase

import "errors"

// Business errors surfaced by the ledger core. The use cases translate them
// into typed HTTP errors but never collapse them into a generic failure: the
// operator UI has to be able to tell an insufficient balance from a duplicate
// click.
var (
	// validation
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrInvalidWindow = errors.New("invalid validity window")

	// conflict / state
	ErrInvalidStateTransition = errors.New("invalid transaction state transition")
	ErrAlreadyProcessed       = errors.New("request already processed")
	ErrPaymentAlreadyConsumed = errors.New("payment already consumed by a permit")
	ErrActivePermitExists     = errors.New("an active permit already exists for this vehicle")
	ErrAlreadyRevoked         = errors.New("permit already revoked")

	// resource
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrWalletLocked       = errors.New("wallet is locked")
	ErrPrerequisiteNotMet = errors.New("vehicle documentation is not complete")

	// not found
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrPaymentNotFound     = errors.New("payment transaction not found")
	ErrPaymentNotCompleted = errors.New("payment transaction is not completed")
	ErrPermitNotFound      = errors.New("permit not found")
	ErrUserNotFound        = errors.New("user not found")
)
