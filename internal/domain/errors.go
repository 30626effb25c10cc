package domain

import "errors"

var (
	// Validation errors
	ErrInvalidAmount          = errors.New("amount components must not be negative")
	ErrInvalidKind            = errors.New("unknown transaction kind")
	ErrMissingPerson          = errors.New("transaction requires a person")
	ErrMissingCause           = errors.New("transaction requires a cause")
	ErrMissingReference       = errors.New("credit payment requires a credit reference")
	ErrInvalidDeductionSource = errors.New("unknown deduction source")
	ErrInvalidRate            = errors.New("exchange rate must be positive")
	ErrInvalidTolerance       = errors.New("closing tolerance must not be negative")
	ErrMissingUser            = errors.New("a responsible user must be selected")

	// Ledger errors
	ErrEntryNotFound  = errors.New("ledger entry not found")
	ErrEntryImmutable = errors.New("auto-generated ledger entries cannot be modified")
	ErrDuplicateEntry = errors.New("ledger entry already recorded")

	// Credit errors
	ErrCreditNotFound = errors.New("credit not found")
	ErrOverpayment    = errors.New("payment exceeds remaining credit")

	// Workflow errors
	ErrWrongDayState    = errors.New("operation not allowed in current day state")
	ErrGateNotSatisfied = errors.New("counted cash differs from computed net beyond tolerance")
	ErrDayAlreadyClosed = errors.New("daily balance already exists for this branch and date")
	ErrSessionNotFound  = errors.New("no day session for branch")

	// Balance errors
	ErrBalanceNotFound = errors.New("daily balance not found")
)
