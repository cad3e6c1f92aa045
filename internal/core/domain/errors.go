package domain

import "errors"

var (
	// ErrAccountNotFound means the on-chain account has not been created yet.
	// It is an expected state, not a failure.
	ErrAccountNotFound = errors.New("account does not exist")

	// ErrInconsistentPosition means in-process withdrawals exceed held shares.
	ErrInconsistentPosition = errors.New("in-process withdraw shares exceed current shares")
)
