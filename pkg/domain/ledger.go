package domain

import "context"

// Ledger is the value-transfer boundary of the host environment. Transfer
// either completes the movement of amount to the target identity or
// returns an error having moved nothing; the award state machine relies on
// that all-or-nothing contract to keep is_awarded in sync with actual fund
// movement.
type Ledger interface {
	Transfer(ctx context.Context, to AccountID, amount Amount) error
}
