// Package settlement defines the port through which the ledger moves native
// currency between accounts. The core only issues transfer intents; the
// implementation settles them.
package settlement

import (
	"context"
	"errors"

	"github.com/mbakare/eventchain/internal/domain"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("transfer amount must not be negative")
)

// Ledger moves currency between two accounts. Implementations must settle
// within the transaction of the operation that issues the transfer: either
// both commit or neither does. A zero-amount transfer is a no-op.
type Ledger interface {
	Transfer(ctx context.Context, from, to domain.Principal, amount int64, memo string) error
}
