package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mbakare/eventchain/internal/domain"
	"github.com/mbakare/eventchain/internal/settlement"
)

// FundsLedger settles value-transfer intents against an account table with a
// transfer journal. It joins the transaction of the calling operation, so a
// rejected transfer rolls back every other write of that operation.
type FundsLedger struct {
	pool *pgxpool.Pool
}

func NewFundsLedger(pool *pgxpool.Pool) *FundsLedger {
	return &FundsLedger{pool: pool}
}

func (l *FundsLedger) Transfer(ctx context.Context, from, to domain.Principal, amount int64, memo string) error {
	if amount < 0 {
		return settlement.ErrInvalidAmount
	}
	if amount == 0 {
		return nil
	}

	const debit = `
UPDATE accounts
SET balance = balance - $2
WHERE principal = $1 AND balance >= $2`
	tag, err := exec(ctx, l.pool, debit, string(from), amount)
	if err != nil {
		return fmt.Errorf("debit %s: %w", from, err)
	}
	if tag.RowsAffected() == 0 {
		return settlement.ErrInsufficientFunds
	}

	const credit = `
INSERT INTO accounts (principal, balance)
VALUES ($1, $2)
ON CONFLICT (principal) DO UPDATE SET balance = accounts.balance + EXCLUDED.balance`
	if _, err := exec(ctx, l.pool, credit, string(to), amount); err != nil {
		return fmt.Errorf("credit %s: %w", to, err)
	}

	const journal = `
INSERT INTO transfers (from_principal, to_principal, amount, memo)
VALUES ($1, $2, $3, $4)`
	if _, err := exec(ctx, l.pool, journal, string(from), string(to), amount, memo); err != nil {
		return fmt.Errorf("record transfer: %w", err)
	}
	return nil
}

// Deposit credits an account directly. This is the local faucet for tests and
// development; production balances arrive through the settlement layer.
func (l *FundsLedger) Deposit(ctx context.Context, principal domain.Principal, amount int64) error {
	if amount < 0 {
		return settlement.ErrInvalidAmount
	}
	const stmt = `
INSERT INTO accounts (principal, balance)
VALUES ($1, $2)
ON CONFLICT (principal) DO UPDATE SET balance = accounts.balance + EXCLUDED.balance`
	if _, err := exec(ctx, l.pool, stmt, string(principal), amount); err != nil {
		return fmt.Errorf("deposit: %w", err)
	}
	return nil
}

func (l *FundsLedger) Balance(ctx context.Context, principal domain.Principal) (int64, error) {
	const q = `SELECT balance FROM accounts WHERE principal = $1`
	var balance int64
	err := queryRow(ctx, l.pool, q, string(principal)).Scan(&balance)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return balance, nil
}
