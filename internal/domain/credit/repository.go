package credit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository persists credit balances and the append-only ledger.
//
// All balance mutations go through DeductTx or GrantTx so callers can make
// a deduction or grant atomic with another statement (archiving a purchase
// intent, stamping a feature window on a listing). Non-negativity is
// enforced in SQL; there is no read-then-write window.
type Repository interface {
	GetBalance(ctx context.Context, userID string, t Type) (int, error)
	GetBalances(ctx context.Context, userID string) (map[Type]int, error)
	DeductTx(ctx context.Context, tx *sqlx.Tx, userID string, t Type, referenceID, description string) error
	GrantTx(ctx context.Context, tx *sqlx.Tx, userID string, grants []Grant, txType TxType, referenceID, description string) error
	ListTransactions(ctx context.Context, userID string, p Pagination) ([]Transaction, error)
}

type ledgerRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) GetBalance(ctx context.Context, userID string, t Type) (int, error) {
	var balance int
	err := r.db.GetContext(ctx, &balance,
		`SELECT balance FROM credit_accounts WHERE user_id = $1 AND credit_type = $2`,
		userID, t)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return balance, nil
}

func (r *ledgerRepository) GetBalances(ctx context.Context, userID string) (map[Type]int, error) {
	rows := []struct {
		CreditType Type `db:"credit_type"`
		Balance    int  `db:"balance"`
	}{}
	err := r.db.SelectContext(ctx, &rows,
		`SELECT credit_type, balance FROM credit_accounts WHERE user_id = $1`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("get balances: %w", err)
	}

	balances := make(map[Type]int, len(All()))
	for _, t := range All() {
		balances[t] = 0
	}
	for _, row := range rows {
		balances[row.CreditType] = row.Balance
	}
	return balances, nil
}

// DeductTx spends exactly one credit of the given type inside tx.
//
// The conditional UPDATE is the concurrency guard: two racing deductions of
// a balance of one both reach the UPDATE, but only one matches balance >= 1.
// The other sees zero rows affected and returns ErrInsufficientCredit
// without ever writing a ledger row. When referenceID is non-empty a ledger
// row with the same (tx_type, reference_id) short-circuits the deduction as
// ErrAlreadyApplied, which makes retried consumptions idempotent.
func (r *ledgerRepository) DeductTx(ctx context.Context, tx *sqlx.Tx, userID string, t Type, referenceID, description string) error {
	if referenceID != "" {
		var exists bool
		err := tx.GetContext(ctx, &exists,
			`SELECT EXISTS (
				SELECT 1 FROM credit_transactions
				WHERE tx_type = $1 AND reference_id = $2
			)`, TxTypeConsume, referenceID)
		if err != nil {
			return fmt.Errorf("check ledger reference: %w", err)
		}
		if exists {
			return ErrAlreadyApplied
		}
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE credit_accounts
		 SET balance = balance - 1, updated_at = NOW()
		 WHERE user_id = $1 AND credit_type = $2 AND balance >= 1`,
		userID, t)
	if err != nil {
		return fmt.Errorf("deduct credit: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deduct credit: %w", err)
	}
	if affected == 0 {
		return ErrInsufficientCredit
	}

	if err := insertLedgerRow(ctx, tx, userID, t, -1, TxTypeConsume, referenceID, description); err != nil {
		return err
	}
	return nil
}

// GrantTx increments balances for every grant inside tx and appends the
// matching ledger rows. Accounts are created on first grant.
func (r *ledgerRepository) GrantTx(ctx context.Context, tx *sqlx.Tx, userID string, grants []Grant, txType TxType, referenceID, description string) error {
	for _, g := range grants {
		if g.Amount < 1 {
			return fmt.Errorf("%w: %s %d", ErrInvalidAmount, g.Type, g.Amount)
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO credit_accounts (user_id, credit_type, balance, updated_at)
			 VALUES ($1, $2, $3, NOW())
			 ON CONFLICT (user_id, credit_type)
			 DO UPDATE SET balance = credit_accounts.balance + $3, updated_at = NOW()`,
			userID, g.Type, g.Amount)
		if err != nil {
			return fmt.Errorf("grant credit %s: %w", g.Type, err)
		}
		if err := insertLedgerRow(ctx, tx, userID, g.Type, g.Amount, txType, referenceID, description); err != nil {
			return err
		}
	}
	return nil
}

func (r *ledgerRepository) ListTransactions(ctx context.Context, userID string, p Pagination) ([]Transaction, error) {
	if p.Limit <= 0 || p.Limit > 100 {
		p.Limit = 50
	}
	if p.Offset < 0 {
		p.Offset = 0
	}

	txs := []Transaction{}
	err := r.db.SelectContext(ctx, &txs,
		`SELECT id, user_id, credit_type, amount_delta, tx_type, reference_id, description, created_at
		 FROM credit_transactions
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, p.Limit, p.Offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

func insertLedgerRow(ctx context.Context, tx *sqlx.Tx, userID string, t Type, delta int, txType TxType, referenceID, description string) error {
	var ref any
	if referenceID != "" {
		ref = referenceID
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO credit_transactions (id, user_id, credit_type, amount_delta, tx_type, reference_id, description, created_at)
		 VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, NOW())`,
		userID, t, delta, txType, ref, description)
	if err != nil {
		// Two transactions racing on the same reference both pass the EXISTS
		// pre-check; the loser lands on the partial unique index here.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrAlreadyApplied
		}
		return fmt.Errorf("insert ledger row: %w", err)
	}
	return nil
}
