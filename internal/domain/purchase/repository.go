package purchase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Create(ctx context.Context, intent *Intent) error
	GetByCorrelationID(ctx context.Context, correlationID string) (*Intent, error)
	ListByUser(ctx context.Context, userID string) ([]Intent, error)

	// GetForUpdateTx locks the intent row for the duration of tx. Two
	// concurrent reconciliations of the same correlation id serialize
	// here; the loser re-reads the archived status.
	GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, correlationID string) (*Intent, error)
	ArchiveTx(ctx context.Context, tx *sqlx.Tx, correlationID string) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, intent *Intent) error {
	query := `
		INSERT INTO purchase_intents (correlation_id, user_id, credit_type, quantity,
			category, base_amount_cents, discount_cents, final_amount_cents,
			coupon_code, description, gateway, status, created_at)
		VALUES (:correlation_id, :user_id, :credit_type, :quantity,
			:category, :base_amount_cents, :discount_cents, :final_amount_cents,
			:coupon_code, :description, :gateway, :status, NOW())`

	if _, err := r.db.NamedExecContext(ctx, query, intent); err != nil {
		return fmt.Errorf("create intent: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByCorrelationID(ctx context.Context, correlationID string) (*Intent, error) {
	var intent Intent
	err := r.db.GetContext(ctx, &intent,
		`SELECT * FROM purchase_intents WHERE correlation_id = $1`, correlationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUnknownIntent
	}
	if err != nil {
		return nil, fmt.Errorf("get intent: %w", err)
	}
	return &intent, nil
}

func (r *postgresRepository) ListByUser(ctx context.Context, userID string) ([]Intent, error) {
	intents := []Intent{}
	err := r.db.SelectContext(ctx, &intents,
		`SELECT * FROM purchase_intents WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list intents: %w", err)
	}
	return intents, nil
}

func (r *postgresRepository) GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, correlationID string) (*Intent, error) {
	var intent Intent
	err := tx.GetContext(ctx, &intent,
		`SELECT * FROM purchase_intents WHERE correlation_id = $1 FOR UPDATE`, correlationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUnknownIntent
	}
	if err != nil {
		return nil, fmt.Errorf("lock intent: %w", err)
	}
	return &intent, nil
}

func (r *postgresRepository) ArchiveTx(ctx context.Context, tx *sqlx.Tx, correlationID string) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE purchase_intents
		 SET status = $2, confirmed_at = NOW()
		 WHERE correlation_id = $1 AND status = $3`,
		correlationID, StatusArchived, StatusPending)
	if err != nil {
		return fmt.Errorf("archive intent: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("archive intent: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("archive intent %s: not pending", correlationID)
	}
	return nil
}
