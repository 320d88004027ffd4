package listing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Create(ctx context.Context, l *Listing) error
	GetByID(ctx context.Context, id string) (*Listing, error)
	ListByUser(ctx context.Context, userID string) ([]Listing, error)
	ApplyFeatureTx(ctx context.Context, tx *sqlx.Tx, id string, upd FeatureUpdate) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, l *Listing) error {
	query := `
		INSERT INTO listings (id, user_id, kind, title, description, category,
			featured, feature_type, deactivated, created_at, updated_at)
		VALUES (:id, :user_id, :kind, :title, :description, :category,
			false, 'none', false, NOW(), NOW())
		RETURNING created_at, updated_at`

	rows, err := r.db.NamedQueryContext(ctx, query, l)
	if err != nil {
		return fmt.Errorf("create listing: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&l.CreatedAt, &l.UpdatedAt); err != nil {
			return fmt.Errorf("create listing: %w", err)
		}
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*Listing, error) {
	var l Listing
	err := r.db.GetContext(ctx, &l,
		`SELECT * FROM listings WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get listing: %w", err)
	}
	return &l, nil
}

func (r *postgresRepository) ListByUser(ctx context.Context, userID string) ([]Listing, error) {
	ls := []Listing{}
	err := r.db.SelectContext(ctx, &ls,
		`SELECT * FROM listings WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	return ls, nil
}

// ApplyFeatureTx stamps the feature window onto a listing inside tx, so the
// write commits or rolls back together with the credit deduction. Banner
// placement and display page are only touched when the plan sets them.
func (r *postgresRepository) ApplyFeatureTx(ctx context.Context, tx *sqlx.Tx, id string, upd FeatureUpdate) error {
	query := `
		UPDATE listings
		SET featured = true,
			feature_type = $2,
			feature_start = $3,
			feature_end = $4,
			banner_placement = COALESCE(NULLIF($5, ''), banner_placement),
			display_page = COALESCE(NULLIF($6, ''), display_page),
			updated_at = NOW()
		WHERE id = $1 AND deactivated = false`

	res, err := tx.ExecContext(ctx, query, id,
		upd.FeatureType, upd.Start, upd.End, string(upd.BannerPlacement), upd.DisplayPage)
	if err != nil {
		return fmt.Errorf("apply feature: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("apply feature: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
