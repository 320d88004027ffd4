package listing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/listora/listora-api/internal/domain/credit"
)

// ConsumeRequest asks the gate to spend one credit against a listing.
// IdempotencyKey defaults to "<listingID>:<creditType>" so a double-click
// or a pending-action replay of the same feature attempt never charges
// twice.
type ConsumeRequest struct {
	UserID         uuid.UUID
	CreditType     credit.Type
	ListingID      string
	DisplayPage    string
	IdempotencyKey string
}

type Service interface {
	Create(ctx context.Context, l *Listing) error
	Get(ctx context.Context, id string) (*Listing, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Listing, error)

	// Consume is the credit consumption gate: it deducts one credit and
	// stamps the feature window onto the listing in a single transaction.
	// Returns credit.ErrInsufficientCredit when the balance is empty; the
	// caller registers a pending action and opens the purchase flow.
	Consume(ctx context.Context, req ConsumeRequest) error
}

type service struct {
	db      *sqlx.DB
	repo    Repository
	credits credit.Repository
	now     func() time.Time
}

func NewService(db *sqlx.DB, repo Repository, credits credit.Repository) Service {
	return &service{db: db, repo: repo, credits: credits, now: time.Now}
}

func (s *service) Create(ctx context.Context, l *Listing) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if !l.Kind.Valid() {
		return fmt.Errorf("invalid listing kind %q", l.Kind)
	}
	l.FeatureType = FeatureNone
	return s.repo.Create(ctx, l)
}

func (s *service) Get(ctx context.Context, id string) (*Listing, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID) ([]Listing, error) {
	return s.repo.ListByUser(ctx, userID.String())
}

func (s *service) Consume(ctx context.Context, req ConsumeRequest) error {
	l, err := s.repo.GetByID(ctx, req.ListingID)
	if err != nil {
		return err
	}
	if l.UserID != req.UserID.String() {
		return ErrNotOwner
	}
	if l.Deactivated {
		return ErrDeactivated
	}

	plan, err := PlanFor(req.CreditType)
	if err != nil {
		return err
	}
	if !plan.Allows(l.Kind) {
		return fmt.Errorf("%w: %s on %s", ErrKindMismatch, req.CreditType, l.Kind)
	}

	key := req.IdempotencyKey
	if key == "" {
		key = req.ListingID + ":" + string(req.CreditType)
	}

	// Window is computed once here; the stored interval is authoritative
	// and never recomputed on read.
	start, end := Window(plan.FeatureType, s.now())

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin consume tx: %w", err)
	}
	defer tx.Rollback()

	err = s.credits.DeductTx(ctx, tx, req.UserID.String(), req.CreditType, key,
		fmt.Sprintf("consumed on listing %s", req.ListingID))
	if errors.Is(err, credit.ErrAlreadyApplied) {
		log.Info().
			Str("user_id", req.UserID.String()).
			Str("credit_type", string(req.CreditType)).
			Str("idempotency_key", key).
			Msg("consumption replay ignored")
		return nil
	}
	if err != nil {
		return err
	}

	upd := FeatureUpdate{
		FeatureType:     plan.FeatureType,
		Start:           start,
		End:             end,
		BannerPlacement: plan.BannerPlacement,
		DisplayPage:     req.DisplayPage,
	}
	if err := s.repo.ApplyFeatureTx(ctx, tx, req.ListingID, upd); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit consume tx: %w", err)
	}

	log.Info().
		Str("user_id", req.UserID.String()).
		Str("listing_id", req.ListingID).
		Str("credit_type", string(req.CreditType)).
		Time("feature_end", end).
		Msg("credit consumed")
	return nil
}
