package purchase

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	stripesdk "github.com/stripe/stripe-go/v82"

	"github.com/listora/listora-api/internal/domain/credit"
	"github.com/listora/listora-api/internal/domain/listing"
	"github.com/listora/listora-api/internal/domain/pending"
	"github.com/listora/listora-api/internal/pkg/notify"
	stripeclient "github.com/listora/listora-api/internal/pkg/stripe"
)

// Config carries the redirect targets for hosted checkout flows.
type Config struct {
	FrontendURL string
	Currency    string
}

// StartRequest opens a purchase flow for one or more credits.
type StartRequest struct {
	UserID     uuid.UUID
	Email      string
	CreditType credit.Type
	Quantity   int
	Category   string
	CouponCode string
	Gateway    GatewayName
}

// StartResult is what the UI needs to continue the flow: where to send the
// browser, and what the charge ended up being after the coupon.
type StartResult struct {
	Gateway          GatewayName `json:"gateway"`
	CorrelationID    string      `json:"correlation_id"`
	RedirectURL      string      `json:"redirect_url"`
	BaseAmountCents  int64       `json:"base_amount_cents"`
	DiscountCents    int64       `json:"discount_cents"`
	FinalAmountCents int64       `json:"final_amount_cents"`
	CouponReason     string      `json:"coupon_reason,omitempty"`
}

type Service struct {
	cfg      Config
	db       *sqlx.DB
	repo     Repository
	credits  credit.Repository
	gate     listing.Service
	pending  *pending.Store
	coupons  CouponValidator
	stripe   StripeGateway
	paypal   PayPalGateway
	notifier notify.Dispatcher
}

func NewService(
	cfg Config,
	db *sqlx.DB,
	repo Repository,
	credits credit.Repository,
	gate listing.Service,
	pendingStore *pending.Store,
	coupons CouponValidator,
	stripeGW StripeGateway,
	paypalGW PayPalGateway,
	notifier notify.Dispatcher,
) *Service {
	if cfg.Currency == "" {
		cfg.Currency = "EUR"
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Service{
		cfg:      cfg,
		db:       db,
		repo:     repo,
		credits:  credits,
		gate:     gate,
		pending:  pendingStore,
		coupons:  coupons,
		stripe:   stripeGW,
		paypal:   paypalGW,
		notifier: notifier,
	}
}

// Start resolves the price, applies the coupon, creates the gateway object
// and only then persists the intent. A gateway failure therefore leaves no
// phantom intent behind; a persist failure after the gateway call is
// logged loudly since the gateway object is orphaned.
func (s *Service) Start(ctx context.Context, req StartRequest) (*StartResult, error) {
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	price, err := PriceFor(req.Category, req.CreditType)
	if err != nil {
		return nil, err
	}
	base := price * int64(req.Quantity)

	// Coupon failure is advisory: the purchase proceeds at full price and
	// the reason is surfaced to the caller.
	var discount int64
	var couponReason string
	if req.CouponCode != "" && s.coupons != nil {
		verdict, err := s.coupons.Validate(ctx, req.CouponCode, req.Category, base)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("coupon", req.CouponCode).Msg("coupon validation unavailable")
			couponReason = "coupon could not be verified"
		case !verdict.Valid:
			couponReason = verdict.Reason
		default:
			discount = verdict.Discount
		}
	}
	final := FinalAmount(base, discount)

	description := fmt.Sprintf("%d x %s (%s)", req.Quantity, req.CreditType, req.Category)

	var correlationID, redirectURL string
	switch req.Gateway {
	case GatewayStripe:
		if s.stripe == nil {
			return nil, fmt.Errorf("%w: stripe not configured", ErrUnsupportedGateway)
		}
		sess, err := s.stripe.CreateCheckoutSession(ctx, stripeclient.CheckoutParams{
			Email:       req.Email,
			AmountCents: final,
			Currency:    s.cfg.Currency,
			Description: description,
			SuccessURL:  s.cfg.FrontendURL + "/purchase/success?session_id={CHECKOUT_SESSION_ID}",
			CancelURL:   s.cfg.FrontendURL + "/purchase/cancelled",
			Metadata: map[string]string{
				"user_id":     req.UserID.String(),
				"credit_type": string(req.CreditType),
				"category":    req.Category,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGatewayRejected, err)
		}
		correlationID, redirectURL = sess.ID, sess.URL
	case GatewayPayPal:
		if s.paypal == nil {
			return nil, fmt.Errorf("%w: paypal not configured", ErrUnsupportedGateway)
		}
		order, err := s.paypal.CreateOrder(ctx, final, s.cfg.Currency, description,
			s.cfg.FrontendURL+"/purchase/paypal/return",
			s.cfg.FrontendURL+"/purchase/cancelled")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGatewayRejected, err)
		}
		correlationID, redirectURL = order.ID, order.ApproveURL
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedGateway, req.Gateway)
	}

	intent := &Intent{
		CorrelationID:    correlationID,
		UserID:           req.UserID.String(),
		CreditType:       req.CreditType,
		Quantity:         req.Quantity,
		Category:         req.Category,
		BaseAmountCents:  base,
		DiscountCents:    discount,
		FinalAmountCents: final,
		Description:      description,
		Gateway:          req.Gateway,
		Status:           StatusPending,
	}
	if req.CouponCode != "" {
		intent.CouponCode = sql.NullString{String: req.CouponCode, Valid: true}
	}
	if err := s.repo.Create(ctx, intent); err != nil {
		log.Error().Err(err).
			Str("correlation_id", correlationID).
			Str("gateway", string(req.Gateway)).
			Msg("gateway object created but intent not persisted")
		return nil, err
	}

	return &StartResult{
		Gateway:          req.Gateway,
		CorrelationID:    correlationID,
		RedirectURL:      redirectURL,
		BaseAmountCents:  base,
		DiscountCents:    discount,
		FinalAmountCents: final,
		CouponReason:     couponReason,
	}, nil
}

// CapturePayPal captures an approved order and reconciles it in the same
// request. Calling it twice is safe: the second capture is rejected by
// PayPal or the second reconciliation lands on an archived intent.
func (s *Service) CapturePayPal(ctx context.Context, userID uuid.UUID, orderID string) (Outcome, error) {
	intent, err := s.repo.GetByCorrelationID(ctx, orderID)
	if err != nil {
		return OutcomeUnknownIntent, err
	}
	if intent.UserID != userID.String() {
		return OutcomeUnknownIntent, ErrUnknownIntent
	}
	if intent.Status == StatusArchived {
		return OutcomeAlreadyApplied, nil
	}
	if s.paypal == nil {
		return OutcomeInvalid, fmt.Errorf("%w: paypal not configured", ErrUnsupportedGateway)
	}

	completed, err := s.paypal.CaptureOrder(ctx, orderID)
	if err != nil {
		// A second capture of an already-captured order errors; if the
		// intent is archived meanwhile the money is accounted for.
		if current, lookupErr := s.repo.GetByCorrelationID(ctx, orderID); lookupErr == nil && current.Status == StatusArchived {
			return OutcomeAlreadyApplied, nil
		}
		return OutcomeInvalid, fmt.Errorf("%w: %v", ErrGatewayRejected, err)
	}
	if !completed {
		return OutcomeInvalid, ErrGatewayRejected
	}

	return s.Reconcile(ctx, orderID)
}

// HandleStripeEvent consumes a verified webhook event. Unknown intents are
// logged and acknowledged so Stripe stops retrying; transient failures
// return an error so it retries.
func (s *Service) HandleStripeEvent(ctx context.Context, event stripesdk.Event) error {
	switch event.Type {
	case "checkout.session.completed", "checkout.session.async_payment_succeeded":
	case "checkout.session.async_payment_failed":
		var session stripesdk.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return fmt.Errorf("decode checkout session: %w", err)
		}
		log.Warn().Str("session_id", session.ID).Msg("async payment failed, intent stays pending")
		return nil
	default:
		return nil
	}

	var session stripesdk.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return fmt.Errorf("decode checkout session: %w", err)
	}

	// A session completes before asynchronous payment methods settle; the
	// money is only confirmed once payment_status reads paid. Unpaid
	// sessions are acknowledged and wait for async_payment_succeeded.
	if session.PaymentStatus != stripesdk.CheckoutSessionPaymentStatusPaid &&
		session.PaymentStatus != stripesdk.CheckoutSessionPaymentStatusNoPaymentRequired {
		log.Info().
			Str("session_id", session.ID).
			Str("payment_status", string(session.PaymentStatus)).
			Msg("session not paid yet, no credit applied")
		return nil
	}

	outcome, err := s.Reconcile(ctx, session.ID)
	if errors.Is(err, ErrUnknownIntent) {
		log.Warn().Str("session_id", session.ID).Msg("webhook for unknown intent ignored")
		return nil
	}
	if err != nil {
		return err
	}

	log.Info().
		Str("session_id", session.ID).
		Str("outcome", outcome.String()).
		Msg("stripe webhook reconciled")
	return nil
}

// Reconcile converts a payment confirmation into the ledger increment,
// exactly once per intent. The intent row lock serializes concurrent
// deliveries; the loser observes the archived status and no-ops. After a
// first-time apply the matching pending action is replayed.
func (s *Service) Reconcile(ctx context.Context, correlationID string) (Outcome, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return OutcomeInvalid, fmt.Errorf("begin reconcile tx: %w", err)
	}
	defer tx.Rollback()

	intent, err := s.repo.GetForUpdateTx(ctx, tx, correlationID)
	if errors.Is(err, ErrUnknownIntent) {
		return OutcomeUnknownIntent, err
	}
	if err != nil {
		return OutcomeInvalid, err
	}
	if intent.Status == StatusArchived {
		return OutcomeAlreadyApplied, nil
	}

	grants := credit.Grants(intent.CreditType, intent.Quantity)
	err = s.credits.GrantTx(ctx, tx, intent.UserID, grants, credit.TxTypePurchase,
		correlationID, intent.Description)
	if err != nil {
		return OutcomeInvalid, err
	}
	if err := s.repo.ArchiveTx(ctx, tx, correlationID); err != nil {
		return OutcomeInvalid, err
	}
	if err := tx.Commit(); err != nil {
		return OutcomeInvalid, fmt.Errorf("commit reconcile tx: %w", err)
	}

	log.Info().
		Str("correlation_id", correlationID).
		Str("user_id", intent.UserID).
		Str("credit_type", string(intent.CreditType)).
		Int("quantity", intent.Quantity).
		Msg("purchase reconciled")

	s.notifier.Dispatch(notify.Event{
		UserID:  intent.UserID,
		Kind:    notify.KindPurchaseApplied,
		Message: fmt.Sprintf("Your purchase of %s is complete", intent.Description),
	})

	s.resolvePending(ctx, intent, grants)
	return OutcomeApplied, nil
}

// resolvePending replays the consumption that was blocked before this
// purchase, for every credit type the purchase granted. A failed replay
// (listing gone meanwhile) leaves the credit banked for manual use.
func (s *Service) resolvePending(ctx context.Context, intent *Intent, grants []credit.Grant) {
	if s.pending == nil || s.gate == nil {
		return
	}
	userID, err := uuid.Parse(intent.UserID)
	if err != nil {
		return
	}

	for _, g := range grants {
		action, ok := s.pending.Pop(ctx, intent.UserID, g.Type)
		if !ok {
			continue
		}

		err := s.gate.Consume(ctx, listing.ConsumeRequest{
			UserID:      userID,
			CreditType:  g.Type,
			ListingID:   action.ListingID,
			DisplayPage: action.DisplayPage,
		})
		if err != nil {
			log.Warn().Err(err).
				Str("user_id", intent.UserID).
				Str("listing_id", action.ListingID).
				Str("credit_type", string(g.Type)).
				Msg("pending action replay failed, credit kept")
			s.notifier.Dispatch(notify.Event{
				UserID:  intent.UserID,
				Kind:    notify.KindReplayFailed,
				Message: "Your purchased credit is available, but the original action could not be completed",
			})
			continue
		}

		log.Info().
			Str("user_id", intent.UserID).
			Str("listing_id", action.ListingID).
			Str("credit_type", string(g.Type)).
			Msg("pending action replayed")
	}
}

// Status returns the intent for a correlation id, scoped to its owner.
// The UI polls this after the checkout redirect until the webhook lands.
func (s *Service) Status(ctx context.Context, userID uuid.UUID, correlationID string) (*Intent, error) {
	intent, err := s.repo.GetByCorrelationID(ctx, correlationID)
	if err != nil {
		return nil, err
	}
	if intent.UserID != userID.String() {
		return nil, ErrUnknownIntent
	}
	return intent, nil
}

// History lists the caller's purchase intents, newest first.
func (s *Service) History(ctx context.Context, userID uuid.UUID) ([]Intent, error) {
	return s.repo.ListByUser(ctx, userID.String())
}
