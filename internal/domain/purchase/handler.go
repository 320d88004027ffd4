package purchase

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	stripesdk "github.com/stripe/stripe-go/v82"

	"github.com/listora/listora-api/internal/domain/credit"
	"github.com/listora/listora-api/internal/middleware"
	"github.com/listora/listora-api/internal/pkg/response"
	"github.com/listora/listora-api/internal/pkg/validator"
)

// WebhookVerifier checks a raw webhook payload signature.
type WebhookVerifier interface {
	VerifyWebhook(payload []byte, signature string) (stripesdk.Event, error)
}

// Handler handles purchase HTTP requests
type Handler struct {
	service  *Service
	verifier WebhookVerifier
}

func NewHandler(service *Service, verifier WebhookVerifier) *Handler {
	return &Handler{service: service, verifier: verifier}
}

func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Post("/", h.Start)
	r.Get("/", h.History)
	r.Get("/{correlationID}", h.GetStatus)
	r.Post("/paypal/{orderID}/capture", h.CapturePayPal)
	return r
}

// WebhookRoutes are mounted outside the authenticated API surface;
// authenticity comes from the gateway signature, not a user session.
func (h *Handler) WebhookRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/stripe", h.StripeWebhook)
	return r
}

type StartPurchaseRequest struct {
	CreditType string `json:"credit_type" validate:"required,credit_type"`
	Quantity   int    `json:"quantity" validate:"omitempty,min=1,max=100"`
	Category   string `json:"category" validate:"required,max=100"`
	CouponCode string `json:"coupon_code" validate:"omitempty,max=64"`
	Gateway    string `json:"gateway" validate:"required,gateway"`
}

// Start handles POST /purchases
// @Summary Start a credit purchase
// @Description Resolves the price, applies an optional coupon, creates the
// @Description gateway checkout object and returns where to send the
// @Description browser. An invalid coupon does not block the purchase; it
// @Description proceeds at full price with the reason in the response.
// @Tags Purchases
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body StartPurchaseRequest true "Purchase parameters"
// @Success 201 {object} response.Response{data=StartResult}
// @Failure 400 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /purchases [post]
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req StartPurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	out, err := h.service.Start(r.Context(), StartRequest{
		UserID:     userID,
		Email:      middleware.GetEmail(r.Context()),
		CreditType: credit.Type(req.CreditType),
		Quantity:   req.Quantity,
		Category:   req.Category,
		CouponCode: req.CouponCode,
		Gateway:    GatewayName(req.Gateway),
	})
	switch {
	case err == nil:
	case errors.Is(err, ErrUnknownPrice), errors.Is(err, ErrUnsupportedGateway):
		response.BadRequest(w, err.Error())
		return
	case errors.Is(err, ErrGatewayRejected):
		response.Error(w, http.StatusBadGateway, "GATEWAY_REJECTED", err.Error())
		return
	default:
		log.Error().Err(err).Str("user_id", userID.String()).Msg("start purchase failed")
		response.InternalError(w)
		return
	}

	response.Created(w, out)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	intents, err := h.service.History(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("purchase history failed")
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]any{"purchases": intents})
}

// GetStatus handles GET /purchases/{correlationID}. The UI polls it after
// the Stripe redirect; the balance flips once the webhook has landed.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	correlationID := chi.URLParam(r, "correlationID")

	intent, err := h.service.Status(r.Context(), userID, correlationID)
	if errors.Is(err, ErrUnknownIntent) {
		response.NotFound(w, "purchase not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("correlation_id", correlationID).Msg("purchase status failed")
		response.InternalError(w)
		return
	}

	response.OK(w, intent)
}

// CapturePayPal handles POST /purchases/paypal/{orderID}/capture
// @Summary Capture an approved PayPal order
// @Description Captures the order server-side and applies the credit in
// @Description the same request. Retrying a captured order is a no-op.
// @Tags Purchases
// @Produce json
// @Security BearerAuth
// @Param orderID path string true "PayPal order ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /purchases/paypal/{orderID}/capture [post]
func (h *Handler) CapturePayPal(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	orderID := chi.URLParam(r, "orderID")

	outcome, err := h.service.CapturePayPal(r.Context(), userID, orderID)
	switch {
	case err == nil:
	case errors.Is(err, ErrUnknownIntent):
		response.NotFound(w, "purchase not found")
		return
	case errors.Is(err, ErrGatewayRejected):
		response.Error(w, http.StatusBadGateway, "GATEWAY_REJECTED", err.Error())
		return
	default:
		log.Error().Err(err).Str("order_id", orderID).Msg("paypal capture failed")
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]string{"outcome": outcome.String()})
}

// StripeWebhook handles POST /webhooks/stripe. Always acknowledges events
// it can never process (bad signature excepted) so Stripe does not retry
// forever; returns 500 only on transient failures worth retrying.
func (h *Handler) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		response.BadRequest(w, "unreadable payload")
		return
	}

	event, err := h.verifier.VerifyWebhook(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		log.Warn().Err(err).Msg("stripe webhook signature rejected")
		response.BadRequest(w, "invalid signature")
		return
	}

	if err := h.service.HandleStripeEvent(r.Context(), event); err != nil {
		log.Error().Err(err).Str("event_id", event.ID).Msg("stripe webhook processing failed")
		response.InternalError(w)
		return
	}

	w.WriteHeader(http.StatusOK)
}
