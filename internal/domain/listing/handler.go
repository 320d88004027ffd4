package listing

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/listora/listora-api/internal/domain/credit"
	"github.com/listora/listora-api/internal/domain/pending"
	"github.com/listora/listora-api/internal/middleware"
	"github.com/listora/listora-api/internal/pkg/response"
	"github.com/listora/listora-api/internal/pkg/validator"
)

// PriceQuote returns the purchase price in cents for one credit of the
// given type in the given listing category. The handler attaches it to
// 402 responses so the client can open checkout without a second call.
type PriceQuote func(category string, t credit.Type) (int64, error)

type Handler struct {
	service Service
	pending *pending.Store
	quote   PriceQuote
}

func NewHandler(service Service, pendingStore *pending.Store, quote PriceQuote) *Handler {
	return &Handler{service: service, pending: pendingStore, quote: quote}
}

func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	// Public: listings are readable without a session
	r.Get("/{id}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.Create)
		r.Get("/", h.ListMine)
		r.Post("/{id}/feature", h.Feature)
	})
	return r
}

type CreateRequest struct {
	Kind        string `json:"kind" validate:"required,listing_kind"`
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"max=5000"`
	Category    string `json:"category" validate:"required,max=100"`
}

type FeatureRequest struct {
	CreditType  string `json:"credit_type" validate:"required,credit_type"`
	DisplayPage string `json:"display_page" validate:"max=100"`
}

// Create handles POST /listings
// @Summary Create a listing
// @Tags Listings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateRequest true "Listing fields"
// @Success 201 {object} response.Response{data=Listing}
// @Failure 422 {object} response.Response
// @Router /listings [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	l := &Listing{
		UserID:      userID.String(),
		Kind:        Kind(req.Kind),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
	}
	if err := h.service.Create(r.Context(), l); err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("create listing failed")
		response.InternalError(w)
		return
	}

	response.Created(w, l)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	l, err := h.service.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		response.NotFound(w, "listing not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("listing_id", id).Msg("get listing failed")
		response.InternalError(w)
		return
	}

	response.OK(w, l)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	ls, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("list listings failed")
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]any{"listings": ls})
}

// Feature handles POST /listings/{id}/feature
// @Summary Spend one credit to promote a listing
// @Description Deducts one credit of the given type and stamps the feature
// @Description window onto the listing. When the balance is empty the
// @Description attempt is remembered and 402 is returned; the client opens
// @Description the purchase flow and the action replays after payment.
// @Tags Listings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Listing ID"
// @Param request body FeatureRequest true "Credit type to consume"
// @Success 200 {object} response.Response{data=Listing}
// @Failure 402 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /listings/{id}/feature [post]
func (h *Handler) Feature(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	listingID := chi.URLParam(r, "id")

	var req FeatureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}
	creditType := credit.Type(req.CreditType)

	err := h.service.Consume(r.Context(), ConsumeRequest{
		UserID:         userID,
		CreditType:     creditType,
		ListingID:      listingID,
		DisplayPage:    req.DisplayPage,
		IdempotencyKey: r.Header.Get("Idempotency-Key"),
	})
	switch {
	case err == nil:
	case errors.Is(err, credit.ErrInsufficientCredit):
		h.pending.Put(r.Context(), userID.String(), creditType, pending.Action{
			ListingID:   listingID,
			DisplayPage: req.DisplayPage,
		})
		details := map[string]string{
			"credit_type": req.CreditType,
			"listing_id":  listingID,
		}
		if h.quote != nil {
			if l, err := h.service.Get(r.Context(), listingID); err == nil {
				if price, err := h.quote(l.Category, creditType); err == nil {
					details["price_cents"] = strconv.FormatInt(price, 10)
				}
			}
		}
		response.PaymentRequired(w, "insufficient credit", details)
		return
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "listing not found")
		return
	case errors.Is(err, ErrNotOwner):
		response.Forbidden(w, "listing belongs to another user")
		return
	case errors.Is(err, ErrKindMismatch), errors.Is(err, credit.ErrUnknownType):
		response.BadRequest(w, err.Error())
		return
	case errors.Is(err, ErrDeactivated):
		response.Conflict(w, "listing is deactivated")
		return
	default:
		log.Error().Err(err).Str("listing_id", listingID).Msg("consume failed")
		response.InternalError(w)
		return
	}

	l, err := h.service.Get(r.Context(), listingID)
	if err != nil {
		log.Error().Err(err).Str("listing_id", listingID).Msg("reload listing failed")
		response.InternalError(w)
		return
	}
	response.OK(w, l)
}
