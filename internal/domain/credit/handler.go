package credit

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/listora/listora-api/internal/middleware"
	"github.com/listora/listora-api/internal/pkg/response"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Get("/balance", h.Balance)
	r.Get("/transactions", h.Transactions)
	return r
}

// Balance returns the caller's balance for every credit type, zero-filled
// for types never purchased.
func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	balances, err := h.service.Balances(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("load balances failed")
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]any{"balances": balances})
}

// Transactions returns the caller's ledger history, newest first.
func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	txs, err := h.service.Transactions(r.Context(), userID, Pagination{Limit: limit, Offset: offset})
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("load transactions failed")
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]any{"transactions": txs})
}
