package listing_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/listora/listora-api/internal/domain/credit"
	"github.com/listora/listora-api/internal/domain/listing"
	"github.com/listora/listora-api/internal/domain/pending"
	"github.com/listora/listora-api/internal/middleware"
	"github.com/listora/listora-api/internal/pkg/response"
)

type stubService struct {
	listing    *listing.Listing
	consumeErr error
}

func (s *stubService) Create(ctx context.Context, l *listing.Listing) error { return nil }

func (s *stubService) Get(ctx context.Context, id string) (*listing.Listing, error) {
	if s.listing == nil {
		return nil, listing.ErrNotFound
	}
	return s.listing, nil
}

func (s *stubService) ListByUser(ctx context.Context, userID uuid.UUID) ([]listing.Listing, error) {
	return nil, nil
}

func (s *stubService) Consume(ctx context.Context, req listing.ConsumeRequest) error {
	return s.consumeErr
}

func featureRequest(t *testing.T, listingID, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/listings/"+listingID+"/feature", strings.NewReader(body))

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", listingID)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middleware.UserIDKey, uuid.New())
	return req.WithContext(ctx)
}

func TestFeatureInsufficientCreditQuotesPrice(t *testing.T) {
	svc := &stubService{
		listing:    &listing.Listing{ID: "ad-1", Kind: listing.KindAd, Category: "ad"},
		consumeErr: credit.ErrInsufficientCredit,
	}
	quote := func(category string, ct credit.Type) (int64, error) {
		if category != "ad" || ct != credit.TypeCategoryBanner {
			t.Fatalf("unexpected quote args %s/%s", category, ct)
		}
		return 250000, nil
	}
	h := listing.NewHandler(svc, pending.NewStore(nil), quote)

	req := featureRequest(t, "ad-1", `{"credit_type":"category_banner","display_page":"electronics"}`)
	rec := httptest.NewRecorder()
	h.Feature(rec, req)

	if rec.Code != http.StatusPaymentRequired {
		t.Fatalf("status = %d, want 402", rec.Code)
	}

	var resp response.Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != "INSUFFICIENT_CREDIT" {
		t.Fatalf("unexpected error envelope %+v", resp.Error)
	}
	if resp.Error.Details["price_cents"] != "250000" {
		t.Fatalf("price_cents = %q, want 250000", resp.Error.Details["price_cents"])
	}
	if resp.Error.Details["credit_type"] != "category_banner" || resp.Error.Details["listing_id"] != "ad-1" {
		t.Fatalf("unexpected details %+v", resp.Error.Details)
	}
}

func TestFeatureInsufficientCreditWithoutQuote(t *testing.T) {
	svc := &stubService{
		listing:    &listing.Listing{ID: "ad-2", Kind: listing.KindAd, Category: "ad"},
		consumeErr: credit.ErrInsufficientCredit,
	}
	h := listing.NewHandler(svc, pending.NewStore(nil), nil)

	req := featureRequest(t, "ad-2", `{"credit_type":"category_banner"}`)
	rec := httptest.NewRecorder()
	h.Feature(rec, req)

	if rec.Code != http.StatusPaymentRequired {
		t.Fatalf("status = %d, want 402", rec.Code)
	}

	var resp response.Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if _, ok := resp.Error.Details["price_cents"]; ok {
		t.Fatal("no quote func wired, details must not carry a price")
	}
}
