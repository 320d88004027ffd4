package coupon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestValidate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/coupons/validate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		var req ValidateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Code != "SPRING10" || req.Category != "ad" || req.Amount != 250000 {
			t.Errorf("unexpected request %+v", req)
		}

		json.NewEncoder(w).Encode(ValidateResponse{Valid: true, Discount: 25000})
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	out, err := client.Validate(context.Background(), "SPRING10", "ad", 250000)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !out.Valid || out.Discount != 25000 {
		t.Fatalf("unexpected response %+v", out)
	}
}

func TestValidateRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ValidateResponse{Valid: false, Reason: "coupon expired"})
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	out, err := client.Validate(context.Background(), "OLD", "ad", 100000)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if out.Valid || out.Reason != "coupon expired" {
		t.Fatalf("unexpected response %+v", out)
	}
}

func TestValidateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	if _, err := client.Validate(context.Background(), "ANY", "ad", 100000); err == nil {
		t.Fatal("expected error on 500")
	}
}

func TestValidateEmptyCode(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://localhost:1"})
	if _, err := client.Validate(context.Background(), "  ", "ad", 100000); err == nil {
		t.Fatal("expected validation error")
	}
}
