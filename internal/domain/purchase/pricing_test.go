package purchase

import (
	"errors"
	"testing"

	"github.com/listora/listora-api/internal/domain/credit"
)

func TestPriceForEveryCreditType(t *testing.T) {
	for _, ct := range credit.All() {
		price, err := PriceFor("general", ct)
		if err != nil {
			t.Fatalf("PriceFor(general, %s): %v", ct, err)
		}
		if price <= 0 {
			t.Errorf("PriceFor(general, %s) = %d", ct, price)
		}
	}
}

func TestPriceForCategoryOverride(t *testing.T) {
	base, err := PriceFor("general", credit.TypeFeaturedListing)
	if err != nil {
		t.Fatal(err)
	}
	auction, err := PriceFor("auction", credit.TypeFeaturedListing)
	if err != nil {
		t.Fatal(err)
	}
	if auction <= base {
		t.Fatalf("auction override %d must exceed base %d", auction, base)
	}
}

func TestPriceForCategoryBanner(t *testing.T) {
	price, err := PriceFor("ad", credit.TypeCategoryBanner)
	if err != nil {
		t.Fatal(err)
	}
	if price != 250000 {
		t.Fatalf("category banner = %d cents, want 250000", price)
	}
}

func TestPriceForUnknownType(t *testing.T) {
	_, err := PriceFor("general", credit.Type("vip"))
	if !errors.Is(err, ErrUnknownPrice) {
		t.Fatalf("expected ErrUnknownPrice, got %v", err)
	}
}

func TestFinalAmount(t *testing.T) {
	cases := []struct {
		base, discount, want int64
	}{
		{250000, 25000, 225000},
		{250000, 0, 250000},
		{250000, 250000, 0},
		{250000, 999999, 0},
		{100, 100, 0},
	}

	for _, tc := range cases {
		if got := FinalAmount(tc.base, tc.discount); got != tc.want {
			t.Errorf("FinalAmount(%d, %d) = %d, want %d", tc.base, tc.discount, got, tc.want)
		}
	}
}
