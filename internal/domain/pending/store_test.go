package pending

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/listora/listora-api/internal/domain/credit"
)

func TestNilClientIsNoop(t *testing.T) {
	s := NewStore(nil)
	ctx := context.Background()

	s.Put(ctx, "user-1", credit.TypeCategoryBanner, Action{ListingID: "ad-1"})
	if _, ok := s.Pop(ctx, "user-1", credit.TypeCategoryBanner); ok {
		t.Fatal("nil store must never return an action")
	}
	s.Clear(ctx, "user-1", credit.TypeCategoryBanner)
}

func TestParseAction(t *testing.T) {
	a := parse("ad-1|homepage")
	if a.ListingID != "ad-1" || a.DisplayPage != "homepage" {
		t.Fatalf("unexpected action %+v", a)
	}

	a = parse("ad-2")
	if a.ListingID != "ad-2" || a.DisplayPage != "" {
		t.Fatalf("unexpected action %+v", a)
	}
}

func TestPutPopRoundTrip(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis not available: %v", err)
	}
	defer client.Close()

	s := NewStore(client)
	s.Put(ctx, "user-2", credit.TypeHomepageBanner, Action{ListingID: "ad-9", DisplayPage: "main"})

	a, ok := s.Pop(ctx, "user-2", credit.TypeHomepageBanner)
	if !ok {
		t.Fatal("expected pending action")
	}
	if a.ListingID != "ad-9" || a.DisplayPage != "main" {
		t.Fatalf("unexpected action %+v", a)
	}

	if _, ok := s.Pop(ctx, "user-2", credit.TypeHomepageBanner); ok {
		t.Fatal("second pop must find nothing")
	}
}
