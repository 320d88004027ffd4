package listing_test

import (
	"testing"
	"time"

	"github.com/listora/listora-api/internal/domain/listing"
)

func TestWindowStandard(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	start, end := listing.Window(listing.FeatureStandard, now)

	if !start.Equal(now) {
		t.Fatalf("start = %v, want %v", start, now)
	}
	if want := now.Add(30 * 24 * time.Hour); !end.Equal(want) {
		t.Fatalf("end = %v, want %v", end, want)
	}
}

func TestWindowFeatured(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	start, end := listing.Window(listing.FeatureFeatured, now)

	if !start.Equal(now) {
		t.Fatalf("start = %v, want %v", start, now)
	}
	if want := now.Add(365 * 24 * time.Hour); !end.Equal(want) {
		t.Fatalf("end = %v, want %v", end, want)
	}
}

func TestWindowDeterminism(t *testing.T) {
	now := time.Now()
	s1, e1 := listing.Window(listing.FeatureStandard, now)
	s2, e2 := listing.Window(listing.FeatureStandard, now)

	if !s1.Equal(s2) || !e1.Equal(e2) {
		t.Fatal("same instant must yield the same window")
	}
}

func TestWindowNone(t *testing.T) {
	now := time.Now()
	start, end := listing.Window(listing.FeatureNone, now)
	if !start.Equal(end) {
		t.Fatal("none must yield an empty window")
	}
}
