package redis

import (
	"context"
	"strings"
	"testing"
	"time"

	domainlistings "rentcam/internal/domain/listings"
)

func TestCacheKeyCanonical(t *testing.T) {
	minPrice := int64(60000)
	same := int64(60000)
	a := domainlistings.FilterSpec{City: " Douala", MinPrice: &minPrice, Amenities: []string{"WiFi", "Parking"}}
	b := domainlistings.FilterSpec{Type: domainlistings.TypeAll, City: "douala ", MinPrice: &same, Amenities: []string{"parking", "wifi", "WIFI"}}
	if cacheKey(0, a, 24, 0) != cacheKey(0, b, 24, 0) {
		t.Fatalf("equivalent specs produced different keys")
	}

	tests := []struct {
		name string
		key  string
	}{
		{name: "other page", key: cacheKey(0, a, 24, 24)},
		{name: "other limit", key: cacheKey(0, a, 12, 0)},
		{name: "new generation", key: cacheKey(1, a, 24, 0)},
		{name: "other city", key: cacheKey(0, domainlistings.FilterSpec{City: "Yaoundé", MinPrice: &minPrice, Amenities: []string{"WiFi", "Parking"}}, 24, 0)},
		{name: "no price", key: cacheKey(0, domainlistings.FilterSpec{City: "Douala", Amenities: []string{"WiFi", "Parking"}}, 24, 0)},
	}
	base := cacheKey(0, a, 24, 0)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.key == base {
				t.Fatalf("expected distinct key")
			}
		})
	}
}

func TestCacheKeyCarriesGeneration(t *testing.T) {
	key := cacheKey(7, domainlistings.FilterSpec{}, 24, 0)
	if !strings.HasPrefix(key, "rentcam:search:g7:") {
		t.Fatalf("unexpected key %q", key)
	}
}

func TestSetSkipsUnknownGeneration(t *testing.T) {
	cache := NewSearchCache(nil, nil)
	// A nil client would panic if Set tried to write.
	cache.Set(context.Background(), -1, domainlistings.FilterSpec{}, 24, 0, []byte("{}"), time.Minute)
}
