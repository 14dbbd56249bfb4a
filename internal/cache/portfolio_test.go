package cache

import (
	"testing"

	"github.com/andresuchdata/invopt/internal/domain"
)

func TestComponentFilterHash_Stable(t *testing.T) {
	a := domain.ComponentFilter{
		Categories:  []string{"Seat Material", "Frame"},
		SupplierIDs: []string{"SUP-002", "SUP-001"},
		Status:      domain.StatusCritical,
	}
	b := domain.ComponentFilter{
		Categories:  []string{"Frame", "Seat Material"},
		SupplierIDs: []string{"SUP-001", "SUP-002"},
		Status:      domain.StatusCritical,
	}

	if componentFilterHash(a) != componentFilterHash(b) {
		t.Error("hash should not depend on slice order")
	}
}

func TestComponentFilterHash_Distinguishes(t *testing.T) {
	base := domain.ComponentFilter{Categories: []string{"Frame"}}

	variants := []domain.ComponentFilter{
		{Categories: []string{"Seat Material"}},
		{Categories: []string{"Frame"}, Status: domain.StatusWarning},
		{Categories: []string{"Frame"}, SupplierIDs: []string{"SUP-001"}},
	}

	for i, v := range variants {
		if componentFilterHash(base) == componentFilterHash(v) {
			t.Errorf("variant %d collides with base filter", i)
		}
	}
}

func TestComponentFilterHash_EmptyFilter(t *testing.T) {
	if componentFilterHash(domain.ComponentFilter{}) != "default" {
		t.Error("empty filter should map to the default key")
	}
}

func TestBuildPortfolioKey_Prefix(t *testing.T) {
	key := buildPortfolioKey(domain.ComponentFilter{Status: domain.StatusOK})
	wantPrefix := portfolioKeyPrefix + ":"
	if len(key) <= len(wantPrefix) || key[:len(wantPrefix)] != wantPrefix {
		t.Errorf("key %q missing prefix %q", key, wantPrefix)
	}
}
