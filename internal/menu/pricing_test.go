package menu

import (
	"testing"

	"github.com/shopspring/decimal"

	"venue/pkg/store"
)

func TestNormalizePrice_RoundsToCents(t *testing.T) {
	got, err := NormalizePrice(decimal.RequireFromString("12.345"), DefaultCurrencyScale)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(decimal.RequireFromString("12.35")) {
		t.Fatalf("expected 12.35, got %s", got)
	}
}

func TestNormalizePrice_RejectsZeroAfterRounding(t *testing.T) {
	for _, in := range []string{"0", "-1", "0.004"} {
		if _, err := NormalizePrice(decimal.RequireFromString(in), DefaultCurrencyScale); err == nil {
			t.Fatalf("expected error for %s", in)
		}
	}
}

func TestSections_GroupsAndSorts(t *testing.T) {
	items := []store.MenuItem{
		{ID: 1, Name: "Wings", Category: "Food", IsAvailable: true},
		{ID: 2, Name: "Lager", Category: "Drinks", IsAvailable: true},
		{ID: 3, Name: "burger", Category: "Food", IsAvailable: true},
		{ID: 4, Name: "Nachos", Category: "Food", IsAvailable: false},
		{ID: 5, Name: "Mystery", IsAvailable: true},
	}

	got := Sections(items, true)
	if len(got) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(got))
	}
	if got[0].Category != "Drinks" || got[1].Category != "Food" || got[2].Category != "Other" {
		t.Fatalf("unexpected order: %+v", got)
	}
	food := got[1].Items
	if len(food) != 2 || food[0].Name != "burger" || food[1].Name != "Wings" {
		t.Fatalf("unexpected food items: %+v", food)
	}

	if all := Sections(items, false); len(all[1].Items) != 3 {
		t.Fatalf("expected unavailable items when onlyAvailable is false")
	}
}
