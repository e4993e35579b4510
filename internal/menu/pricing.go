package menu

import (
	"errors"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"venue/pkg/store"
)

type CurrencyScale int32

const DefaultCurrencyScale CurrencyScale = 2

var ErrPriceInvalid = errors.New("price must be greater than 0")

// NormalizePrice rounds to the currency scale. A price that rounds to zero
// or below is rejected.
func NormalizePrice(p decimal.Decimal, scale CurrencyScale) (decimal.Decimal, error) {
	if scale <= 0 {
		scale = DefaultCurrencyScale
	}
	rounded := p.Round(int32(scale))
	if rounded.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, ErrPriceInvalid
	}
	return rounded, nil
}

type Section struct {
	Category string           `json:"category"`
	Items    []store.MenuItem `json:"items"`
}

// Sections groups items by category, both sorted by name. Unavailable items
// are dropped when onlyAvailable is set.
func Sections(items []store.MenuItem, onlyAvailable bool) []Section {
	byCategory := map[string][]store.MenuItem{}
	for _, it := range items {
		if onlyAvailable && !it.IsAvailable {
			continue
		}
		cat := strings.TrimSpace(it.Category)
		if cat == "" {
			cat = "Other"
		}
		byCategory[cat] = append(byCategory[cat], it)
	}

	out := make([]Section, 0, len(byCategory))
	for cat, list := range byCategory {
		sort.SliceStable(list, func(i, j int) bool {
			return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name)
		})
		out = append(out, Section{Category: cat, Items: list})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}
