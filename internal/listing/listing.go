// Package listing filters and orders property lists for display.
package listing

import (
	"sort"
	"strconv"
	"strings"

	"brokerage/internal/models"
)

// SortKey selects the ordering applied by Apply.
type SortKey string

const (
	// SortNewest keeps the input order (callers fetch newest first).
	SortNewest    SortKey = "newest"
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
)

// StatusAll disables the status filter.
const StatusAll = "All"

// Criteria describes a listing query. Zero values mean "no filter".
type Criteria struct {
	Query    string
	Status   string
	MinPrice *float64
	MaxPrice *float64
	Sort     SortKey
}

var sortAliases = map[string]SortKey{
	"":                   SortNewest,
	"newest":             SortNewest,
	"price_asc":          SortPriceAsc,
	"price-asc":          SortPriceAsc,
	"price: low to high": SortPriceAsc,
	"price_desc":         SortPriceDesc,
	"price-desc":         SortPriceDesc,
	"price: high to low": SortPriceDesc,
}

// ParseSort maps a raw sort value onto a SortKey, falling back to SortNewest.
func ParseSort(raw string) SortKey {
	if key, ok := sortAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return key
	}
	return SortNewest
}

// ParseCriteria builds Criteria from raw request values.
// Non-numeric price bounds are treated as absent.
func ParseCriteria(query, status, minPrice, maxPrice, sortKey string) Criteria {
	return Criteria{
		Query:    strings.TrimSpace(query),
		Status:   strings.TrimSpace(status),
		MinPrice: parseBound(minPrice),
		MaxPrice: parseBound(maxPrice),
		Sort:     ParseSort(sortKey),
	}
}

func parseBound(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

// Matches reports whether p satisfies every filter in c.
func (c Criteria) Matches(p models.Property) bool {
	if c.Query != "" {
		q := strings.ToLower(c.Query)
		if !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.Address), q) {
			return false
		}
	}
	if c.Status != "" && c.Status != StatusAll && p.Status != c.Status {
		return false
	}
	if c.MinPrice != nil && p.Price < *c.MinPrice {
		return false
	}
	if c.MaxPrice != nil && p.Price > *c.MaxPrice {
		return false
	}
	return true
}

// Apply returns the properties matching c, ordered by c.Sort.
// The input slice is never modified and the result is never nil.
func Apply(props []models.Property, c Criteria) []models.Property {
	out := make([]models.Property, 0, len(props))
	for _, p := range props {
		if c.Matches(p) {
			out = append(out, p)
		}
	}

	switch c.Sort {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	}
	return out
}
