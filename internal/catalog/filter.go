package catalog

import (
	"cmp"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/richxcame/moto-showroom/pkg/security"
)

// SortKey selects the listing order
type SortKey string

const (
	SortFeatured   SortKey = "featured"
	SortPriceLow   SortKey = "price-low"
	SortPriceHigh  SortKey = "price-high"
	SortNewest     SortKey = "newest"
	SortEngineSize SortKey = "engine-size"
	SortPower      SortKey = "power"
	SortMileage    SortKey = "mileage"
)

// Default filter bounds, also used by the reset action
const (
	DefaultPriceMax  = 3000000
	DefaultEngineMax = 2000
)

var (
	ErrInvalidSortKey  = errors.New("invalid sort key")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidRange    = errors.New("invalid range")
)

var sortKeys = map[string]SortKey{
	"featured":               SortFeatured,
	"price-low":              SortPriceLow,
	"price-ascending":        SortPriceLow,
	"price-high":             SortPriceHigh,
	"price-descending":       SortPriceHigh,
	"newest":                 SortNewest,
	"engine-size":            SortEngineSize,
	"engine-size-descending": SortEngineSize,
	"power":                  SortPower,
	"power-descending":       SortPower,
	"mileage":                SortMileage,
	"mileage-descending":     SortMileage,
}

// ParseSortKey accepts the storefront names and their long forms. Empty means featured.
func ParseSortKey(raw string) (SortKey, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return SortFeatured, nil
	}
	key, ok := sortKeys[value]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidSortKey, raw)
	}
	return key, nil
}

// Criteria drives ComputeView. Ranges are inclusive.
type Criteria struct {
	Category  Category `json:"category"`
	PriceMin  int      `json:"price_min"`
	PriceMax  int      `json:"price_max"`
	EngineMin int      `json:"engine_min"`
	EngineMax int      `json:"engine_max"`
	Features  []string `json:"features"`
	Search    string   `json:"search"`
	Sort      SortKey  `json:"sort"`
}

// DefaultCriteria returns the reset state of the listing filters
func DefaultCriteria() Criteria {
	return Criteria{
		Category:  CategoryAll,
		PriceMin:  0,
		PriceMax:  DefaultPriceMax,
		EngineMin: 0,
		EngineMax: DefaultEngineMax,
		Features:  []string{},
		Search:    "",
		Sort:      SortFeatured,
	}
}

// ComputeView applies category, price, engine, features and search filters in
// that order, then a stable sort. The input slice is not modified.
func ComputeView(records []Vehicle, c Criteria) []Vehicle {
	query := strings.ToLower(strings.TrimSpace(c.Search))

	out := make([]Vehicle, 0, len(records))
	for _, v := range records {
		if c.Category != "" && c.Category != CategoryAll && v.Category != c.Category {
			continue
		}
		if v.Price < c.PriceMin || v.Price > c.PriceMax {
			continue
		}
		if v.EngineSize < c.EngineMin || v.EngineSize > c.EngineMax {
			continue
		}
		if !hasAllFeatures(v, c.Features) {
			continue
		}
		if query != "" && !matchesSearch(v, query) {
			continue
		}
		out = append(out, v)
	}

	slices.SortStableFunc(out, comparator(c.Sort))
	return out
}

func hasAllFeatures(v Vehicle, features []string) bool {
	for _, f := range features {
		if !v.HasFeature(f) {
			return false
		}
	}
	return true
}

func matchesSearch(v Vehicle, query string) bool {
	return strings.Contains(strings.ToLower(v.Name), query) ||
		strings.Contains(string(v.Category), query) ||
		strings.Contains(strings.ToLower(v.Category.DisplayName()), query)
}

func comparator(key SortKey) func(a, b Vehicle) int {
	switch key {
	case SortPriceLow:
		return func(a, b Vehicle) int { return cmp.Compare(a.Price, b.Price) }
	case SortPriceHigh:
		return func(a, b Vehicle) int { return cmp.Compare(b.Price, a.Price) }
	case SortNewest:
		return func(a, b Vehicle) int { return cmp.Compare(b.Year, a.Year) }
	case SortEngineSize:
		return func(a, b Vehicle) int { return cmp.Compare(b.EngineSize, a.EngineSize) }
	case SortPower:
		return func(a, b Vehicle) int { return cmp.Compare(b.Power, a.Power) }
	case SortMileage:
		return func(a, b Vehicle) int { return cmp.Compare(b.MileageOrZero(), a.MileageOrZero()) }
	default:
		// new first, then most expensive
		return func(a, b Vehicle) int {
			if a.IsNew != b.IsNew {
				if a.IsNew {
					return -1
				}
				return 1
			}
			return cmp.Compare(b.Price, a.Price)
		}
	}
}

// CriteriaFromQuery parses listing query parameters on top of DefaultCriteria.
func CriteriaFromQuery(q url.Values) (Criteria, error) {
	c := DefaultCriteria()

	if raw := q.Get("category"); raw != "" {
		category, ok := ParseCategory(raw)
		if !ok {
			return Criteria{}, fmt.Errorf("%w: %q", ErrInvalidCategory, raw)
		}
		c.Category = category
	}

	bounds := []struct {
		name   string
		target *int
	}{
		{"price_min", &c.PriceMin},
		{"price_max", &c.PriceMax},
		{"engine_min", &c.EngineMin},
		{"engine_max", &c.EngineMax},
	}
	for _, b := range bounds {
		raw := q.Get(b.name)
		if raw == "" {
			continue
		}
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			return Criteria{}, fmt.Errorf("%w: %s", ErrInvalidRange, b.name)
		}
		*b.target = value
	}
	if c.PriceMin > c.PriceMax {
		return Criteria{}, fmt.Errorf("%w: price_min exceeds price_max", ErrInvalidRange)
	}
	if c.EngineMin > c.EngineMax {
		return Criteria{}, fmt.Errorf("%w: engine_min exceeds engine_max", ErrInvalidRange)
	}

	for _, f := range q["feature"] {
		f = strings.TrimSpace(f)
		if f != "" && !slices.Contains(c.Features, f) {
			c.Features = append(c.Features, f)
		}
	}

	c.Search = security.SanitizeSearch(q.Get("search"))

	sort, err := ParseSortKey(q.Get("sort"))
	if err != nil {
		return Criteria{}, err
	}
	c.Sort = sort

	return c, nil
}
