package product

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// CategoryAll is the sentinel meaning "no category filter".
const CategoryAll = "all"

// SortOption enumerates the supported catalog orderings.
type SortOption string

const (
	SortNewest    SortOption = "newest"
	SortPriceLow  SortOption = "price-low"
	SortPriceHigh SortOption = "price-high"
	SortNameAsc   SortOption = "name-asc"
	SortNameDesc  SortOption = "name-desc"
)

// IsValid reports whether the sort option is one of the known values.
func (s SortOption) IsValid() bool {
	switch s {
	case SortNewest, SortPriceLow, SortPriceHigh, SortNameAsc, SortNameDesc:
		return true
	}
	return false
}

// CatalogItem is the read-model the browse pipeline operates on. Items are
// assumed to arrive newest-first from the repository.
type CatalogItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Artist      *string         `json:"artist,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	CategoryID  string          `json:"category_id"`
	Stock       int             `json:"stock"`
}

// FilterState holds the full set of browse parameters. Callers own page
// lifecycle: changing any other dimension must reset CurrentPage to 1 before
// deriving, the pipeline does not self-correct an out-of-range page.
type FilterState struct {
	SelectedCategory string
	PriceMin         decimal.Decimal
	PriceMax         decimal.Decimal
	SearchQuery      string
	Sort             SortOption
	CurrentPage      int
	ItemsPerPage     int
}

// Normalize clamps malformed filter input rather than rejecting it.
func (f FilterState) Normalize(defaultPerPage, maxPerPage int) FilterState {
	if f.SelectedCategory == "" {
		f.SelectedCategory = CategoryAll
	}
	if !f.Sort.IsValid() {
		f.Sort = SortNewest
	}
	if f.PriceMin.GreaterThan(f.PriceMax) {
		f.PriceMin, f.PriceMax = f.PriceMax, f.PriceMin
	}
	if f.CurrentPage < 1 {
		f.CurrentPage = 1
	}
	if f.ItemsPerPage < 1 {
		f.ItemsPerPage = defaultPerPage
	}
	if maxPerPage > 0 && f.ItemsPerPage > maxPerPage {
		f.ItemsPerPage = maxPerPage
	}
	return f
}

// BrowseResult is the derived page plus its pagination metadata.
type BrowseResult struct {
	Visible    []CatalogItem
	TotalItems int
	TotalPages int
}

// CoercePrice parses a numeric-looking price string, falling back to zero on
// malformed input so comparisons stay total.
func CoercePrice(value string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// MaxPriceBound returns the upper bound for the price slider: the highest
// price in the set plus the configured slack, so the most expensive item is
// never excluded by a stale hardcoded bound. Zero for an empty set.
func MaxPriceBound(items []CatalogItem, slack int) decimal.Decimal {
	if len(items) == 0 {
		return decimal.Zero
	}
	max := items[0].Price
	for _, item := range items[1:] {
		if item.Price.GreaterThan(max) {
			max = item.Price
		}
	}
	return max.Add(decimal.NewFromInt(int64(slack)))
}

// DeriveVisibleProducts runs the filter/sort/paginate stages in fixed order
// over the loaded catalog. Pure: same inputs always yield the same result.
func DeriveVisibleProducts(items []CatalogItem, state FilterState) BrowseResult {
	filtered := make([]CatalogItem, 0, len(items))
	query := strings.ToLower(strings.TrimSpace(state.SearchQuery))

	for _, item := range items {
		if state.SelectedCategory != CategoryAll && item.CategoryID != state.SelectedCategory {
			continue
		}
		if item.Price.LessThan(state.PriceMin) || item.Price.GreaterThan(state.PriceMax) {
			continue
		}
		if query != "" && !matchesQuery(item, query) {
			continue
		}
		filtered = append(filtered, item)
	}

	sortItems(filtered, state.Sort)

	total := len(filtered)
	perPage := state.ItemsPerPage
	totalPages := 0
	if total > 0 {
		totalPages = (total + perPage - 1) / perPage
	}

	start := (state.CurrentPage - 1) * perPage
	if start >= total {
		return BrowseResult{Visible: []CatalogItem{}, TotalItems: total, TotalPages: totalPages}
	}
	end := start + perPage
	if end > total {
		end = total
	}

	return BrowseResult{Visible: filtered[start:end], TotalItems: total, TotalPages: totalPages}
}

func matchesQuery(item CatalogItem, query string) bool {
	if strings.Contains(strings.ToLower(item.Name), query) {
		return true
	}
	if item.Description != "" && strings.Contains(strings.ToLower(item.Description), query) {
		return true
	}
	if item.Artist != nil && strings.Contains(strings.ToLower(*item.Artist), query) {
		return true
	}
	return false
}

func sortItems(items []CatalogItem, option SortOption) {
	switch option {
	case SortPriceLow:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Price.LessThan(items[j].Price)
		})
	case SortPriceHigh:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Price.GreaterThan(items[j].Price)
		})
	case SortNameAsc:
		c := newCollator()
		sort.SliceStable(items, func(i, j int) bool {
			return c.CompareString(items[i].Name, items[j].Name) < 0
		})
	case SortNameDesc:
		c := newCollator()
		sort.SliceStable(items, func(i, j int) bool {
			return c.CompareString(items[i].Name, items[j].Name) > 0
		})
	default:
		// newest: repository order is already newest-first
	}
}

func newCollator() *collate.Collator {
	return collate.New(language.Und, collate.Loose)
}
