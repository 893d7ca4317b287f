// Package report derives statistics and filtered views from the item and sale
// collections. Everything here is a pure function over slices passed in by
// the caller; the package holds no state between calls.
package report

import (
	"strconv"
	"time"

	"github.com/matejv/posteljnina/internal/model"
)

// FilterAll is the wildcard value that disables a facet.
const FilterAll = "all"

// Filter selects a view of the inventory. A zero value (or FilterAll in each
// facet) selects everything.
type Filter struct {
	SearchTerm string
	Category   string
	Size       string
	Location   string
	Month      string // two-digit month, or "all"
	Year       string // four-digit year
}

// facetMatch reports whether a facet value passes an exact-match filter.
// Empty and "all" disable the filter.
func facetMatch(filter, value string) bool {
	return filter == "" || filter == FilterAll || filter == value
}

// monthMatch reports whether t falls in the given month/year. A zero t never
// matches a concrete month (malformed dates are skipped, not errors).
func monthMatch(t time.Time, month, year string) bool {
	m, err := strconv.Atoi(month)
	if err != nil || t.IsZero() {
		return false
	}
	if int(t.Month()) != m {
		return false
	}
	if year == "" || year == FilterAll {
		return true
	}
	return strconv.Itoa(t.Year()) == year
}

// FilterByIntakeMonth returns the items whose intake date falls in the given
// month/year. The input is returned unchanged when month is "all" or empty.
func FilterByIntakeMonth(items []model.Item, month, year string) []model.Item {
	if month == "" || month == FilterAll {
		return items
	}
	var out []model.Item
	for _, item := range items {
		if monthMatch(item.IntakeDate, month, year) {
			out = append(out, item)
		}
	}
	return out
}

// FilterBySaleMonth returns the sales whose timestamp falls in the given
// month/year. The input is returned unchanged when month is "all" or empty.
func FilterBySaleMonth(sales []model.Sale, month, year string) []model.Sale {
	if month == "" || month == FilterAll {
		return sales
	}
	var out []model.Sale
	for _, sale := range sales {
		if monthMatch(sale.SoldAt, month, year) {
			out = append(out, sale)
		}
	}
	return out
}

// Apply runs the free-text search and the facet filters over the items. The
// search term matches when any of name, code, category, color, supplier or
// location contains it (case-insensitive); the facets are exact matches. All
// predicates are conjunctive, and each is a no-op at its wildcard value, so
// an empty filter is the identity.
func Apply(items []model.Item, f Filter) []model.Item {
	var out []model.Item
	for _, item := range items {
		if !item.Matches(f.SearchTerm) {
			continue
		}
		if !facetMatch(f.Category, item.Category) ||
			!facetMatch(f.Size, item.Size) ||
			!facetMatch(f.Location, item.Location) {
			continue
		}
		out = append(out, item)
	}
	return FilterByIntakeMonth(out, f.Month, f.Year)
}

// ApplySales filters sales by snapshot category and sale month.
func ApplySales(sales []model.Sale, f Filter) []model.Sale {
	var out []model.Sale
	for _, sale := range sales {
		if !facetMatch(f.Category, sale.ItemCategory) {
			continue
		}
		out = append(out, sale)
	}
	return FilterBySaleMonth(out, f.Month, f.Year)
}

// LowStock returns the items at or below their minimum stock threshold.
func LowStock(items []model.Item) []model.Item {
	var out []model.Item
	for _, item := range items {
		if item.LowStock() {
			out = append(out, item)
		}
	}
	return out
}
