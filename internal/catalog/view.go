// Package catalog holds the storage-free rules of the storefront: how listings
// are filtered, searched and sorted, when sold items expire, and how draft
// descriptions are composed. Nothing here touches the database.
package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"bellashop/internal/domain"
)

type SortOrder string

const (
	SortDefault   SortOrder = "default"
	SortPriceAsc  SortOrder = "price-asc"
	SortPriceDesc SortOrder = "price-desc"
)

// SuggestionLimit caps autocomplete results.
const SuggestionLimit = 8

// ParseSort maps a client sort key to a SortOrder; unknown keys mean default.
func ParseSort(s string) SortOrder {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case SortPriceAsc:
		return SortPriceAsc
	case SortPriceDesc:
		return SortPriceDesc
	}
	return SortDefault
}

// Query is the client-side filter state applied on top of a base listing.
// The zero value matches everything and keeps the base order.
type Query struct {
	Category string
	Search   string
	Sort     SortOrder
}

var folder = cases.Fold()

func fold(s string) string { return folder.String(s) }

// Matches reports whether p passes the category filter and the search term.
func (q Query) Matches(p domain.Product) bool {
	if q.Category != "" && p.Category != q.Category {
		return false
	}
	term := strings.TrimSpace(q.Search)
	if term == "" {
		return true
	}
	term = fold(term)
	return strings.Contains(fold(p.Name), term) || strings.Contains(fold(p.Category), term)
}

// Apply filters and sorts a listing. The input is never modified.
//
// Ties on price keep base order for price-asc and reverse base order for
// price-desc, so the two orders are exact mirrors of each other.
func Apply(products []domain.Product, q Query) []domain.Product {
	idx := make([]int, 0, len(products))
	for i, p := range products {
		if q.Matches(p) {
			idx = append(idx, i)
		}
	}

	switch q.Sort {
	case SortPriceAsc:
		sort.SliceStable(idx, func(a, b int) bool {
			pa, pb := products[idx[a]].Price, products[idx[b]].Price
			if pa != pb {
				return pa < pb
			}
			return idx[a] < idx[b]
		})
	case SortPriceDesc:
		sort.SliceStable(idx, func(a, b int) bool {
			pa, pb := products[idx[a]].Price, products[idx[b]].Price
			if pa != pb {
				return pa > pb
			}
			return idx[a] > idx[b]
		})
	}

	out := make([]domain.Product, len(idx))
	for i, j := range idx {
		out[i] = products[j]
	}
	return out
}

// Suggest returns up to limit names and categories starting with prefix,
// compared case-insensitively. Candidates are taken in listing order (name
// before category for each product) and de-duplicated case-insensitively.
func Suggest(products []domain.Product, prefix string, limit int) []string {
	q := fold(strings.TrimSpace(prefix))
	if q == "" || limit <= 0 {
		return []string{}
	}
	seen := make(map[string]struct{})
	out := []string{}
	for _, p := range products {
		for _, s := range [2]string{p.Name, p.Category} {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			key := fold(s)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			if strings.HasPrefix(key, q) {
				out = append(out, s)
				if len(out) == limit {
					return out
				}
			}
		}
	}
	return out
}

// Categories returns the distinct non-empty categories, sorted.
func Categories(products []domain.Product) []string {
	set := make(map[string]struct{})
	for _, p := range products {
		if c := strings.TrimSpace(p.Category); c != "" {
			set[c] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Tally derives the dashboard counters from a product set.
func Tally(products []domain.Product) domain.Stats {
	st := domain.Stats{Total: len(products)}
	for _, p := range products {
		if p.IsSold() {
			st.Sold++
		}
	}
	st.Available = st.Total - st.Sold
	return st
}
