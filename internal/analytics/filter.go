package analytics

import (
	"sort"

	"strykerscli/pkg/contracts/domain"
)

// Filter restricts sales to the selected categories and opponents. An empty
// selection matches everything.
type Filter struct {
	Categories []domain.SeatingCategory `json:"categories,omitempty"`
	Opponents  []string                 `json:"opponents,omitempty"`
}

// IsEmpty reports whether the filter matches every sale
func (f Filter) IsEmpty() bool {
	return len(f.Categories) == 0 && len(f.Opponents) == 0
}

// Apply returns the matching sales. The input is not modified.
func (f Filter) Apply(sales []domain.Sale) []domain.Sale {
	if f.IsEmpty() {
		return sales
	}

	cats := make(map[domain.SeatingCategory]bool, len(f.Categories))
	for _, c := range f.Categories {
		cats[c] = true
	}
	opps := make(map[string]bool, len(f.Opponents))
	for _, o := range f.Opponents {
		opps[o] = true
	}

	out := make([]domain.Sale, 0, len(sales))
	for _, s := range sales {
		if len(cats) > 0 && !cats[s.Category] {
			continue
		}
		if len(opps) > 0 && !opps[s.Opponent] {
			continue
		}
		out = append(out, s)
	}
	return out
}

// FilterOptions are the values a filter can select from
type FilterOptions struct {
	Categories []domain.SeatingCategory `json:"categories"`
	Opponents  []string                 `json:"opponents"`
}

// AvailableFilters lists the categories (display order) and opponents
// (alphabetical) present in sales
func AvailableFilters(sales []domain.Sale) FilterOptions {
	seenCat := make(map[domain.SeatingCategory]bool)
	seenOpp := make(map[string]bool)
	opts := FilterOptions{Categories: []domain.SeatingCategory{}, Opponents: []string{}}

	for _, s := range sales {
		seenCat[s.Category] = true
		if !seenOpp[s.Opponent] {
			seenOpp[s.Opponent] = true
			opts.Opponents = append(opts.Opponents, s.Opponent)
		}
	}
	for _, c := range domain.SeatingCategories {
		if seenCat[c] {
			opts.Categories = append(opts.Categories, c)
		}
	}
	sort.Strings(opts.Opponents)
	return opts
}
