// internal/catalog/state.go
package catalog

import "github.com/babamama/storefront/internal/models"

// PriceChip is a named preset price range.
type PriceChip struct {
	ID    string     `json:"id"`
	Range PriceRange `json:"range"`
}

var priceChips = []PriceChip{
	{ID: "under-5k", Range: PriceRange{Min: 1000, Max: 5000}},
	{ID: "5k-15k", Range: PriceRange{Min: 5000, Max: 15000}},
	{ID: "15k-50k", Range: PriceRange{Min: 15000, Max: 50000}},
	{ID: "premium", Range: PriceRange{Min: 50000, Max: 1000000}},
}

// PriceChips returns the preset chips in display order.
func PriceChips() []PriceChip {
	return append([]PriceChip(nil), priceChips...)
}

func LookupPriceChip(id string) (PriceChip, bool) {
	for _, c := range priceChips {
		if c.ID == id {
			return c, true
		}
	}
	return PriceChip{}, false
}

// Partial carries the fields SetFilters should overwrite; nil fields are kept.
type Partial struct {
	InStockOnly   *bool
	PriceRange    *PriceRange
	Subcategories []string
	SortBy        *SortOption
	PriceChip     *string
}

// State holds the filter configuration of a single catalog view. It is not safe
// for concurrent use; each view owns its own State.
type State struct {
	defaults PriceRange
	cfg      Config
}

func NewState(defaults PriceRange) *State {
	s := &State{defaults: defaults.Normalized()}
	s.Reset()
	return s
}

func NewDefaultState() *State {
	return NewState(DefaultPriceRange)
}

func (s *State) ToggleStockOnly() {
	s.cfg.InStockOnly = !s.cfg.InStockOnly
}

func (s *State) SetSort(by SortOption) {
	s.cfg.SortBy = ParseSortOption(string(by))
}

// SetPriceRange sets an explicit range and drops any chip selection.
func (s *State) SetPriceRange(r PriceRange) {
	s.cfg.PriceRange = r.Normalized()
	s.cfg.PriceChip = ""
}

// SetPriceChip selects a preset range. The empty id clears the chip and keeps
// the current range. An unknown id also clears the chip and reports false.
func (s *State) SetPriceChip(id string) bool {
	if id == "" {
		s.cfg.PriceChip = ""
		return true
	}
	chip, ok := LookupPriceChip(id)
	if !ok {
		s.cfg.PriceChip = ""
		return false
	}
	s.cfg.PriceChip = chip.ID
	s.cfg.PriceRange = chip.Range
	return true
}

func (s *State) ToggleSubcategory(tag string) {
	for i, t := range s.cfg.Subcategories {
		if t == tag {
			s.cfg.Subcategories = append(s.cfg.Subcategories[:i:i], s.cfg.Subcategories[i+1:]...)
			return
		}
	}
	s.cfg.Subcategories = append(s.cfg.Subcategories, tag)
}

// SetFilters overwrites the fields present in p. A chip in p takes precedence
// over a range in p.
func (s *State) SetFilters(p Partial) {
	if p.InStockOnly != nil {
		s.cfg.InStockOnly = *p.InStockOnly
	}
	if p.SortBy != nil {
		s.SetSort(*p.SortBy)
	}
	if p.Subcategories != nil {
		s.cfg.Subcategories = dedupe(p.Subcategories)
	}
	if p.PriceRange != nil {
		s.SetPriceRange(*p.PriceRange)
	}
	if p.PriceChip != nil {
		s.SetPriceChip(*p.PriceChip)
	}
}

func (s *State) Reset() {
	s.cfg = Config{
		PriceRange:    s.defaults,
		Subcategories: []string{},
		SortBy:        SortPopular,
	}
}

// ActiveFilterCount counts the stock, subcategory and price facets, each at most once.
func (s *State) ActiveFilterCount() int {
	n := 0
	if s.cfg.InStockOnly {
		n++
	}
	if len(s.cfg.Subcategories) > 0 {
		n++
	}
	if s.cfg.PriceChip != "" || s.cfg.PriceRange != s.defaults {
		n++
	}
	return n
}

// Config returns a copy the caller may modify freely.
func (s *State) Config() Config {
	return s.cfg.clone()
}

func (s *State) Filter(products []models.Product) []models.Product {
	return Apply(products, s.cfg)
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
