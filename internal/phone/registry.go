// internal/phone/registry.go
package phone

import (
	"sort"
	"strings"
	"sync"
)

// Senegal and Mali have closed numbering plans without a trunk prefix.
var (
	Senegal = Plan{RegionCode: "SN", CountryCode: "221", MaxLocalLength: 9}
	Mali    = Plan{RegionCode: "ML", CountryCode: "223", MaxLocalLength: 8}
)

// Registry resolves a Dialect by ISO region code.
type Registry struct {
	mu       sync.RWMutex
	dialects map[string]Dialect
	fallback Dialect
}

// NewRegistry registers fallback and others. A nil fallback means CoteDIvoire.
func NewRegistry(fallback Dialect, others ...Dialect) *Registry {
	if fallback == nil {
		fallback = CoteDIvoire
	}
	r := &Registry{
		dialects: make(map[string]Dialect),
		fallback: fallback,
	}
	r.Register(fallback)
	for _, d := range others {
		r.Register(d)
	}
	return r
}

// DefaultRegistry knows the storefront's delivery regions, Côte d'Ivoire first.
func DefaultRegistry() *Registry {
	return NewRegistry(CoteDIvoire, Senegal, Mali)
}

func (r *Registry) Register(d Dialect) {
	if d == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dialects[strings.ToUpper(d.Region())] = d
}

func (r *Registry) Lookup(region string) (Dialect, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.dialects[strings.ToUpper(strings.TrimSpace(region))]
	return d, ok
}

// Resolve returns the dialect for region, or the fallback when region is unknown or empty.
func (r *Registry) Resolve(region string) Dialect {
	if d, ok := r.Lookup(region); ok {
		return d
	}
	return r.fallback
}

func (r *Registry) Regions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	regions := make([]string, 0, len(r.dialects))
	for region := range r.dialects {
		regions = append(regions, region)
	}
	sort.Strings(regions)
	return regions
}
