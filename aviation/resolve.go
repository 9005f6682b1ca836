// aviation/resolve.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"slices"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// SectorResolver maps controllers to the ids of the sectors they staff.
// Rosters change only a little from one snapshot to the next, so results
// are kept in an LRU cache keyed by callsign and explicit sector ids.
type SectorResolver struct {
	table *SectorTable
	cache *lru.Cache[string, []string]
}

const defaultResolverCacheSize = 4096

func NewSectorResolver(table *SectorTable, size int) *SectorResolver {
	if size <= 0 {
		size = defaultResolverCacheSize
	}
	c, err := lru.New[string, []string](size)
	if err != nil {
		// Only possible with a non-positive size.
		panic(err)
	}
	return &SectorResolver{table: table, cache: c}
}

// Resolve returns the sorted ids of the sectors staffed by c. Explicit
// sector ids take precedence; otherwise enroute (CTR, FSS) and terminal
// (APP, DEP) callsigns are matched by their longest prefix that some
// sector claims. Anything else resolves to nothing.
func (r *SectorResolver) Resolve(c *Controller) []string {
	key := strings.ToUpper(c.Callsign) + "|" + strings.Join(c.SectorIDs, ",")
	if ids, ok := r.cache.Get(key); ok {
		return ids
	}

	ids := r.resolve(c)
	r.cache.Add(key, ids)
	return ids
}

func (r *SectorResolver) resolve(c *Controller) []string {
	if len(c.SectorIDs) > 0 {
		var ids []string
		for _, id := range c.SectorIDs {
			for _, sid := range r.table.Expand(strings.TrimSpace(id)) {
				if !slices.Contains(ids, sid) {
					ids = append(ids, sid)
				}
			}
		}
		slices.Sort(ids)
		return ids
	}

	switch c.Facility {
	case FacilityCenter, FacilityFSS, FacilityApproach, FacilityDeparture:
		for _, pre := range c.CallsignPrefixes() {
			if ids := r.table.SectorsForPrefix(pre); len(ids) > 0 {
				return slices.Clone(ids)
			}
		}
	}
	return nil
}

// Len returns the number of cached resolutions.
func (r *SectorResolver) Len() int {
	return r.cache.Len()
}
