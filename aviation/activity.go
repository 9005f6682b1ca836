// aviation/activity.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"log/slog"
	"slices"
	"strconv"

	"github.com/mmaddox93/qutescoop/log"
	"github.com/mmaddox93/qutescoop/math"
	"github.com/mmaddox93/qutescoop/util"
)

// ActiveSectorSet is the set of ids of sectors with at least one online
// controller.
type ActiveSectorSet struct {
	ids map[string]struct{}
}

func (a ActiveSectorSet) Contains(id string) bool {
	_, ok := a.ids[id]
	return ok
}

func (a ActiveSectorSet) Len() int {
	return len(a.ids)
}

// IDs returns the active sector ids in sorted order.
func (a ActiveSectorSet) IDs() []string {
	return util.SortedMapKeys(a.ids)
}

// SectorActivity determines which sectors are staffed by the current
// controller roster. The result is memoized: it is only recomputed after
// the roster or the display mode changes, not every frame.
type SectorActivity struct {
	table    *SectorTable
	resolver *SectorResolver
	lg       *log.Logger

	roster      []*Controller
	fingerprint uint64
	displayAll  bool

	dirty      bool
	generation int
	active     ActiveSectorSet
	// Sorted callsigns of the online controllers staffing each active sector
	staffing map[string][]string
}

func NewSectorActivity(table *SectorTable, lg *log.Logger) *SectorActivity {
	if table == nil {
		table = NewSectorTable(nil, nil)
	}
	return &SectorActivity{
		table:    table,
		resolver: NewSectorResolver(table, 0),
		lg:       lg,
		dirty:    true,
	}
}

func (sa *SectorActivity) Table() *SectorTable {
	return sa.table
}

// SetRoster replaces the controller roster and marks the activity dirty.
func (sa *SectorActivity) SetRoster(ctrls []*Controller) {
	sa.roster = slices.Clone(ctrls)
	sa.fingerprint = rosterFingerprint(ctrls)
	sa.dirty = true
}

// UpdateRoster replaces the roster but only marks the activity dirty if
// something that affects sector activity has changed. It returns true if
// it did.
func (sa *SectorActivity) UpdateRoster(ctrls []*Controller) bool {
	fp := rosterFingerprint(ctrls)
	sa.roster = slices.Clone(ctrls)
	if fp == sa.fingerprint && sa.generation > 0 {
		return false
	}
	sa.fingerprint = fp
	sa.dirty = true
	return true
}

func (sa *SectorActivity) SetDisplayAllSectors(b bool) {
	if b != sa.displayAll {
		sa.displayAll = b
		sa.dirty = true
	}
}

func (sa *SectorActivity) DisplayAllSectors() bool {
	return sa.displayAll
}

// Invalidate forces recomputation on the next query.
func (sa *SectorActivity) Invalidate() {
	sa.dirty = true
}

// Generation is incremented each time the active set is recomputed.
func (sa *SectorActivity) Generation() int {
	return sa.generation
}

// Active returns the active sector set, recomputing it if needed.
func (sa *SectorActivity) Active() ActiveSectorSet {
	if sa.dirty {
		sa.recompute()
	}
	return sa.active
}

func (sa *SectorActivity) IsActive(id string) bool {
	return sa.Active().Contains(id)
}

// Controllers returns the sorted callsigns of the online controllers
// staffing the given sector.
func (sa *SectorActivity) Controllers(id string) []string {
	sa.Active()
	return slices.Clone(sa.staffing[id])
}

func (sa *SectorActivity) recompute() {
	ids := make(map[string]struct{})
	staffing := make(map[string][]string)

	for _, c := range sa.roster {
		if c == nil || !c.IsOnline() {
			continue
		}

		resolved := sa.resolver.Resolve(c)
		if len(resolved) == 0 {
			if !c.IsAirportController() {
				sa.lg.Debug("controller staffs no known sector", slog.String("callsign", c.Callsign))
			}
			continue
		}

		for _, id := range resolved {
			if s, ok := sa.table.Get(id); !ok || !s.Valid() {
				continue
			}
			ids[id] = struct{}{}
			if !slices.Contains(staffing[id], c.Callsign) {
				staffing[id] = append(staffing[id], c.Callsign)
			}
		}
	}

	for id := range staffing {
		slices.Sort(staffing[id])
	}

	sa.active = ActiveSectorSet{ids: ids}
	sa.staffing = staffing
	sa.dirty = false
	sa.generation++

	sa.lg.Debug("sector activity recomputed", slog.Int("active", len(ids)),
		slog.Int("roster", len(sa.roster)), slog.Int("generation", sa.generation))
}

// Owner returns the active sector that controls p, along with the
// controller to show for it. When active sectors nest, the smallest one
// wins, with ties going to the lowest sector id; the controller is the
// one with the lowest callsign.
func (sa *SectorActivity) Owner(p math.Point2LL) (*Sector, string, bool) {
	var best *Sector
	for _, id := range sa.Active().IDs() {
		s, ok := sa.table.Get(id)
		if !ok || !s.Contains(p) {
			continue
		}
		if best == nil || s.Area < best.Area {
			best = s
		}
	}
	if best == nil {
		return nil, "", false
	}
	return best, sa.staffing[best.ID][0], true
}

// SectorsToDraw returns the active sectors or, if all sectors are being
// displayed, every valid sector; in either case in id order.
func (sa *SectorActivity) SectorsToDraw() []*Sector {
	if sa.displayAll {
		return sa.table.Sectors()
	}

	var s []*Sector
	for _, id := range sa.Active().IDs() {
		if sec, ok := sa.table.Get(id); ok {
			s = append(s, sec)
		}
	}
	return s
}

// rosterFingerprint hashes the parts of the roster that sector activity
// depends on, independent of the roster's order.
func rosterFingerprint(ctrls []*Controller) uint64 {
	var keys []string
	for _, c := range ctrls {
		if c == nil || !c.IsOnline() {
			continue
		}
		k := c.Callsign + "|" + strconv.Itoa(int(c.Facility))
		for _, id := range c.SectorIDs {
			k += "|" + id
		}
		keys = append(keys, k)
	}
	slices.Sort(keys)

	h := util.NewHasher()
	h.Add(keys...)
	return h.Sum()
}
