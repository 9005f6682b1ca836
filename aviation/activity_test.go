// aviation/activity_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"slices"
	"testing"

	"github.com/mmaddox93/qutescoop/math"
	"github.com/mmaddox93/qutescoop/rand"
)

// testTable has a London FIR with two nested sub-sectors and a separate
// Langen FIR.
func testTable(t *testing.T) *SectorTable {
	return NewSectorTable([]*Sector{
		mustSector(t, "EGTT", []string{"LON", "EGTT"}, box(-6, 49, 2, 56)),
		mustSector(t, "LON_S", []string{"LON_S"}, box(-2, 50, 1, 52)),
		mustSector(t, "LON_SC", []string{"LON_SC"}, box(-1, 50.5, 0.5, 51.5)),
		mustSector(t, "EDGG", nil, box(6, 49, 10, 51)),
		mustSector(t, "KZNY", []string{"NY"}, box(-75, 39, -70, 42)),
	}, nil)
}

func online(callsign string, sectors ...string) *Controller {
	c := NewController(callsign, NewFrequency(127.1))
	c.SectorIDs = sectors
	return c
}

func TestSectorResolver(t *testing.T) {
	r := NewSectorResolver(testTable(t), 16)

	for _, c := range []struct {
		ctrl *Controller
		ids  []string
	}{
		{online("EDGG_CTR"), []string{"EDGG"}},
		{online("LON_S_CTR"), []string{"LON_S"}},
		{online("LON_CTR"), []string{"EGTT"}},
		{online("LON_X_CTR"), []string{"EGTT"}}, // falls back to the shorter prefix
		{online("EGTT_FSS"), []string{"EGTT"}},
		{online("NY_APP"), []string{"KZNY"}},
		{online("EDDF_TWR"), nil},
		{online("LFFF_CTR"), nil},
		{online("LON_CTR", "EDGG", "LON_SC", "NOPE"), []string{"EDGG", "LON_SC"}},
	} {
		if ids := r.Resolve(c.ctrl); !slices.Equal(ids, c.ids) {
			t.Errorf("%s %v: got %v, expected %v", c.ctrl.Callsign, c.ctrl.SectorIDs, ids, c.ids)
		}
	}

	// Repeated lookups come from the cache.
	n := r.Len()
	r.Resolve(online("EDGG_CTR"))
	if r.Len() != n {
		t.Errorf("cache grew on a repeated lookup")
	}
}

func TestSectorWithoutControllerNeverActive(t *testing.T) {
	sa := NewSectorActivity(testTable(t), nil)

	if sa.Active().Len() != 0 {
		t.Errorf("sectors active with no roster")
	}

	sa.SetRoster([]*Controller{
		NewController("EDGG_CTR", 0),                 // not online
		NewController("EDGG_CTR", ObserverFrequency), // observer frequency
		NewController("EDGG_OBS", NewFrequency(127.1)),
		online("EDDF_TWR"),
		online("ZZZZ_CTR"),
	})
	if a := sa.Active(); a.Len() != 0 {
		t.Errorf("unexpected active sectors %v", a.IDs())
	}

	sa.SetDisplayAllSectors(true)
	if a := sa.Active(); a.Contains("EDGG") {
		t.Errorf("displaying all sectors should not make EDGG active")
	}
	if n := len(sa.SectorsToDraw()); n != 5 {
		t.Errorf("expected all 5 sectors to draw, got %d", n)
	}
}

func TestNestedSectorOwner(t *testing.T) {
	sa := NewSectorActivity(testTable(t), nil)
	sa.SetRoster([]*Controller{
		online("LON_CTR"),
		online("LON_S_CTR"),
		online("LON_SC_CTR"),
		online("EGTT_FSS"),
		online("EDGG_CTR"),
	})

	if ids := sa.Active().IDs(); !slices.Equal(ids, []string{"EDGG", "EGTT", "LON_S", "LON_SC"}) {
		t.Errorf("active %v", ids)
	}

	for _, c := range []struct {
		p          math.Point2LL
		sector     string
		controller string
	}{
		{math.Point2LL{0, 51}, "LON_SC", "LON_SC_CTR"},
		{math.Point2LL{0.8, 51}, "LON_S", "LON_S_CTR"},
		{math.Point2LL{-4, 54}, "EGTT", "EGTT_FSS"},
		{math.Point2LL{8, 50}, "EDGG", "EDGG_CTR"},
	} {
		s, ctrl, ok := sa.Owner(c.p)
		if !ok {
			t.Errorf("%v: no owner", c.p)
			continue
		}
		if s.ID != c.sector || ctrl != c.controller {
			t.Errorf("%v: got %s/%s, expected %s/%s", c.p, s.ID, ctrl, c.sector, c.controller)
		}
	}

	if _, _, ok := sa.Owner(math.Point2LL{-72, 40}); ok {
		t.Errorf("KZNY has no controller and shouldn't own anything")
	}
	if _, _, ok := sa.Owner(math.Point2LL{100, 0}); ok {
		t.Errorf("point outside all sectors has an owner")
	}

	if c := sa.Controllers("EGTT"); !slices.Equal(c, []string{"EGTT_FSS", "LON_CTR"}) {
		t.Errorf("EGTT controllers %v", c)
	}
}

func TestOwnerTieBreak(t *testing.T) {
	tbl := NewSectorTable([]*Sector{
		mustSector(t, "B", nil, box(0, 0, 2, 2)),
		mustSector(t, "A", nil, box(0, 0, 2, 2)),
	}, nil)
	sa := NewSectorActivity(tbl, nil)
	sa.SetRoster([]*Controller{online("B_CTR"), online("A_CTR"), online("Z_CTR", "A")})

	s, ctrl, ok := sa.Owner(math.Point2LL{1, 1})
	if !ok || s.ID != "A" || ctrl != "A_CTR" {
		t.Errorf("got %v %s %v", s, ctrl, ok)
	}
}

func TestActivityMemoization(t *testing.T) {
	sa := NewSectorActivity(testTable(t), nil)
	roster := []*Controller{online("EDGG_CTR"), online("LON_CTR")}
	sa.SetRoster(roster)

	sa.Active()
	g := sa.Generation()
	for range 10 {
		sa.Active()
		sa.SectorsToDraw()
	}
	if sa.Generation() != g {
		t.Errorf("active set recomputed without a change")
	}

	// Same roster in a different order: no recomputation.
	if sa.UpdateRoster([]*Controller{online("LON_CTR"), online("EDGG_CTR")}) {
		t.Errorf("reordered roster reported as changed")
	}
	sa.Active()
	if sa.Generation() != g {
		t.Errorf("recomputed after an equivalent roster")
	}

	if !sa.UpdateRoster([]*Controller{online("EDGG_CTR")}) {
		t.Errorf("changed roster not detected")
	}
	if sa.IsActive("EGTT") || !sa.IsActive("EDGG") || sa.Generation() != g+1 {
		t.Errorf("unexpected state after roster change: gen %d active %v", sa.Generation(), sa.Active().IDs())
	}

	sa.SetDisplayAllSectors(true)
	sa.Active()
	if sa.Generation() != g+2 {
		t.Errorf("display mode toggle should invalidate")
	}
	sa.SetDisplayAllSectors(true)
	sa.Active()
	if sa.Generation() != g+2 {
		t.Errorf("setting the same display mode should not invalidate")
	}

	sa.Invalidate()
	sa.Active()
	if sa.Generation() != g+3 {
		t.Errorf("Invalidate didn't force recomputation")
	}
}

func TestActivityRandomRosters(t *testing.T) {
	tbl := testTable(t)
	r := rand.Make(42)
	callsigns := []string{"EDGG_CTR", "LON_CTR", "LON_S_CTR", "LON_SC_CTR", "NY_APP", "EDDF_TWR", "XXX_CTR"}

	for range 200 {
		var roster []*Controller
		for _, cs := range callsigns {
			switch r.Intn(3) {
			case 0:
				roster = append(roster, online(cs))
			case 1:
				roster = append(roster, NewController(cs, ObserverFrequency))
			}
		}

		sa := NewSectorActivity(tbl, nil)
		sa.SetRoster(roster)
		active := sa.Active()

		// Every active sector has an online controller resolving to it
		// and every online resolvable controller's sector is active.
		resolver := NewSectorResolver(tbl, 0)
		expect := make(map[string]bool)
		for _, c := range roster {
			if c.IsOnline() {
				for _, id := range resolver.Resolve(c) {
					expect[id] = true
				}
			}
		}
		if active.Len() != len(expect) {
			t.Fatalf("active %v, expected %v", active.IDs(), expect)
		}
		for id := range expect {
			if !active.Contains(id) {
				t.Fatalf("%s should be active", id)
			}
		}

		// The owner of a point is always the smallest active sector
		// containing it.
		p := math.Point2LL{r.Range(-8, 12), r.Range(48, 57)}
		if s, _, ok := sa.Owner(p); ok {
			if !s.Contains(p) || !active.Contains(s.ID) {
				t.Fatalf("%v: owner %s doesn't contain it or isn't active", p, s.ID)
			}
			for _, other := range tbl.SectorsAt(p) {
				if active.Contains(other.ID) && other.Area < s.Area {
					t.Fatalf("%v: %s is smaller than owner %s", p, other.ID, s.ID)
				}
			}
		}
	}
}

func TestActivityDegenerateData(t *testing.T) {
	bad := &Sector{ID: "BAD", BaseID: "BAD", Prefixes: []string{"BAD"}}
	tbl := NewSectorTable([]*Sector{bad, mustSector(t, "OK", nil, box(0, 0, 1, 1))}, nil)
	sa := NewSectorActivity(tbl, nil)
	sa.SetRoster([]*Controller{online("BAD_CTR"), online("OK_CTR"), nil})

	if ids := sa.Active().IDs(); !slices.Equal(ids, []string{"OK"}) {
		t.Errorf("active %v", ids)
	}

	// A nil table is treated as empty.
	sa = NewSectorActivity(nil, nil)
	sa.SetRoster([]*Controller{online("OK_CTR")})
	if sa.Active().Len() != 0 || len(sa.SectorsToDraw()) != 0 {
		t.Errorf("empty table has active sectors")
	}
}
