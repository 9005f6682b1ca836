// aviation/synthetic.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"fmt"
	"time"

	"github.com/mmaddox93/qutescoop/math"
	"github.com/mmaddox93/qutescoop/rand"
	"github.com/mmaddox93/qutescoop/util"
)

var syntheticAirlines = []string{"AAL", "BAW", "DLH", "AFR", "UAL", "QFA", "SIA", "KLM", "JAL", "ACA"}

// SyntheticSnapshot fabricates a snapshot with n pilots flying between
// the given airports and controllers for a random selection of sector
// prefixes and airports, for exercising the globe without a live feed.
// The same seed always gives the same traffic.
func SyntheticSnapshot(r rand.Rand, n int, airports map[string]*Airport, sectors *SectorTable) *Snapshot {
	snap := &Snapshot{
		Time:     time.Now().UTC(),
		Airports: make(map[string]*Airport),
	}
	for icao, ap := range airports {
		cp := *ap
		snap.Airports[icao] = &cp
	}
	icaos := util.SortedMapKeys(snap.Airports)

	for i := range n {
		p := &Pilot{
			Callsign:    fmt.Sprintf("%s%d", rand.SampleSlice(r, syntheticAirlines), 100+i),
			CID:         1000000 + i,
			Altitude:    1000 * (10 + r.Intn(30)),
			Groundspeed: 250 + r.Intn(250),
			Rules:       "I",
		}

		if len(icaos) >= 2 {
			dep, arr := rand.SampleSlice(r, icaos), rand.SampleSlice(r, icaos)
			p.Departure, p.Arrival = dep, arr
			// Somewhere along the great circle between the two.
			a, b := snap.Airports[dep].Location, snap.Airports[arr].Location
			d := math.NMDistance2LL(a, b)
			hdg := math.InitialBearing2LL(a, b)
			p.Location = math.Offset2LL(a, hdg, r.Float64()*d)
			p.Heading = int(hdg)
		} else {
			// Uniformly distributed over the sphere
			lat := math.Degrees(math.SafeASin(r.Range(-1, 1)))
			p.Location = math.LL(lat, r.Range(-180, 180))
			p.Heading = r.Intn(360)
		}
		snap.Pilots = append(snap.Pilots, p)
	}

	freq := NewFrequency(118.0)
	next := func() Frequency {
		freq += 25
		return freq
	}

	seen := make(map[string]bool)
	for _, s := range sectors.Sectors() {
		for _, pre := range s.Prefixes {
			if seen[pre] || r.Intn(2) == 0 {
				continue
			}
			seen[pre] = true
			snap.Controllers = append(snap.Controllers, NewController(pre+"_CTR", next()))
		}
	}
	// A third of the airports, chosen at random, get a tower controller.
	ntwr := (len(icaos) + 2) / 3
	for _, icao := range rand.PermuteSlice(icaos, r.Uint32()) {
		if ntwr == 0 {
			break
		}
		snap.Controllers = append(snap.Controllers, NewController(icao+"_TWR", next()))
		ntwr--
	}

	LocateControllers(snap.Controllers, snap.Airports)
	MarkActiveAirports(snap.Airports, snap.Pilots, snap.Controllers)

	return snap
}
