// aviation/snapshot.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/mmaddox93/qutescoop/log"
	"github.com/mmaddox93/qutescoop/math"
	"github.com/mmaddox93/qutescoop/util"
)

// Snapshot is the traffic picture at one instant. It is replaced
// wholesale when new data arrives and not modified afterward.
type Snapshot struct {
	Time        time.Time
	Pilots      []*Pilot
	Controllers []*Controller
	Airports    map[string]*Airport
	Fixes       []*Fix
}

// Entities returns everything in the snapshot that can be shown on the
// globe. Inactive airports are only included if requested.
func (s *Snapshot) Entities(showInactiveAirports bool) []Entity {
	if s == nil {
		return nil
	}

	var e []Entity
	for _, p := range s.Pilots {
		e = append(e, p)
	}
	for _, c := range s.Controllers {
		if c.IsOnline() {
			e = append(e, c)
		}
	}
	for _, icao := range util.SortedMapKeys(s.Airports) {
		if ap := s.Airports[icao]; ap.Active || showInactiveAirports {
			e = append(e, ap)
		}
	}
	for _, f := range s.Fixes {
		e = append(e, f)
	}
	return e
}

// VATSIMData is the subset of the VATSIM v3 data feed that we use, plus
// optional "airports" and "fixes" arrays for static data.
type VATSIMData struct {
	General struct {
		Updated time.Time `json:"update_timestamp"`
	} `json:"general"`

	Pilots      []VATSIMPilot      `json:"pilots"`
	Controllers []VATSIMController `json:"controllers"`
	Airports    []VATSIMAirport    `json:"airports,omitempty"`
	Fixes       []VATSIMFix        `json:"fixes,omitempty"`
}

type VATSIMPilot struct {
	CID         int               `json:"cid"`
	Name        string            `json:"name"`
	Callsign    string            `json:"callsign"`
	Latitude    float64           `json:"latitude"`
	Longitude   float64           `json:"longitude"`
	Altitude    int               `json:"altitude"`
	Groundspeed int               `json:"groundspeed"`
	Transponder string            `json:"transponder"`
	Heading     int               `json:"heading"`
	FlightPlan  *VATSIMFlightPlan `json:"flight_plan"`
}

type VATSIMFlightPlan struct {
	Rules         string `json:"flight_rules"`
	AircraftShort string `json:"aircraft_short"`
	Departure     string `json:"departure"`
	Arrival       string `json:"arrival"`
}

type VATSIMController struct {
	CID       int      `json:"cid"`
	Name      string   `json:"name"`
	Callsign  string   `json:"callsign"`
	Frequency string   `json:"frequency"`
	Facility  int      `json:"facility"`
	Rating    int      `json:"rating"`
	ATIS      []string `json:"text_atis"`
	Sectors   []string `json:"sectors,omitempty"`
}

type VATSIMAirport struct {
	ICAO      string  `json:"icao"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type VATSIMFix struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ParseSnapshot decodes a VATSIM-style data file. Airports in the file
// are merged with the given airport database (which is not modified);
// controllers are located at their airports and airport activity is
// computed. Individual bad records are logged and skipped.
func ParseSnapshot(b []byte, airports map[string]*Airport, lg *log.Logger) (*Snapshot, error) {
	var vd VATSIMData
	if err := util.UnmarshalJSONBytes(b, &vd); err != nil {
		return nil, fmt.Errorf("traffic snapshot: %w", err)
	}

	snap := &Snapshot{
		Time:     vd.General.Updated,
		Airports: make(map[string]*Airport),
	}
	for icao, ap := range airports {
		cp := *ap
		snap.Airports[icao] = &cp
	}

	for _, a := range vd.Airports {
		icao := strings.ToUpper(strings.TrimSpace(a.ICAO))
		p := math.LL(a.Latitude, a.Longitude)
		if icao == "" || !p.IsValid() {
			lg.Warn("bad airport record", slog.String("icao", a.ICAO), slog.Any("location", p))
			continue
		}
		snap.Airports[icao] = &Airport{ICAO: icao, Name: util.StopShouting(a.Name), Location: p.Normalize()}
	}

	for _, f := range vd.Fixes {
		p := math.LL(f.Latitude, f.Longitude)
		if f.Name == "" || !p.IsValid() {
			lg.Warn("bad fix record", slog.String("name", f.Name))
			continue
		}
		snap.Fixes = append(snap.Fixes, &Fix{Name: f.Name, Location: p.Normalize()})
	}

	for _, p := range vd.Pilots {
		if p.Callsign == "" {
			lg.Warn("pilot without callsign", slog.Int("cid", p.CID))
			continue
		}
		pilot := &Pilot{
			Callsign:    p.Callsign,
			CID:         p.CID,
			Name:        p.Name,
			Location:    math.LL(p.Latitude, p.Longitude),
			Altitude:    p.Altitude,
			Groundspeed: p.Groundspeed,
			Heading:     p.Heading,
			Transponder: p.Transponder,
		}
		if !pilot.Location.IsValid() {
			lg.Warn("pilot position invalid", slog.String("callsign", p.Callsign))
			continue
		}
		pilot.Location = pilot.Location.Normalize()
		if fp := p.FlightPlan; fp != nil {
			pilot.Rules = fp.Rules
			pilot.AircraftType = fp.AircraftShort
			pilot.Departure = strings.ToUpper(fp.Departure)
			pilot.Arrival = strings.ToUpper(fp.Arrival)
		}
		snap.Pilots = append(snap.Pilots, pilot)
	}

	for _, c := range vd.Controllers {
		freq, err := ParseFrequency(c.Frequency)
		if err != nil {
			lg.Warn("bad controller frequency", slog.String("callsign", c.Callsign), slog.Any("error", err))
		}
		ctrl := NewController(c.Callsign, freq)
		ctrl.CID = c.CID
		ctrl.Name = c.Name
		ctrl.Rating = c.Rating
		ctrl.ATIS = c.ATIS
		ctrl.SectorIDs = c.Sectors
		if ctrl.Facility == FacilityUnknown {
			ctrl.Facility = networkFacility(c.Facility)
		}
		snap.Controllers = append(snap.Controllers, ctrl)
	}

	slices.SortFunc(snap.Pilots, func(a, b *Pilot) int { return strings.Compare(a.Callsign, b.Callsign) })
	slices.SortFunc(snap.Controllers, func(a, b *Controller) int { return strings.Compare(a.Callsign, b.Callsign) })

	LocateControllers(snap.Controllers, snap.Airports)
	MarkActiveAirports(snap.Airports, snap.Pilots, snap.Controllers)

	lg.Info("parsed traffic snapshot", slog.Int("pilots", len(snap.Pilots)),
		slog.Int("controllers", len(snap.Controllers)), slog.Int("airports", len(snap.Airports)))

	return snap, nil
}

// VATSIMData returns the snapshot in the data feed's format, such that
// ParseSnapshot gives back the same traffic. Only active airports are
// included.
func (s *Snapshot) VATSIMData() VATSIMData {
	var vd VATSIMData
	if s == nil {
		return vd
	}
	vd.General.Updated = s.Time

	for _, p := range s.Pilots {
		vp := VATSIMPilot{
			CID:         p.CID,
			Name:        p.Name,
			Callsign:    p.Callsign,
			Latitude:    p.Location.Latitude(),
			Longitude:   p.Location.Longitude(),
			Altitude:    p.Altitude,
			Groundspeed: p.Groundspeed,
			Transponder: p.Transponder,
			Heading:     p.Heading,
		}
		if p.Departure != "" || p.Arrival != "" || p.Rules != "" {
			vp.FlightPlan = &VATSIMFlightPlan{
				Rules:         p.Rules,
				AircraftShort: p.AircraftType,
				Departure:     p.Departure,
				Arrival:       p.Arrival,
			}
		}
		vd.Pilots = append(vd.Pilots, vp)
	}

	for _, c := range s.Controllers {
		vd.Controllers = append(vd.Controllers, VATSIMController{
			CID:       c.CID,
			Name:      c.Name,
			Callsign:  c.Callsign,
			Frequency: c.Frequency.String(),
			Facility:  networkFacilityCode(c.Facility),
			Rating:    c.Rating,
			ATIS:      c.ATIS,
			Sectors:   c.SectorIDs,
		})
	}

	for _, icao := range util.SortedMapKeys(s.Airports) {
		if ap := s.Airports[icao]; ap.Active {
			vd.Airports = append(vd.Airports, VATSIMAirport{
				ICAO:      ap.ICAO,
				Name:      ap.Name,
				Latitude:  ap.Location.Latitude(),
				Longitude: ap.Location.Longitude(),
			})
		}
	}
	for _, f := range s.Fixes {
		vd.Fixes = append(vd.Fixes, VATSIMFix{Name: f.Name, Latitude: f.Location.Latitude(), Longitude: f.Location.Longitude()})
	}
	return vd
}

// networkFacility maps the numeric facility in the VATSIM feed.
func networkFacility(f int) Facility {
	switch f {
	case 0:
		return FacilityObserver
	case 1:
		return FacilityFSS
	case 2:
		return FacilityDelivery
	case 3:
		return FacilityGround
	case 4:
		return FacilityTower
	case 5:
		return FacilityApproach
	case 6:
		return FacilityCenter
	default:
		return FacilityUnknown
	}
}

func networkFacilityCode(f Facility) int {
	switch f {
	case FacilityObserver:
		return 0
	case FacilityFSS:
		return 1
	case FacilityDelivery:
		return 2
	case FacilityGround:
		return 3
	case FacilityTower:
		return 4
	case FacilityApproach, FacilityDeparture:
		return 5
	case FacilityCenter:
		return 6
	default:
		return -1
	}
}
