// aviation/entity.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mmaddox93/qutescoop/math"
)

type EntityKind int

const (
	KindFix EntityKind = iota
	KindPilot
	KindController
	KindAirport
)

func (k EntityKind) String() string {
	switch k {
	case KindFix:
		return "Fix"
	case KindPilot:
		return "Pilot"
	case KindController:
		return "Controller"
	case KindAirport:
		return "Airport"
	default:
		return fmt.Sprintf("EntityKind(%d)", int(k))
	}
}

// Entity is anything with a (possibly unknown) position that can be
// drawn, labeled and picked on the globe.
type Entity interface {
	ID() string
	Kind() EntityKind
	// Position returns false if the entity's location is unknown.
	Position() (math.Point2LL, bool)
	// DisplayPriority orders entities when they compete for label space
	// or are equally close to a pick point; higher wins.
	DisplayPriority() int
	LabelText() string
}

// Display priorities; labels are also ranked by these.
const (
	PriorityFix             = 0
	PriorityInactiveAirport = 1
	PriorityPilot           = 2
	PriorityActiveAirport   = 3
	PriorityController      = 4
)

///////////////////////////////////////////////////////////////////////////
// Pilot

type Pilot struct {
	Callsign     string
	CID          int
	Name         string
	Location     math.Point2LL
	Altitude     int
	Groundspeed  int
	Heading      int
	Transponder  string
	AircraftType string
	Departure    string
	Arrival      string
	Rules        string
}

func (p *Pilot) ID() string       { return p.Callsign }
func (p *Pilot) Kind() EntityKind { return KindPilot }

func (p *Pilot) Position() (math.Point2LL, bool) {
	return p.Location, p.Location.IsValid()
}

func (p *Pilot) DisplayPriority() int { return PriorityPilot }
func (p *Pilot) LabelText() string    { return p.Callsign }

// OnGround is a rough guess based on the reported groundspeed.
func (p *Pilot) OnGround() bool {
	return p.Groundspeed < 50
}

///////////////////////////////////////////////////////////////////////////
// Frequency

// Frequency is a radio frequency in kHz.
type Frequency int

// ObserverFrequency is what observers and inactive positions connect on.
const ObserverFrequency = Frequency(199998)

func NewFrequency(mhz float64) Frequency {
	// 0.5 is important for handling rounding correctly
	return Frequency(mhz*1000 + 0.5)
}

func ParseFrequency(s string) (Frequency, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	var mhz float64
	if _, err := fmt.Sscanf(s, "%f", &mhz); err != nil {
		return 0, fmt.Errorf("%s: invalid frequency: %w", s, err)
	}
	if mhz < 0 || mhz > 1000 {
		return 0, fmt.Errorf("%s: frequency out of range", s)
	}
	return NewFrequency(mhz), nil
}

func (f Frequency) String() string {
	return fmt.Sprintf("%03d.%03d", f/1000, f%1000)
}

///////////////////////////////////////////////////////////////////////////
// Controller

type Facility int

const (
	FacilityUnknown Facility = iota
	FacilityObserver
	FacilityDelivery
	FacilityGround
	FacilityTower
	FacilityApproach
	FacilityDeparture
	FacilityCenter
	FacilityFSS
	FacilityATIS
)

var facilitySuffixes = map[string]Facility{
	"OBS":  FacilityObserver,
	"DEL":  FacilityDelivery,
	"GND":  FacilityGround,
	"TWR":  FacilityTower,
	"APP":  FacilityApproach,
	"DEP":  FacilityDeparture,
	"CTR":  FacilityCenter,
	"FSS":  FacilityFSS,
	"ATIS": FacilityATIS,
}

// FacilityFromCallsign returns the facility implied by a network callsign
// suffix, e.g. EDDF_N_TWR -> FacilityTower.
func FacilityFromCallsign(callsign string) Facility {
	i := strings.LastIndexByte(callsign, '_')
	if i == -1 {
		return FacilityUnknown
	}
	if f, ok := facilitySuffixes[strings.ToUpper(callsign[i+1:])]; ok {
		return f
	}
	return FacilityUnknown
}

func (f Facility) String() string {
	for s, fac := range facilitySuffixes {
		if fac == f {
			return s
		}
	}
	return "???"
}

// IsAirport reports whether the facility controls a single airport or
// its terminal area.
func (f Facility) IsAirport() bool {
	switch f {
	case FacilityDelivery, FacilityGround, FacilityTower, FacilityApproach, FacilityDeparture, FacilityATIS:
		return true
	default:
		return false
	}
}

// IsEnroute reports whether the facility's airspace is given by sector
// polygons rather than by an airport.
func (f Facility) IsEnroute() bool {
	return f == FacilityCenter || f == FacilityFSS
}

type Controller struct {
	Callsign  string
	CID       int
	Name      string
	Frequency Frequency
	Facility  Facility
	Rating    int
	// SectorIDs, if given, name the sectors the controller staffs and
	// take precedence over matching the callsign.
	SectorIDs []string
	ATIS      []string

	// Location is set from the controller's airport, if there is one.
	Location    math.Point2LL
	HasLocation bool
}

// NewController returns a controller with its facility derived from the
// callsign.
func NewController(callsign string, freq Frequency) *Controller {
	return &Controller{
		Callsign:  callsign,
		Frequency: freq,
		Facility:  FacilityFromCallsign(callsign),
	}
}

func (c *Controller) ID() string       { return c.Callsign }
func (c *Controller) Kind() EntityKind { return KindController }

func (c *Controller) Position() (math.Point2LL, bool) {
	return c.Location, c.HasLocation && c.Location.IsValid()
}

func (c *Controller) DisplayPriority() int { return PriorityController }
func (c *Controller) LabelText() string    { return c.Callsign }

// IsOnline reports whether the controller is actually providing service:
// observers and positions on the observer frequency don't count.
func (c *Controller) IsOnline() bool {
	return c.Frequency != 0 && c.Frequency != ObserverFrequency && c.Facility != FacilityObserver
}

func (c *Controller) IsAirportController() bool {
	return c.Facility.IsAirport()
}

// AirportICAO returns the airport part of an airport controller's
// callsign, e.g. EDDF for EDDF_N_TWR.
func (c *Controller) AirportICAO() (string, bool) {
	if !c.IsAirportController() {
		return "", false
	}
	ap, _, ok := strings.Cut(c.Callsign, "_")
	return strings.ToUpper(ap), ok && ap != ""
}

// CallsignPrefixes returns the candidate sector prefixes for the
// callsign, longest first: LON_S_CTR gives LON_S then LON.
func (c *Controller) CallsignPrefixes() []string {
	fields := strings.Split(strings.ToUpper(c.Callsign), "_")
	if len(fields) < 2 {
		return nil
	}
	fields = fields[:len(fields)-1] // drop the facility suffix

	var p []string
	for n := len(fields); n > 0; n-- {
		if pre := strings.Join(fields[:n], "_"); pre != "" {
			p = append(p, pre)
		}
	}
	return p
}

///////////////////////////////////////////////////////////////////////////
// Airport

type Airport struct {
	ICAO     string
	Name     string
	Location math.Point2LL
	// Active is set when the airport has traffic or an online controller.
	Active bool
	// Callsigns of online controllers working the airport, sorted.
	Controllers []string
	Departures  int
	Arrivals    int
}

func (a *Airport) ID() string       { return a.ICAO }
func (a *Airport) Kind() EntityKind { return KindAirport }

func (a *Airport) Position() (math.Point2LL, bool) {
	return a.Location, a.Location.IsValid()
}

func (a *Airport) DisplayPriority() int {
	if a.Active {
		return PriorityActiveAirport
	}
	return PriorityInactiveAirport
}

func (a *Airport) LabelText() string { return a.ICAO }

///////////////////////////////////////////////////////////////////////////
// Fix

type Fix struct {
	Name     string
	Location math.Point2LL
}

func (f *Fix) ID() string       { return f.Name }
func (f *Fix) Kind() EntityKind { return KindFix }

func (f *Fix) Position() (math.Point2LL, bool) {
	return f.Location, f.Location.IsValid()
}

func (f *Fix) DisplayPriority() int { return PriorityFix }
func (f *Fix) LabelText() string    { return f.Name }

///////////////////////////////////////////////////////////////////////////

// LocateControllers gives airport controllers the position of their
// airport. Controllers whose airport is unknown are left unlocated.
func LocateControllers(ctrls []*Controller, airports map[string]*Airport) {
	for _, c := range ctrls {
		if icao, ok := c.AirportICAO(); ok {
			if ap, ok := airports[icao]; ok {
				c.Location, c.HasLocation = ap.Location, true
			}
		}
	}
}

// MarkActiveAirports recomputes the Active flag, traffic counts and
// controller lists of the airports from the given traffic.
func MarkActiveAirports(airports map[string]*Airport, pilots []*Pilot, ctrls []*Controller) {
	for _, ap := range airports {
		ap.Active = false
		ap.Controllers = nil
		ap.Departures, ap.Arrivals = 0, 0
	}

	for _, p := range pilots {
		if ap, ok := airports[strings.ToUpper(p.Departure)]; ok {
			ap.Departures++
			ap.Active = true
		}
		if ap, ok := airports[strings.ToUpper(p.Arrival)]; ok {
			ap.Arrivals++
			ap.Active = true
		}
	}

	for _, c := range ctrls {
		if !c.IsOnline() {
			continue
		}
		if icao, ok := c.AirportICAO(); ok {
			if ap, ok := airports[icao]; ok {
				ap.Controllers = append(ap.Controllers, c.Callsign)
				ap.Active = true
			}
		}
	}

	for _, ap := range airports {
		slices.Sort(ap.Controllers)
	}
}
