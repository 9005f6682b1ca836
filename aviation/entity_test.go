// aviation/entity_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"slices"
	"testing"

	"github.com/mmaddox93/qutescoop/math"
)

func TestFacilityFromCallsign(t *testing.T) {
	for _, c := range []struct {
		callsign string
		fac      Facility
		airport  bool
	}{
		{"EDDF_N_TWR", FacilityTower, true},
		{"EDDF_DEL", FacilityDelivery, true},
		{"KJFK_GND", FacilityGround, true},
		{"NY_CAM_APP", FacilityApproach, true},
		{"EGLL_ATIS", FacilityATIS, true},
		{"LON_S_CTR", FacilityCenter, false},
		{"EGTT_FSS", FacilityFSS, false},
		{"JOHN_OBS", FacilityObserver, false},
		{"DLH123", FacilityUnknown, false},
		{"lon_ctr", FacilityCenter, false},
	} {
		f := FacilityFromCallsign(c.callsign)
		if f != c.fac {
			t.Errorf("%s: got facility %v, expected %v", c.callsign, f, c.fac)
		}
		if f.IsAirport() != c.airport {
			t.Errorf("%s: IsAirport %v", c.callsign, f.IsAirport())
		}
	}
}

func TestFrequency(t *testing.T) {
	for _, c := range []struct {
		s   string
		f   Frequency
		err bool
	}{
		{"118.100", 118100, false},
		{"199.998", ObserverFrequency, false},
		{"121.5", 121500, false},
		{"", 0, false},
		{"abc", 0, true},
		{"-5", 0, true},
	} {
		f, err := ParseFrequency(c.s)
		if (err != nil) != c.err {
			t.Errorf("%q: error %v", c.s, err)
		}
		if err == nil && f != c.f {
			t.Errorf("%q: got %d, expected %d", c.s, f, c.f)
		}
	}
	if s := Frequency(118100).String(); s != "118.100" {
		t.Errorf("String gave %q", s)
	}
}

func TestControllerOnline(t *testing.T) {
	for _, c := range []struct {
		ctrl   *Controller
		online bool
	}{
		{NewController("EDGG_CTR", NewFrequency(124.725)), true},
		{NewController("EDGG_CTR", 0), false},
		{NewController("EDGG_CTR", ObserverFrequency), false},
		{NewController("JOHN_OBS", NewFrequency(124.725)), false},
	} {
		if c.ctrl.IsOnline() != c.online {
			t.Errorf("%s on %s: IsOnline %v", c.ctrl.Callsign, c.ctrl.Frequency, !c.online)
		}
	}
}

func TestCallsignPrefixes(t *testing.T) {
	for _, c := range []struct {
		callsign string
		prefixes []string
	}{
		{"LON_S_CTR", []string{"LON_S", "LON"}},
		{"EDGG_CTR", []string{"EDGG"}},
		{"NY_CAM_APP", []string{"NY_CAM", "NY"}},
		{"DLH123", nil},
		{"_CTR", nil},
	} {
		if p := NewController(c.callsign, 0).CallsignPrefixes(); !slices.Equal(p, c.prefixes) {
			t.Errorf("%s: got %v, expected %v", c.callsign, p, c.prefixes)
		}
	}
}

func TestEntityPositions(t *testing.T) {
	p := &Pilot{Callsign: "DLH1", Location: math.Point2LL{8.5, 50}}
	if _, ok := p.Position(); !ok {
		t.Errorf("pilot with valid position reported none")
	}
	p.Location = math.Point2LL{8.5, 120}
	if _, ok := p.Position(); ok {
		t.Errorf("pilot with latitude 120 reported a position")
	}

	c := NewController("EDGG_CTR", NewFrequency(124.725))
	if _, ok := c.Position(); ok {
		t.Errorf("unlocated controller reported a position")
	}

	ap := &Airport{ICAO: "EDDF", Location: math.Point2LL{8.57, 50.03}}
	if ap.DisplayPriority() != PriorityInactiveAirport {
		t.Errorf("inactive airport priority %d", ap.DisplayPriority())
	}
	ap.Active = true
	if ap.DisplayPriority() != PriorityActiveAirport {
		t.Errorf("active airport priority %d", ap.DisplayPriority())
	}
	if !(PriorityController > PriorityActiveAirport && PriorityActiveAirport > PriorityPilot &&
		PriorityPilot > PriorityInactiveAirport && PriorityInactiveAirport > PriorityFix) {
		t.Errorf("unexpected priority ordering")
	}
}

func TestMarkActiveAirports(t *testing.T) {
	airports := map[string]*Airport{
		"EDDF": {ICAO: "EDDF", Location: math.Point2LL{8.57, 50.03}},
		"EGLL": {ICAO: "EGLL", Location: math.Point2LL{-0.46, 51.47}},
		"LFPG": {ICAO: "LFPG", Location: math.Point2LL{2.55, 49.01}},
		"KJFK": {ICAO: "KJFK", Location: math.Point2LL{-73.78, 40.64}},
	}
	pilots := []*Pilot{{Callsign: "BAW1", Departure: "egll", Arrival: "KJFK"}}
	ctrls := []*Controller{
		NewController("EDDF_TWR", NewFrequency(119.9)),
		NewController("EDDF_GND", NewFrequency(121.9)),
		NewController("LFPG_TWR", ObserverFrequency),
		NewController("EDGG_CTR", NewFrequency(124.725)),
	}

	MarkActiveAirports(airports, pilots, ctrls)
	LocateControllers(ctrls, airports)

	for icao, active := range map[string]bool{"EDDF": true, "EGLL": true, "KJFK": true, "LFPG": false} {
		if airports[icao].Active != active {
			t.Errorf("%s: Active = %v", icao, airports[icao].Active)
		}
	}
	if !slices.Equal(airports["EDDF"].Controllers, []string{"EDDF_GND", "EDDF_TWR"}) {
		t.Errorf("EDDF controllers %v", airports["EDDF"].Controllers)
	}
	if airports["EGLL"].Departures != 1 || airports["KJFK"].Arrivals != 1 {
		t.Errorf("traffic counts not updated")
	}
	if p, ok := ctrls[0].Position(); !ok || p != airports["EDDF"].Location {
		t.Errorf("tower not located at its airport: %v %v", p, ok)
	}
	if _, ok := ctrls[3].Position(); ok {
		t.Errorf("center controller should not have a location")
	}
}
