// cmd/qutescoop/report.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mmaddox93/qutescoop/aviation"
	"github.com/mmaddox93/qutescoop/globe"
	"github.com/mmaddox93/qutescoop/math"
	"github.com/mmaddox93/qutescoop/util"
)

type pickedObject struct {
	ID       string
	Kind     string
	Position string
	// Compass direction of flight, for pilots
	Heading string
}

type sectorInfo struct {
	ID          string
	Name        string
	Active      bool
	Controllers []string
	Triangles   int
}

// report summarizes what the globe shows.
type report struct {
	Camera      globe.CameraState
	Center      string
	Daylight    bool
	Visible     map[string]int
	Labels      []string
	Sectors     []sectorInfo
	PickedAt    globe.ScreenPoint
	Picked      []pickedObject
	Owner       string
	OwnerSector string
}

func makeReport(g *globe.Globe, pickAt globe.ScreenPoint, radius float64) report {
	cam := g.Camera()
	r := report{
		Camera:   cam,
		Center:   cam.Center().DMSString(),
		Daylight: g.SunZenith(cam.Center()) < math.ZenithSunset,
		Visible:  make(map[string]int),
		PickedAt: pickAt,
	}

	for _, v := range g.QueryVisible() {
		r.Visible[v.Entity.Kind().String()]++
	}
	r.Labels = util.MapSlice(g.Labels(), func(l globe.LabelCandidate) string { return l.Text })
	for _, f := range g.SectorFills() {
		r.Sectors = append(r.Sectors, sectorInfo{
			ID:          f.Sector.ID,
			Name:        f.Sector.Name,
			Active:      f.Active,
			Controllers: f.Controllers,
			Triangles:   len(f.Sector.Triangles),
		})
	}
	for _, e := range g.QueryPicked(pickAt, radius) {
		p, _ := e.Position()
		obj := pickedObject{ID: e.ID(), Kind: e.Kind().String(), Position: p.DDString()}
		if pilot, ok := e.(*aviation.Pilot); ok {
			obj.Heading = math.ShortCompass(float64(pilot.Heading))
		}
		r.Picked = append(r.Picked, obj)
	}
	if s, ctrl, ok := g.SectorAt(pickAt); ok {
		r.OwnerSector, r.Owner = s.ID, ctrl
	}
	return r
}

func (r report) Print(w io.Writer) {
	fmt.Fprintf(w, "camera: %s\n", r.Camera)
	fmt.Fprintf(w, "center: %s (%s)\n", r.Center, util.Select(r.Daylight, "day", "night"))

	var vis []string
	for _, k := range []aviation.EntityKind{aviation.KindPilot, aviation.KindController, aviation.KindAirport, aviation.KindFix} {
		vis = append(vis, fmt.Sprintf("%d %ss", r.Visible[k.String()], k))
	}
	fmt.Fprintf(w, "visible: %s\n", strings.Join(vis, ", "))
	fmt.Fprintf(w, "labels (%d): %s\n", len(r.Labels), strings.Join(r.Labels, " "))

	nactive := 0
	for _, s := range r.Sectors {
		if s.Active {
			nactive++
			fmt.Fprintf(w, "  %-12s %-30s %s\n", s.ID, s.Name, strings.Join(s.Controllers, ", "))
		}
	}
	fmt.Fprintf(w, "sectors: %d drawn, %d staffed\n", len(r.Sectors), nactive)

	fmt.Fprintf(w, "picked at (%.0f, %.0f):", r.PickedAt[0], r.PickedAt[1])
	if len(r.Picked) == 0 {
		fmt.Fprintf(w, " nothing")
	}
	for _, p := range r.Picked {
		if p.Heading != "" {
			fmt.Fprintf(w, " %s (%s, heading %s)", p.ID, p.Kind, p.Heading)
		} else {
			fmt.Fprintf(w, " %s (%s)", p.ID, p.Kind)
		}
	}
	fmt.Fprintln(w)
	if r.OwnerSector != "" {
		fmt.Fprintf(w, "controlled by %s (%s)\n", r.Owner, r.OwnerSector)
	}
}

// defaultAirports gives synthetic traffic somewhere to fly when no
// traffic file provides airports.
func defaultAirports() map[string]*aviation.Airport {
	ap := make(map[string]*aviation.Airport)
	for _, a := range []struct {
		icao, name string
		lat, lon   float64
	}{
		{"EDDF", "Frankfurt Main", 50.0333, 8.5706},
		{"EGLL", "London Heathrow", 51.4706, -0.4619},
		{"KJFK", "John F Kennedy Intl", 40.6398, -73.7789},
		{"KLAX", "Los Angeles Intl", 33.9425, -118.4081},
		{"LFPG", "Paris Charles de Gaulle", 49.0097, 2.5479},
		{"OMDB", "Dubai Intl", 25.2528, 55.3644},
		{"RJTT", "Tokyo Haneda", 35.5523, 139.7800},
		{"SBGR", "Sao Paulo Guarulhos", -23.4356, -46.4731},
		{"WSSS", "Singapore Changi", 1.3502, 103.9940},
		{"YSSY", "Sydney Kingsford Smith", -33.9461, 151.1772},
	} {
		ap[a.icao] = &aviation.Airport{ICAO: a.icao, Name: a.name, Location: math.LL(a.lat, a.lon)}
	}
	return ap
}
