// globe/globe.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package globe implements the interactive globe view: the camera and
// its screen mapping, picking, label layout and the viewport controller
// that turns pointer input into camera motion. Globe ties these together
// with the current traffic snapshot and sector activity for a host that
// does the drawing.
package globe

import (
	"log/slog"
	"time"

	"github.com/mmaddox93/qutescoop/aviation"
	"github.com/mmaddox93/qutescoop/config"
	"github.com/mmaddox93/qutescoop/log"
	"github.com/mmaddox93/qutescoop/math"
)

type Globe struct {
	cfg      config.Globe
	lg       *log.Logger
	vc       *ViewportController
	activity *aviation.SectorActivity
	measurer TextMeasurer

	snapshot             *aviation.Snapshot
	showInactiveAirports bool
}

func NewGlobe(cfg config.Globe, sectors *aviation.SectorTable, width, height float64, lg *log.Logger) *Globe {
	g := &Globe{
		cfg:                  cfg,
		lg:                   lg,
		vc:                   NewViewportController(cfg, width, height, lg),
		activity:             aviation.NewSectorActivity(sectors, lg),
		measurer:             FixedWidthMeasurer{CharWidth: cfg.FontWidth, LineHeight: cfg.FontHeight},
		showInactiveAirports: cfg.ShowInactiveAirports,
	}
	g.activity.SetDisplayAllSectors(cfg.DisplayAllSectors)
	return g
}

// Viewport gives access to the viewport controller for programmatic
// camera changes, bookmarks and listeners.
func (g *Globe) Viewport() *ViewportController {
	return g.vc
}

// Camera returns a copy of the current camera.
func (g *Globe) Camera() CameraState {
	return g.vc.Camera()
}

func (g *Globe) Snapshot() *aviation.Snapshot {
	return g.snapshot
}

// SetSnapshot replaces the traffic being shown. Sector activity is only
// recomputed if the controller roster changed.
func (g *Globe) SetSnapshot(snap *aviation.Snapshot) {
	g.snapshot = snap
	var roster []*aviation.Controller
	if snap != nil {
		roster = snap.Controllers
	}
	if g.activity.UpdateRoster(roster) {
		g.lg.Debug("controller roster changed", slog.Int("controllers", len(roster)))
	}
}

func (g *Globe) SetTextMeasurer(m TextMeasurer) {
	if m != nil {
		g.measurer = m
	}
}

func (g *Globe) OnGesture(gesture Gesture) {
	g.vc.HandleGesture(gesture)
}

func (g *Globe) OnResize(width, height float64) {
	g.vc.Resize(width, height)
}

func (g *Globe) Tick(now time.Time) {
	g.vc.Tick(now)
}

func (g *Globe) ShowInactiveAirports() bool {
	return g.showInactiveAirports
}

func (g *Globe) SetShowInactiveAirports(b bool) {
	g.showInactiveAirports = b
}

func (g *Globe) DisplayAllSectors() bool {
	return g.activity.DisplayAllSectors()
}

func (g *Globe) SetDisplayAllSectors(b bool) {
	g.activity.SetDisplayAllSectors(b)
}

// VisibleEntity is an entity on the visible hemisphere and where it is
// drawn.
type VisibleEntity struct {
	Entity aviation.Entity
	Pos    ScreenPoint
}

// VisibleEntities projects the entities, dropping those that have no
// position or are on the far side of the globe. Order is preserved.
func VisibleEntities(cam CameraState, entities []aviation.Entity) []VisibleEntity {
	var vis []VisibleEntity
	for _, e := range entities {
		if p, ok := e.Position(); ok {
			if sp, ok := cam.ProjectToScreen(p); ok {
				vis = append(vis, VisibleEntity{Entity: e, Pos: sp})
			}
		}
	}
	return vis
}

// entities returns the snapshot's entities that are drawn at the
// camera's zoom. Inactive airports, when shown at all, only appear once
// zoomed in to their dot threshold.
func (g *Globe) entities(cam CameraState) []aviation.Entity {
	inactive := g.showInactiveAirports && cam.Zoom <= g.cfg.InactiveAirportDotZoom
	return g.snapshot.Entities(inactive)
}

// QueryVisible returns the snapshot's entities that are on the visible
// side of the globe, with their screen positions.
func (g *Globe) QueryVisible() []VisibleEntity {
	cam := g.vc.Camera()
	return VisibleEntities(cam, g.entities(cam))
}

// QueryLabels lays out the given label candidates.
func (g *Globe) QueryLabels(candidates []LabelCandidate) []LabelCandidate {
	return LayoutLabels(candidates)
}

// Labels returns the labels to draw for the visible entities.
func (g *Globe) Labels() []LabelCandidate {
	cands := BuildLabelCandidates(g.vc.Camera(), g.QueryVisible(), g.cfg.LabelZoom, g.measurer)
	return LayoutLabels(cands)
}

// QueryPicked returns the visible entities near sp, nearest first,
// followed by those whose drawn label is under sp. A radius of 0 uses
// the configured pick tolerance.
func (g *Globe) QueryPicked(sp ScreenPoint, radius float64) []aviation.Entity {
	cam := g.vc.Camera()
	return ObjectsAt(cam, g.entities(cam), sp, radius, g.cfg.PickTolerance, g.Labels())
}

// QueryActiveSectors updates the controller roster and returns the
// sectors it staffs.
func (g *Globe) QueryActiveSectors(roster []*aviation.Controller) aviation.ActiveSectorSet {
	g.activity.UpdateRoster(roster)
	return g.activity.Active()
}

// SectorAt returns the active sector owning the point under sp and the
// controller to show for it. When all sectors are displayed, an
// unstaffed sector under sp is returned with no controller.
func (g *Globe) SectorAt(sp ScreenPoint) (*aviation.Sector, string, bool) {
	p, ok := g.vc.Camera().UnprojectFromScreen(sp)
	if !ok {
		return nil, "", false
	}
	if s, ctrl, ok := g.activity.Owner(p); ok {
		return s, ctrl, true
	}
	if g.activity.DisplayAllSectors() {
		// Unstaffed sectors are drawn too; report the innermost one.
		if at := g.activity.Table().SectorsAt(p); len(at) > 0 {
			return at[0], "", true
		}
	}
	return nil, "", false
}

// SectorFill is a sector to be drawn, with its label position on the
// screen if the label is on the visible hemisphere.
type SectorFill struct {
	Sector      *aviation.Sector
	Active      bool
	Controllers []string
	Label       ScreenPoint
	LabelOK     bool
}

// SectorFills returns the sectors to draw: the active ones or, if all
// sectors are displayed, every one of them.
func (g *Globe) SectorFills() []SectorFill {
	cam := g.vc.Camera()

	var fills []SectorFill
	for _, s := range g.activity.SectorsToDraw() {
		f := SectorFill{
			Sector:      s,
			Active:      g.activity.IsActive(s.ID),
			Controllers: g.activity.Controllers(s.ID),
		}
		f.Label, f.LabelOK = cam.ProjectToScreen(s.LabelPosition())
		fills = append(fills, f)
	}
	return fills
}

// SunZenith returns the sun's zenith angle at p at the time of the
// current snapshot, or now if there is none, for day/night shading.
func (g *Globe) SunZenith(p math.Point2LL) float64 {
	return math.SolarZenithAngle(g.snapshotTime(), p)
}

// SubsolarPoint returns where the sun is overhead at the snapshot time.
func (g *Globe) SubsolarPoint() math.Point2LL {
	return math.SubsolarPoint(g.snapshotTime())
}

func (g *Globe) snapshotTime() time.Time {
	if g.snapshot != nil && !g.snapshot.Time.IsZero() {
		return g.snapshot.Time
	}
	return time.Now()
}
