// aviation/sector.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/mmaddox93/qutescoop/log"
	"github.com/mmaddox93/qutescoop/math"
	"github.com/mmaddox93/qutescoop/util"

	"github.com/mmp/earcut-go"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

var ErrDegenerateSector = errors.New("degenerate sector boundary")

// Sector is a controlled airspace region, typically an FIR or a part of
// one, that lights up when a controller staffs it.
type Sector struct {
	ID string
	// BaseID is the id of the feature the sector came from; the parts of
	// a multi-polygon feature share it.
	BaseID   string
	Name     string
	Prefixes []string
	// Boundary is an open ring. Its longitudes are continuous, so sectors
	// that span the antimeridian have longitudes greater than 180.
	Boundary []math.Point2LL
	Bounds   math.Extent2D
	// Area is approximate, in square degrees of latitude.
	Area      float64
	Centroid  math.Point2LL
	Wraps     bool
	Triangles [][3]math.Point2LL

	ring orb.Ring
}

// NewSector validates the boundary and precomputes the sector's bounds,
// area and fill triangles. The boundary may or may not repeat its first
// vertex at the end.
func NewSector(id, name string, prefixes []string, boundary []math.Point2LL) (*Sector, error) {
	if id == "" {
		return nil, errors.New("sector has no id")
	}

	var pts []math.Point2LL
	for _, p := range boundary {
		if !p.IsValid() {
			return nil, fmt.Errorf("%s: invalid boundary vertex %v: %w", id, p, ErrDegenerateSector)
		}
		if len(pts) > 0 && pts[len(pts)-1] == p {
			continue
		}
		pts = append(pts, p)
	}
	for len(pts) > 1 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}
	if len(pts) < 3 {
		return nil, fmt.Errorf("%s: %d distinct vertices: %w", id, len(pts), ErrDegenerateSector)
	}

	s := &Sector{
		ID:       id,
		BaseID:   id,
		Name:     name,
		Boundary: pts,
	}
	for _, pre := range prefixes {
		if pre = strings.ToUpper(strings.TrimSpace(pre)); pre != "" && !slices.Contains(s.Prefixes, pre) {
			s.Prefixes = append(s.Prefixes, pre)
		}
	}
	if len(s.Prefixes) == 0 {
		s.Prefixes = []string{strings.ToUpper(id)}
	}
	if s.Name == "" {
		s.Name = id
	}

	if math.CrossesAntimeridian(s.Boundary) {
		s.Boundary = math.UnwrapLongitudes(s.Boundary)
		s.Wraps = true
	}

	if err := s.init(); err != nil {
		return nil, err
	}
	s.Triangles = triangulate(s.Boundary)

	return s, nil
}

// init computes the derived geometry; it is also used after a sector is
// read back from the cache since the orb ring isn't serialized.
func (s *Sector) init() error {
	s.ring = make(orb.Ring, 0, len(s.Boundary)+1)
	for _, p := range s.Boundary {
		s.ring = append(s.ring, orb.Point(p))
	}
	if len(s.ring) > 0 {
		s.ring = append(s.ring, s.ring[0])
	}

	s.Bounds = math.Extent2DFromPoints(s.Boundary)

	c, a := planar.CentroidArea(s.ring)
	s.Centroid = math.Point2LL(c)
	s.Area = math.Abs(a) * math.Cos(math.Radians(c[1]))

	if !math.IsFinite(s.Area) || s.Area < 1e-12 || !s.Bounds.IsFinite() {
		s.ring = nil
		return fmt.Errorf("%s: zero area: %w", s.ID, ErrDegenerateSector)
	}
	return nil
}

// Valid reports whether the sector has usable geometry.
func (s *Sector) Valid() bool {
	return s != nil && s.ring != nil
}

// Contains reports whether p is inside the sector or on its boundary.
func (s *Sector) Contains(p math.Point2LL) bool {
	if !s.Valid() {
		return false
	}
	if s.Wraps && p[0] < 0 {
		p[0] += 360
	}
	if !s.Bounds.Inside(p) {
		return false
	}
	return planar.RingContains(s.ring, orb.Point(p))
}

// LabelPosition returns where the sector's name is drawn.
func (s *Sector) LabelPosition() math.Point2LL {
	return s.Centroid.Normalize()
}

func triangulate(loop []math.Point2LL) [][3]math.Point2LL {
	vertices := make([]earcut.Vertex, len(loop))
	for i, v := range loop {
		vertices[i].P = [2]float64{v[0], v[1]}
	}

	var tris [][3]math.Point2LL
	for _, tri := range earcut.Triangulate(earcut.Polygon{Rings: [][]earcut.Vertex{vertices}}) {
		var t [3]math.Point2LL
		for i, v := range tri.Vertices {
			t[i] = math.Point2LL(v.P)
		}
		tris = append(tris, t)
	}
	return tris
}

///////////////////////////////////////////////////////////////////////////
// SectorTable

// SectorTable holds the valid sectors by id; it is read-only once built.
type SectorTable struct {
	sectors  map[string]*Sector
	ids      []string
	byBase   map[string][]string
	byPrefix map[string][]string
}

// NewSectorTable indexes the given sectors. Invalid sectors and
// duplicate ids are reported to e and skipped.
func NewSectorTable(sectors []*Sector, e *util.ErrorLogger) *SectorTable {
	t := &SectorTable{
		sectors:  make(map[string]*Sector),
		byBase:   make(map[string][]string),
		byPrefix: make(map[string][]string),
	}

	for _, s := range sectors {
		if !s.Valid() {
			if s != nil && e != nil {
				e.ErrorString("%s: %v", s.ID, ErrDegenerateSector)
			}
			continue
		}
		if _, ok := t.sectors[s.ID]; ok {
			if e != nil {
				e.ErrorString("%s: duplicate sector id", s.ID)
			}
			continue
		}

		t.sectors[s.ID] = s
		t.ids = append(t.ids, s.ID)
		t.byBase[s.BaseID] = append(t.byBase[s.BaseID], s.ID)
		for _, pre := range s.Prefixes {
			t.byPrefix[pre] = append(t.byPrefix[pre], s.ID)
		}
	}

	slices.Sort(t.ids)
	for _, m := range []map[string][]string{t.byBase, t.byPrefix} {
		for k := range m {
			slices.Sort(m[k])
		}
	}

	return t
}

func (t *SectorTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.ids)
}

func (t *SectorTable) Get(id string) (*Sector, bool) {
	if t == nil {
		return nil, false
	}
	s, ok := t.sectors[id]
	return s, ok
}

// IDs returns the sector ids in sorted order.
func (t *SectorTable) IDs() []string {
	if t == nil {
		return nil
	}
	return slices.Clone(t.ids)
}

// Sectors returns all sectors in id order.
func (t *SectorTable) Sectors() []*Sector {
	if t == nil {
		return nil
	}
	s := make([]*Sector, len(t.ids))
	for i, id := range t.ids {
		s[i] = t.sectors[id]
	}
	return s
}

// Expand maps an id to sector ids: either the sector itself or all of the
// parts of a multi-part feature.
func (t *SectorTable) Expand(id string) []string {
	if t == nil {
		return nil
	}
	if _, ok := t.sectors[id]; ok {
		return []string{id}
	}
	return t.byBase[id]
}

// SectorsForPrefix returns the ids of the sectors claiming the given
// callsign prefix.
func (t *SectorTable) SectorsForPrefix(prefix string) []string {
	if t == nil {
		return nil
	}
	return t.byPrefix[strings.ToUpper(prefix)]
}

// SectorsAt returns the sectors containing p, smallest first.
func (t *SectorTable) SectorsAt(p math.Point2LL) []*Sector {
	var r []*Sector
	for _, s := range t.Sectors() {
		if s.Contains(p) {
			r = append(r, s)
		}
	}
	slices.SortStableFunc(r, func(a, b *Sector) int {
		if a.Area < b.Area {
			return -1
		} else if a.Area > b.Area {
			return 1
		}
		return strings.Compare(a.ID, b.ID)
	})
	return r
}

///////////////////////////////////////////////////////////////////////////
// Loading

// ParseSectorsGeoJSON returns the sectors described by a GeoJSON feature
// collection. Each feature needs an "id" property and may have "name"
// and "prefixes" (an array or comma-separated string of callsign
// prefixes). Multi-polygon features give one sector per part, with ids
// id-1, id-2, ... Interior rings are ignored. Problems are reported to e
// and the offending feature or part is skipped.
func ParseSectorsGeoJSON(b []byte, e *util.ErrorLogger) []*Sector {
	fc, err := geojson.UnmarshalFeatureCollection(b)
	if err != nil {
		e.Error(err)
		return nil
	}

	var sectors []*Sector
	for i, f := range fc.Features {
		id := strings.TrimSpace(f.Properties.MustString("id", ""))
		if id == "" {
			e.ErrorString("feature %d: no \"id\" property", i)
			continue
		}

		e.Push(id)
		name := f.Properties.MustString("name", "")
		prefixes := propertyStrings(f.Properties, "prefixes")

		var parts []orb.Polygon
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			parts = []orb.Polygon{g}
		case orb.MultiPolygon:
			parts = g
		default:
			if f.Geometry == nil {
				e.ErrorString("no geometry")
			} else {
				e.ErrorString("unsupported geometry type %s", f.Geometry.GeoJSONType())
			}
		}

		for j, poly := range parts {
			if len(poly) == 0 {
				continue
			}
			sid := id
			if len(parts) > 1 {
				sid = fmt.Sprintf("%s-%d", id, j+1)
			}

			boundary := make([]math.Point2LL, len(poly[0]))
			for k, p := range poly[0] {
				boundary[k] = math.Point2LL(p)
			}

			if s, err := NewSector(sid, name, prefixes, boundary); err != nil {
				e.Error(err)
			} else {
				s.BaseID = id
				sectors = append(sectors, s)
			}
		}
		e.Pop()
	}

	return sectors
}

func propertyStrings(props geojson.Properties, key string) []string {
	switch v := props[key].(type) {
	case string:
		return strings.Split(v, ",")
	case []interface{}:
		var s []string
		for _, item := range v {
			if str, ok := item.(string); ok {
				s = append(s, str)
			}
		}
		return s
	default:
		return nil
	}
}

// LoadSectors reads a GeoJSON sector file, which may be zstd-compressed.
// When useCache is set, the parsed sectors are stored in the user cache
// directory keyed by a hash of the file contents so that later runs can
// skip parsing and triangulation.
func LoadSectors(path string, useCache bool, lg *log.Logger) (*SectorTable, error) {
	b, err := util.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var e util.ErrorLogger
	e.Push(path)
	defer e.Pop()

	key := fmt.Sprintf("sectors/%016x.msgpack", util.HashString64(string(b)))
	if useCache {
		var cached []*Sector
		if _, err := util.CacheRetrieveObject(key, &cached); err == nil {
			for _, s := range cached {
				if err := s.init(); err != nil {
					e.Error(err)
				}
			}
			lg.Info("loaded sectors from cache", slog.String("path", path), slog.Int("count", len(cached)))
			return NewSectorTable(cached, &e), nil
		} else {
			lg.Debugf("%s: no cached sectors: %v", key, err)
		}
	}

	sectors := ParseSectorsGeoJSON(b, &e)
	t := NewSectorTable(sectors, &e)

	if e.HaveErrors() {
		if t.Len() == 0 {
			return nil, e.Err()
		}
		e.LogErrors(lg, "sector skipped")
	}

	if useCache {
		if err := util.CacheStoreObject(key, t.Sectors()); err != nil {
			lg.Warnf("%s: unable to cache sectors: %v", key, err)
		}
	}

	lg.Info("loaded sectors", slog.String("path", path), slog.Int("count", t.Len()))
	return t, nil
}
