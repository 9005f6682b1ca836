// globe/labels.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package globe

import (
	"cmp"
	"slices"
	"strings"

	"github.com/mmaddox93/qutescoop/aviation"
	"github.com/mmaddox93/qutescoop/config"
	"github.com/mmaddox93/qutescoop/math"
)

// LabelPriority orders label candidates: higher Rank first, then higher
// Relevance, then Key alphabetically.
type LabelPriority struct {
	Rank      int
	Relevance float64
	Key       string
}

// Compare returns a negative value if p should be placed before q.
func (p LabelPriority) Compare(q LabelPriority) int {
	if c := cmp.Compare(q.Rank, p.Rank); c != 0 {
		return c
	}
	// Treat NaN relevance as the least relevant.
	if c := cmp.Compare(q.Relevance, p.Relevance); c != 0 {
		return c
	}
	return strings.Compare(p.Key, q.Key)
}

// LabelCandidate is a label that would like to be drawn with its
// bounding box at Rect.
type LabelCandidate struct {
	Anchor   ScreenPoint
	Rect     math.Extent2D
	Text     string
	Entity   aviation.Entity
	Priority LabelPriority
}

// TextMeasurer returns the size in pixels of a single line of text.
type TextMeasurer interface {
	MeasureText(s string) (w, h float64)
}

// FixedWidthMeasurer measures text set in a monospaced font.
type FixedWidthMeasurer struct {
	CharWidth, LineHeight float64
}

func (f FixedWidthMeasurer) MeasureText(s string) (float64, float64) {
	return float64(len([]rune(s))) * f.CharWidth, f.LineHeight
}

// Pixels between an entity's position and the start of its label.
const labelOffset = 4

// labelThreshold returns the zoom at or below which e's label is shown.
func labelThreshold(e aviation.Entity, t config.LabelThresholds) float64 {
	switch v := e.(type) {
	case *aviation.Airport:
		if !v.Active {
			return t.InactiveAirport
		}
		return t.Airport
	}

	switch e.Kind() {
	case aviation.KindPilot:
		return t.Pilot
	case aviation.KindController:
		return t.Controller
	case aviation.KindAirport:
		return t.Airport
	case aviation.KindFix:
		return t.Fix
	default:
		return 0
	}
}

// BuildLabelCandidates makes a label candidate for each visible entity
// whose category is labeled at the camera's current zoom. Labels sit to
// the right of the entity; among labels of equal rank those closer to
// the center of the view are more relevant.
func BuildLabelCandidates(cam CameraState, visible []VisibleEntity, t config.LabelThresholds, m TextMeasurer) []LabelCandidate {
	center := cam.ScreenCenter()
	diag := math.Length2f([2]float64{cam.Width, cam.Height})

	var cands []LabelCandidate
	for _, v := range visible {
		e, sp := v.Entity, v.Pos
		if cam.Zoom > labelThreshold(e, t) {
			continue
		}
		text := e.LabelText()
		if text == "" {
			continue
		}

		w, h := m.MeasureText(text)
		relevance := 0.
		if diag > 0 {
			relevance = 1 - math.Distance2f(sp, center)/diag
		}

		cands = append(cands, LabelCandidate{
			Anchor: sp,
			Rect:   math.MakeExtent2D([2]float64{}, [2]float64{w, h}).Offset([2]float64{sp[0] + labelOffset, sp[1] - h/2}),
			Text:   text,
			Entity: e,
			Priority: LabelPriority{
				Rank:      e.DisplayPriority(),
				Relevance: relevance,
				Key:       e.ID(),
			},
		})
	}
	return cands
}

// LayoutLabels chooses which candidates to draw. Candidates are taken in
// priority order and each is accepted if it doesn't touch or overlap any
// label accepted before it; rejected labels are not reconsidered.
// Candidates with non-finite rectangles are dropped. The accepted labels
// are returned in the order they were accepted.
func LayoutLabels(candidates []LabelCandidate) []LabelCandidate {
	cands := make([]LabelCandidate, 0, len(candidates))
	for _, c := range candidates {
		if !c.Rect.IsFinite() {
			continue
		}
		c.Rect = math.MakeExtent2D(c.Rect.P0, c.Rect.P1)
		cands = append(cands, c)
	}

	slices.SortStableFunc(cands, func(a, b LabelCandidate) int {
		return a.Priority.Compare(b.Priority)
	})

	var accepted []LabelCandidate
	for _, c := range cands {
		if !slices.ContainsFunc(accepted, func(a LabelCandidate) bool { return math.Overlaps(a.Rect, c.Rect) }) {
			accepted = append(accepted, c)
		}
	}
	return accepted
}
