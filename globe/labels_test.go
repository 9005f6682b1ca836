// globe/labels_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package globe

import (
	"fmt"
	"slices"
	"testing"

	"github.com/mmaddox93/qutescoop/aviation"
	"github.com/mmaddox93/qutescoop/math"
	"github.com/mmaddox93/qutescoop/rand"
)

func rect(x0, y0, x1, y1 float64) math.Extent2D {
	return math.MakeExtent2D([2]float64{x0, y0}, [2]float64{x1, y1})
}

func keys(c []LabelCandidate) []string {
	var k []string
	for _, l := range c {
		k = append(k, l.Priority.Key)
	}
	return k
}

func checkNoOverlaps(t *testing.T, labels []LabelCandidate) {
	t.Helper()
	for i := range labels {
		for j := i + 1; j < len(labels); j++ {
			if math.Overlaps(labels[i].Rect, labels[j].Rect) {
				t.Fatalf("%s %v overlaps %s %v", labels[i].Priority.Key, labels[i].Rect,
					labels[j].Priority.Key, labels[j].Rect)
			}
		}
	}
}

func TestLayoutLabelsBasics(t *testing.T) {
	if l := LayoutLabels(nil); len(l) != 0 {
		t.Errorf("no candidates gave %v", l)
	}

	one := []LabelCandidate{{Rect: rect(0, 0, 10, 10), Priority: LabelPriority{Key: "A"}}}
	if l := LayoutLabels(one); !slices.Equal(keys(l), []string{"A"}) {
		t.Errorf("single candidate gave %v", keys(l))
	}

	nan := math.Sqrt(-1)
	cands := []LabelCandidate{
		{Rect: rect(0, 0, 10, 10), Priority: LabelPriority{Rank: 1, Key: "LOW"}},
		{Rect: rect(5, 5, 15, 15), Priority: LabelPriority{Rank: 4, Key: "HIGH"}},
		{Rect: rect(15, 0, 20, 5), Priority: LabelPriority{Rank: 1, Key: "TOUCH"}},
		{Rect: rect(nan, 0, 10, 10), Priority: LabelPriority{Rank: 9, Key: "NAN"}},
		{Rect: math.Extent2D{P0: [2]float64{40, 40}, P1: [2]float64{30, 30}}, Priority: LabelPriority{Key: "FLIPPED"}},
		{Rect: rect(100, 100, 110, 110), Priority: LabelPriority{Rank: 1, Relevance: 0.2, Key: "B"}},
		{Rect: rect(105, 100, 115, 110), Priority: LabelPriority{Rank: 1, Relevance: 0.9, Key: "C"}},
		{Rect: rect(200, 0, 210, 10), Priority: LabelPriority{Rank: 1, Key: "Y"}},
		{Rect: rect(205, 0, 215, 10), Priority: LabelPriority{Rank: 1, Key: "X"}},
	}
	l := LayoutLabels(cands)
	if got := keys(l); !slices.Equal(got, []string{"HIGH", "C", "X", "FLIPPED"}) {
		t.Errorf("got %v", got)
	}
	checkNoOverlaps(t, l)
}

func TestLayoutLabelsRandom(t *testing.T) {
	r := rand.Make(7)
	for iter := range 50 {
		var cands []LabelCandidate
		for i := range 1 + r.Intn(200) {
			x, y := r.Range(0, 500), r.Range(0, 500)
			cands = append(cands, LabelCandidate{
				Rect: rect(x, y, x+r.Range(0, 60), y+r.Range(0, 15)),
				Priority: LabelPriority{
					Rank:      r.Intn(5),
					Relevance: float64(r.Intn(3)),
					Key:       fmt.Sprintf("L%03d", i),
				},
			})
		}

		l := LayoutLabels(cands)
		checkNoOverlaps(t, l)
		if len(l) == 0 {
			t.Fatalf("%d: nothing accepted from %d candidates", iter, len(cands))
		}

		// The result doesn't depend on the input order.
		var shuffled []LabelCandidate
		for _, c := range rand.PermuteSlice(cands, r.Uint32()) {
			shuffled = append(shuffled, c)
		}
		if !slices.Equal(keys(l), keys(LayoutLabels(shuffled))) {
			t.Fatalf("%d: layout depends on the order of the candidates", iter)
		}

		// Every rejected candidate overlaps an accepted one with higher
		// priority.
		for _, c := range cands {
			if slices.Contains(keys(l), c.Priority.Key) {
				continue
			}
			if !slices.ContainsFunc(l, func(a LabelCandidate) bool {
				return math.Overlaps(a.Rect, c.Rect) && a.Priority.Compare(c.Priority) < 0
			}) {
				t.Fatalf("%d: %s rejected without a higher-priority overlap", iter, c.Priority.Key)
			}
		}
	}
}

func TestLabelPriorityNaN(t *testing.T) {
	a := LabelPriority{Rank: 1, Relevance: math.Sqrt(-1), Key: "A"}
	b := LabelPriority{Rank: 1, Relevance: -5, Key: "B"}
	if a.Compare(b) <= 0 || b.Compare(a) >= 0 {
		t.Errorf("NaN relevance should sort last")
	}
}

func TestBuildLabelCandidates(t *testing.T) {
	cfg := testConfig()
	cam := NewCamera(cfg, 800, 600)
	cam.SetPosition(50, 8, 1.2)

	visible := []aviation.Entity{
		&aviation.Pilot{Callsign: "DLH400", Location: math.Point2LL{8.6, 50.1}},
		&aviation.Controller{Callsign: "EDGG_CTR", Location: math.Point2LL{8.5, 50.5}, HasLocation: true},
		&aviation.Airport{ICAO: "EDDF", Location: math.Point2LL{8.57, 50.03}, Active: true},
		&aviation.Airport{ICAO: "EDDK", Location: math.Point2LL{7.14, 50.87}},
		&aviation.Fix{Name: "TABUM", Location: math.Point2LL{8.0, 50.2}},
		&aviation.Fix{Name: "BEHIND", Location: math.Point2LL{-172, -50}},
	}

	labeled := func(zoom float64) []string {
		c := cam
		c.SetZoom(zoom)
		var k []string
		for _, l := range BuildLabelCandidates(c, VisibleEntities(c, visible), cfg.LabelZoom, FixedWidthMeasurer{7, 13}) {
			k = append(k, l.Priority.Key)
		}
		slices.Sort(k)
		return k
	}

	for _, c := range []struct {
		zoom   float64
		expect []string
	}{
		{2, nil},
		{1.2, []string{"EDGG_CTR"}},
		{0.9, []string{"EDDF", "EDGG_CTR"}},
		{0.5, []string{"DLH400", "EDDF", "EDGG_CTR"}},
		{0.2, []string{"DLH400", "EDDF", "EDDK", "EDGG_CTR"}},
		{0.05, []string{"DLH400", "EDDF", "EDDK", "EDGG_CTR", "TABUM"}},
	} {
		if got := labeled(c.zoom); !slices.Equal(got, c.expect) {
			t.Errorf("zoom %f: got %v, expected %v", c.zoom, got, c.expect)
		}
	}

	cam.SetZoom(0.05)
	for _, l := range BuildLabelCandidates(cam, VisibleEntities(cam, visible), cfg.LabelZoom, FixedWidthMeasurer{7, 13}) {
		if l.Rect.Width() != float64(7*len(l.Text)) || l.Rect.Height() != 13 {
			t.Errorf("%s: rect %v", l.Text, l.Rect)
		}
		if l.Rect.P0[0] <= l.Anchor[0] {
			t.Errorf("%s: label should be right of its anchor", l.Text)
		}
		if l.Priority.Rank != l.Entity.DisplayPriority() {
			t.Errorf("%s: rank %d", l.Text, l.Priority.Rank)
		}
	}
}
