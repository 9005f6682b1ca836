// rand/rand_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package rand

import (
	"testing"
)

func TestPermutationElement(t *testing.T) {
	for _, n := range []int{1, 8, 31, 10523} {
		for _, h := range []uint32{0, 0xff, 0xfeedface} {
			m := make(map[int]int)

			for i := 0; i < n; i++ {
				perm := PermutationElement(i, n, h)
				if perm < 0 || perm >= n {
					t.Errorf("%d: out of range [0,%d)", perm, n)
				}
				if _, ok := m[perm]; ok {
					t.Errorf("%d: appeared multiple times", perm)
				}
				m[perm] = i
			}
		}
	}
}

func TestRandomPermute(t *testing.T) {
	r := Make(7)
	for _, n := range []int{0, 1, 5, 11, 42} {
		s := make([]int, n)
		for i := range n {
			s[i] = i
		}
		got := make([]bool, n)

		for i, v := range PermuteSlice(s, r.Uint32()) {
			if i != v {
				t.Errorf("mismatch index/value: %d/%d slice %+v", i, v, s)
			}
			if got[i] {
				t.Errorf("got %d repeatedly, slice %+v", i, s)
			}
			got[i] = true
		}
		for i, g := range got {
			if !g {
				t.Errorf("never got index %d", i)
			}
		}
	}
}

func TestSeedDeterminism(t *testing.T) {
	a, b := Make(1234), Make(1234)
	for i := 0; i < 100; i++ {
		if x, y := a.Uint32(), b.Uint32(); x != y {
			t.Fatalf("%d: same seed gave %d and %d", i, x, y)
		}
	}

	c := Make(1235)
	same := true
	for i := 0; i < 8; i++ {
		if a.Uint32() != c.Uint32() {
			same = false
		}
	}
	if same {
		t.Errorf("different seeds gave identical sequences")
	}
}

func TestRange(t *testing.T) {
	r := Make(99)
	for i := 0; i < 1000; i++ {
		if v := r.Range(-180, 180); v < -180 || v > 180 {
			t.Fatalf("Range gave %f", v)
		}
		if v := r.Intn(10); v < 0 || v >= 10 {
			t.Fatalf("Intn gave %d", v)
		}
	}
	if v := SampleSlice(r, []string{"only"}); v != "only" {
		t.Errorf("SampleSlice gave %q", v)
	}
}
