// globe/bookmarks.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package globe

import (
	"github.com/brunoga/deep"
)

const NumBookmarks = 10

// Bookmarks holds remembered camera positions; nil slots are empty.
type Bookmarks [NumBookmarks]*CameraState

// Remember stores a copy of cam in the given slot. It returns false if
// the slot is out of range.
func (b *Bookmarks) Remember(slot int, cam CameraState) bool {
	if slot < 0 || slot >= len(b) {
		return false
	}
	b[slot] = &cam
	return true
}

// Get returns the camera stored in the given slot, if any.
func (b *Bookmarks) Get(slot int) (CameraState, bool) {
	if slot < 0 || slot >= len(b) || b[slot] == nil {
		return CameraState{}, false
	}
	return *b[slot], true
}

// Clear empties the given slot.
func (b *Bookmarks) Clear(slot int) {
	if slot >= 0 && slot < len(b) {
		b[slot] = nil
	}
}

// Clone returns a copy that shares nothing with b.
func (b *Bookmarks) Clone() Bookmarks {
	return deep.MustCopy(*b)
}
