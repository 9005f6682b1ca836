// util/text.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"hash"
	"hash/fnv"
	"strconv"
	"strings"
	"unicode"
)

// StopShouting turns text of the form "KENNEDY INTL" to "Kennedy Intl"
func StopShouting(orig string) string {
	var s strings.Builder
	wsLast := true
	for _, ch := range orig {
		if unicode.IsSpace(ch) {
			wsLast = true
		} else if unicode.IsLetter(ch) {
			if wsLast {
				wsLast = false
			} else {
				ch = unicode.ToLower(ch)
			}
		}
		s.WriteRune(ch)
	}
	return s.String()
}

func Atof(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// Hasher accumulates an FNV-1a hash of a sequence of strings; each is
// terminated so that ("ab","c") and ("a","bc") hash differently.
type Hasher struct {
	h hash.Hash64
}

func NewHasher() Hasher {
	return Hasher{h: fnv.New64a()}
}

func (h Hasher) Add(strs ...string) {
	for _, s := range strs {
		h.h.Write([]byte(s))
		h.h.Write([]byte{0})
	}
}

func (h Hasher) Sum() uint64 {
	return h.h.Sum64()
}

func HashString64(s string) uint64 {
	h := NewHasher()
	h.Add(s)
	return h.Sum()
}
