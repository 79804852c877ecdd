// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package jmt

import (
	"testing"

	"github.com/yanglaolee/grug/common"
)

func TestNibble_Print(t *testing.T) {
	tests := map[Nibble]string{
		0: "0", 1: "1", 9: "9", 10: "a", 15: "f", 16: "?",
	}
	for nibble, want := range tests {
		if got := nibble.String(); got != want {
			t.Errorf("invalid print of nibble %d, got %s, want %s", nibble, got, want)
		}
	}
}

func TestHashToNibblePath_ExpandsAllNibbles(t *testing.T) {
	hash := common.HashFromBytes([]byte{0x12, 0xAB})
	path := HashToNibblePath(hash)
	if got, want := len(path), 2*common.HashSize; got != want {
		t.Fatalf("invalid path length, got %d, want %d", got, want)
	}
	if path[0] != 1 || path[1] != 2 || path[2] != 0xA || path[3] != 0xB {
		t.Errorf("invalid leading nibbles: %v", path[0:4])
	}
	for i := 4; i < len(path); i++ {
		if path[i] != 0 {
			t.Errorf("zero-padded byte expanded to non-zero nibble at %d: %v", i, path[i])
		}
	}
}

func TestGetCommonPrefixLength(t *testing.T) {
	tests := []struct {
		a, b []Nibble
		want int
	}{
		{nil, nil, 0},
		{[]Nibble{1, 2, 3}, nil, 0},
		{[]Nibble{1, 2, 3}, []Nibble{1, 2, 3}, 3},
		{[]Nibble{1, 2, 3}, []Nibble{1, 2}, 2},
		{[]Nibble{1, 2, 3}, []Nibble{1, 2, 4, 5}, 2},
		{[]Nibble{7}, []Nibble{8}, 0},
	}
	for _, test := range tests {
		if got := GetCommonPrefixLength(test.a, test.b); got != test.want {
			t.Errorf("common prefix of %v and %v, got %d, want %d", test.a, test.b, got, test.want)
		}
		if got := GetCommonPrefixLength(test.b, test.a); got != test.want {
			t.Errorf("common prefix is not symmetric for %v and %v", test.a, test.b)
		}
	}
}

func TestIsPrefixOf(t *testing.T) {
	tests := []struct {
		a, b []Nibble
		want bool
	}{
		{nil, []Nibble{1, 2}, true},
		{[]Nibble{1}, []Nibble{1, 2}, true},
		{[]Nibble{1, 2}, []Nibble{1, 2}, true},
		{[]Nibble{1, 2, 3}, []Nibble{1, 2}, false},
		{[]Nibble{2}, []Nibble{1, 2}, false},
	}
	for _, test := range tests {
		if got := IsPrefixOf(test.a, test.b); got != test.want {
			t.Errorf("IsPrefixOf(%v, %v), got %t, want %t", test.a, test.b, got, test.want)
		}
	}
}
