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
	"strings"
)

// Path is a sequence of Nibbles describing the position of a node in the
// tree. The root has the empty path, each child of a branch extends its
// parent's path by one nibble. Unlike []Nibble slices, Paths encode pairs
// of 4-bit Nibbles into 8-bit values for a dense representation. Since key
// digests are 256 bits, paths are limited to a maximum length of 64 Nibbles.
type Path struct {
	// The zero-padded navigation path to be covered. The maximum length
	// is 256 bits, which are 32 bytes and 64 nibbles. Nibbles are encoded
	// in bytes in big-endian order.
	path [32]byte
	// The length of the relevant prefix of the path to be represented in
	// number of nibbles (= 4bit values). Limited to <= 64.
	length uint8
}

// EmptyPath returns the path of the root node.
func EmptyPath() Path {
	return Path{}
}

// CreatePathFromNibbles converts a Nibble-slice into a path.
func CreatePathFromNibbles(path []Nibble) Path {
	res := Path{}
	for _, cur := range path {
		res.Append(cur)
	}
	return res
}

// Length returns the length of the path in nibbles.
func (p *Path) Length() int {
	return int(p.length)
}

// Get returns the Nibble value at the given path position, where pos == 0
// is the first position and Length()-1 the last. For positions outside this
// range the value 0 is returned.
func (p *Path) Get(pos int) Nibble {
	if pos < 0 || pos >= int(p.length) {
		return 0
	}
	twin := p.path[pos/2]
	if pos%2 == 0 {
		return Nibble(twin >> 4)
	}
	return Nibble(twin & 0xF)
}

// Append appends a nibble to the end of this path extending it by one element.
func (p *Path) Append(n Nibble) *Path {
	trg := &p.path[p.length/2]
	if p.length%2 == 0 {
		*trg |= byte(n&0xF) << 4
	} else {
		*trg |= byte(n & 0xF)
	}
	p.length++
	return p
}

// Child returns a copy of this path extended by the given nibble. The
// receiver remains unmodified.
func (p Path) Child(n Nibble) Path {
	p.Append(n)
	return p
}

// IsPrefixOf determines whether this path is a prefix of the given nibble
// sequence.
func (p *Path) IsPrefixOf(list []Nibble) bool {
	return p.GetCommonPrefixLength(list) == int(p.length)
}

// IsEqualTo determines whether the given nibble sequence is equal to this path.
func (p *Path) IsEqualTo(list []Nibble) bool {
	return p.Length() == len(list) && p.GetCommonPrefixLength(list) == int(p.length)
}

// GetCommonPrefixLength determines the common prefix of the given Nibble
// slice and this path.
func (p *Path) GetCommonPrefixLength(list []Nibble) int {
	max := int(p.length)
	if max > len(list) {
		max = len(list)
	}
	for i := 0; i < max; i++ {
		if p.Get(i) != list[i] {
			return i
		}
	}
	return max
}

func (p *Path) String() string {
	if p.length == 0 {
		return "-empty-"
	}
	builder := strings.Builder{}
	for i := 0; i < p.Length(); i++ {
		builder.WriteRune(p.Get(i).Rune())
	}
	return builder.String()
}

// ----------------------------------------------------------------------------
//                               Path Encoder
// ----------------------------------------------------------------------------

// PathEncoder encodes paths using a fixed-length 33-byte disk format: the
// zero-padded packed nibbles followed by the length in nibbles.
type PathEncoder struct{}

func (PathEncoder) GetEncodedSize() int {
	return 33
}

func (PathEncoder) Store(trg []byte, path *Path) {
	copy(trg, path.path[:])
	trg[32] = path.length
}

func (PathEncoder) Load(src []byte, path *Path) {
	copy(path.path[:], src)
	path.length = src[32]
}
