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
	"encoding/binary"
	"fmt"
)

// NodeKey is the address of a node in the tree. Each node is uniquely and
// immutably identified by the version that created it and the navigation
// path leading to it. NodeKeys serve the same role as pointers in in-memory
// implementations of trees: they allow one node to reference another while
// keeping all references stable across processes and restarts.
//
// Once a node has been written under its NodeKey it is never mutated or
// overwritten; new versions create new nodes under new keys.
type NodeKey struct {
	Version uint64
	Path    Path
}

func (k NodeKey) String() string {
	return fmt.Sprintf("%d/%s", k.Version, k.Path.String())
}

// ----------------------------------------------------------------------------
//                              NodeKey Encoder
// ----------------------------------------------------------------------------

// NodeKeyEncoder encodes node keys using a fixed-length 41-byte disk format:
// the big-endian version followed by the encoded path. The version-major
// ordering allows all nodes created before a given version to be located
// with a single range scan, which the pruning sweep relies on.
type NodeKeyEncoder struct{}

func (NodeKeyEncoder) GetEncodedSize() int {
	return 8 + PathEncoder{}.GetEncodedSize()
}

func (NodeKeyEncoder) Store(dst []byte, key *NodeKey) {
	binary.BigEndian.PutUint64(dst, key.Version)
	PathEncoder{}.Store(dst[8:], &key.Path)
}

func (NodeKeyEncoder) Load(src []byte, key *NodeKey) {
	key.Version = binary.BigEndian.Uint64(src)
	PathEncoder{}.Load(src[8:], &key.Path)
}
