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
	"golang.org/x/crypto/blake2b"

	"github.com/yanglaolee/grug/common"
)

// Hasher is the pluggable hashing provider used uniformly for key digesting,
// leaf hashing, and branch hashing. Swapping providers changes all key paths
// and root digests; stores written with different providers are mutually
// incompatible.
type Hasher interface {
	Hash(data []byte) common.Hash
}

// EmptyDigest is the digest of the empty tree and the sentinel filled into
// unoccupied child slots when hashing a branch node.
var EmptyDigest = common.Hash{}

// keccakHasher is the default hashing provider, based on the legacy
// Keccak256 used by EVM-compatible chains.
type keccakHasher struct{}

func (keccakHasher) Hash(data []byte) common.Hash {
	return common.Keccak256(data)
}

// blake2bHasher is an alternative hashing provider based on BLAKE2b-256.
type blake2bHasher struct{}

func (blake2bHasher) Hash(data []byte) common.Hash {
	return common.Hash(blake2b.Sum256(data))
}

// hashLeaf computes the digest of a leaf as hash(keyHash ∥ valueHash).
func hashLeaf(hasher Hasher, keyHash, valueHash common.Hash) common.Hash {
	var data [2 * common.HashSize]byte
	copy(data[:], keyHash[:])
	copy(data[common.HashSize:], valueHash[:])
	return hasher.Hash(data[:])
}

// hashBranch computes the digest of a branch as the hash of the
// concatenation of all 16 child slot digests in nibble order, with
// unoccupied slots contributing the EmptyDigest sentinel. The fixed slot
// order makes the resulting root digest independent of the order in which
// keys were inserted.
func hashBranch(hasher Hasher, slots *[16]common.Hash) common.Hash {
	var data [16 * common.HashSize]byte
	for i := 0; i < 16; i++ {
		copy(data[i*common.HashSize:], slots[i][:])
	}
	return hasher.Hash(data[:])
}

// branchSlots collects the 16 slot digests of the given branch node,
// substituting the EmptyDigest sentinel for unoccupied slots.
func branchSlots(node *BranchNode) [16]common.Hash {
	var slots [16]common.Hash
	for i, child := range node.Children {
		if child != nil {
			slots[i] = child.Hash
		}
	}
	return slots
}
