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
	"fmt"

	"github.com/yanglaolee/grug/common"
)

// Proof is a self-contained witness tying a single key's presence or absence
// to a root digest. It can be verified against a trusted root without access
// to any store.
//
// Steps are ordered from the deepest branch up to the root: Steps[0] is the
// branch closest to the (claimed) leaf position, Steps[len-1] is the root
// branch. Leaf describes the leaf found at the end of the descent along the
// key's path. For an inclusion proof it is the key's own leaf; for an
// exclusion proof it is either nil (the descent ended at an unoccupied slot
// or the tree is empty) or a surrogate leaf of a different key occupying the
// key's path.
type Proof struct {
	Steps []ProofStep
	Leaf  *ProofLeaf
}

// ProofStep witnesses one branch on the path from the root to the proven
// position: the slot descended into and the digests of all 16 child slots,
// with the EmptyDigest sentinel in unoccupied slots.
type ProofStep struct {
	Index Nibble
	Slots [16]common.Hash
}

// ProofLeaf witnesses the leaf terminating the descent.
type ProofLeaf struct {
	KeyHash   common.Hash
	ValueHash common.Hash
}

// createProof assembles the proof for the given key in the version rooted by
// the given reference. It produces an inclusion proof if the key is present
// and an exclusion proof otherwise.
func createProof(source NodeSource, config *Config, root *ChildRef, key []byte) (Proof, error) {
	if len(key) == 0 {
		return Proof{}, ErrMalformedKey
	}
	proof := Proof{}
	if root == nil {
		return proof, nil
	}
	keyHash := config.hashKey(key)
	path := HashToNibblePath(keyHash)
	pos := EmptyPath()
	cur := root
	for {
		node, err := source.GetNode(NodeKey{Version: cur.Version, Path: pos})
		if err != nil {
			return Proof{}, err
		}
		if cur.Leaf {
			leaf, ok := node.(*LeafNode)
			if !ok {
				return Proof{}, fmt.Errorf("corrupted store: expected leaf node at %v", pos.String())
			}
			proof.Leaf = &ProofLeaf{KeyHash: leaf.KeyHash, ValueHash: leaf.ValueHash}
			break
		}
		branch, ok := node.(*BranchNode)
		if !ok {
			return Proof{}, fmt.Errorf("corrupted store: expected branch node at %v", pos.String())
		}
		index := path[pos.Length()]
		proof.Steps = append(proof.Steps, ProofStep{
			Index: index,
			Slots: branchSlots(branch),
		})
		next := branch.Children[index]
		if next == nil {
			break // absence witnessed by the empty slot of the last step
		}
		pos.Append(index)
		cur = next
	}
	reverseSteps(proof.Steps)
	return proof, nil
}

// Verify checks this proof against a trusted root digest. A non-nil value
// claims the key maps to exactly that value; a nil value claims the key is
// absent. It returns true only if the claim is witnessed by this proof under
// the given root.
func (p *Proof) Verify(hasher Hasher, root common.Hash, key []byte, value []byte) bool {
	if len(key) == 0 || len(p.Steps) > 2*common.HashSize {
		return false
	}
	keyHash := hasher.Hash(key)
	path := HashToNibblePath(keyHash)

	// the digest of the position the descent ended at
	var cur common.Hash
	switch {
	case value != nil:
		if p.Leaf == nil || p.Leaf.KeyHash != keyHash {
			return false
		}
		if p.Leaf.ValueHash != hasher.Hash(value) {
			return false
		}
		cur = hashLeaf(hasher, keyHash, p.Leaf.ValueHash)
	case p.Leaf != nil:
		// absence witnessed by a surrogate leaf of a different key that
		// occupies the queried key's path
		if p.Leaf.KeyHash == keyHash {
			return false
		}
		surrogate := HashToNibblePath(p.Leaf.KeyHash)
		for i := 0; i < len(p.Steps); i++ {
			if surrogate[i] != path[i] {
				return false
			}
		}
		cur = hashLeaf(hasher, p.Leaf.KeyHash, p.Leaf.ValueHash)
	default:
		// absence witnessed by an unoccupied slot, or by an empty tree
		cur = EmptyDigest
	}

	for i, step := range p.Steps {
		depth := len(p.Steps) - 1 - i
		if step.Index != path[depth] {
			return false
		}
		if step.Slots[step.Index] != cur {
			return false
		}
		cur = hashBranch(hasher, &step.Slots)
	}
	return cur == root
}

func reverseSteps(steps []ProofStep) {
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
}
