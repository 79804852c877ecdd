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

// VerifyVersion checks the integrity of one retained block's version: every
// node reachable from its root must be resolvable, positioned on its key's
// navigation path, structurally valid, and consistent with the digests
// referencing it, and every referenced value must be present and match its
// content hash. It is an offline audit and considerably more expensive than
// regular reads.
func (a *Archive) VerifyVersion(block uint64) error {
	a.retentionMutex.RLock()
	defer a.retentionMutex.RUnlock()
	record, err := a.getRetainedRoot(block)
	if err != nil {
		return err
	}
	if record.Root == nil {
		if record.Hash != EmptyDigest {
			return fmt.Errorf("version %d: empty tree with non-empty root digest %v", block, record.Hash)
		}
		return nil
	}
	verifier := &versionVerifier{source: a.store, config: &a.config, version: block}
	hash, err := verifier.verify(record.Root, EmptyPath())
	if err != nil {
		return fmt.Errorf("version %d: %w", block, err)
	}
	if hash != record.Hash {
		return fmt.Errorf("version %d: root digest mismatch, recorded %v, computed %v", block, record.Hash, hash)
	}
	return nil
}

type versionVerifier struct {
	source  NodeSource
	config  *Config
	version uint64
}

// verify re-computes the digest of the sub-tree under the given reference
// while checking all structural invariants, and compares it against the
// digest carried by the reference.
func (v *versionVerifier) verify(ref *ChildRef, pos Path) (common.Hash, error) {
	if ref.Version > v.version {
		return common.Hash{}, fmt.Errorf("node at %v belongs to future version %d", pos.String(), ref.Version)
	}
	key := NodeKey{Version: ref.Version, Path: pos}
	node, err := v.source.GetNode(key)
	if err != nil {
		return common.Hash{}, err
	}
	switch node := node.(type) {
	case *LeafNode:
		if !ref.Leaf {
			return common.Hash{}, fmt.Errorf("reference to %v marks a leaf as branch", key)
		}
		return v.verifyLeaf(node, ref, pos)
	case *BranchNode:
		if ref.Leaf {
			return common.Hash{}, fmt.Errorf("reference to %v marks a branch as leaf", key)
		}
		return v.verifyBranch(node, ref, pos)
	default:
		return common.Hash{}, fmt.Errorf("unexpected node type %T at %v", node, key)
	}
}

func (v *versionVerifier) verifyLeaf(leaf *LeafNode, ref *ChildRef, pos Path) (common.Hash, error) {
	if !pos.IsPrefixOf(HashToNibblePath(leaf.KeyHash)) {
		return common.Hash{}, fmt.Errorf("leaf for key %v misplaced at %v", leaf.KeyHash, pos.String())
	}
	value, err := v.source.GetValue(leaf.ValueHash)
	if err != nil {
		return common.Hash{}, err
	}
	if got := v.config.Hasher.Hash(value); got != leaf.ValueHash {
		return common.Hash{}, fmt.Errorf("value of leaf at %v does not match its content hash", pos.String())
	}
	hash := hashLeaf(v.config.Hasher, leaf.KeyHash, leaf.ValueHash)
	if hash != ref.Hash {
		return common.Hash{}, fmt.Errorf("leaf digest mismatch at %v", pos.String())
	}
	return hash, nil
}

func (v *versionVerifier) verifyBranch(branch *BranchNode, ref *ChildRef, pos Path) (common.Hash, error) {
	count := 0
	var onlyChild *ChildRef
	for i, child := range branch.Children {
		if child == nil {
			continue
		}
		count++
		onlyChild = child
		if _, err := v.verify(child, pos.Child(Nibble(i))); err != nil {
			return common.Hash{}, err
		}
	}
	if count == 0 {
		return common.Hash{}, fmt.Errorf("branch without children at %v", pos.String())
	}
	if count == 1 && onlyChild.Leaf {
		return common.Hash{}, fmt.Errorf("branch at %v holds a single leaf and should be collapsed", pos.String())
	}
	slots := branchSlots(branch)
	hash := hashBranch(v.config.Hasher, &slots)
	if hash != ref.Hash {
		return common.Hash{}, fmt.Errorf("branch digest mismatch at %v", pos.String())
	}
	return hash, nil
}
