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

// This file defines the node types of the tree. There are two persisted
// kinds of nodes:
//
//  - branch nodes ... inner nodes splitting navigation paths into up to 16
//                     children, indexed by the next nibble of the key digest
//  - leaf nodes   ... terminal nodes storing the full key digest and the
//                     hash of the stored value; raw values are kept in a
//                     separate content-addressed value table
//
// The empty tree has no persisted node at all; its root record carries the
// empty digest. Nodes are pure data: all navigation and mutation logic
// operates on them from the outside (see tree.go), since updates never
// modify a node in place but derive new nodes for a new version.

// NodeKind is the tag distinguishing persisted node types.
type NodeKind byte

const (
	// BranchKind tags inner nodes with up to 16 children.
	BranchKind NodeKind = 1
	// LeafKind tags terminal nodes holding a key and value digest.
	LeafKind NodeKind = 2
)

// Node is a persisted tree node, either a *BranchNode or a *LeafNode.
type Node interface {
	// Kind returns the tag used for this node in the persisted encoding.
	Kind() NodeKind
}

// ChildRef is the reference a branch node holds for one of its children.
// Children are located one nibble below their parent, so the child's full
// NodeKey is derived from the parent's path and the child's slot index;
// only the child's creation version needs to be stored. The child's digest
// is cached in the reference so that the parent's digest and proofs can be
// computed without resolving the child.
type ChildRef struct {
	// Version is the version at which the referenced child was created.
	// It may be older than the version of the referencing branch when the
	// child's sub-tree was not touched by newer updates.
	Version uint64
	// Hash is the cached digest of the referenced child.
	Hash common.Hash
	// Leaf is true if the referenced child is a leaf node.
	Leaf bool
}

// BranchNode is an inner node with up to 16 children indexed by the nibble
// of the key digest at the node's depth. Unused slots are nil. A branch
// reachable in a committed version always references at least two leaves in
// its sub-tree; branches left with a single remaining leaf are collapsed
// into that leaf during updates.
type BranchNode struct {
	Children [16]*ChildRef
}

func (n *BranchNode) Kind() NodeKind {
	return BranchKind
}

// ChildCount returns the number of occupied child slots.
func (n *BranchNode) ChildCount() int {
	count := 0
	for _, child := range n.Children {
		if child != nil {
			count++
		}
	}
	return count
}

// ChildKey derives the NodeKey of the child in the given slot, based on the
// path of this branch node.
func (n *BranchNode) ChildKey(thisPath Path, index Nibble) NodeKey {
	return NodeKey{Version: n.Children[index].Version, Path: thisPath.Child(index)}
}

func (n *BranchNode) String() string {
	res := "branch{"
	for i, child := range n.Children {
		if child != nil {
			res += fmt.Sprintf("%s:%x@%d ", Nibble(i).String(), child.Hash[0:4], child.Version)
		}
	}
	return res + "}"
}

// LeafNode is a terminal node storing the digest of the full key it
// represents and the hash of its value. The raw value is stored in the
// content-addressed value table under its hash, deduplicating identical
// values across leaves and versions. A leaf's position path is always a
// prefix of its key digest's nibble path.
type LeafNode struct {
	// KeyHash is the digest of the application-level key.
	KeyHash common.Hash
	// ValueHash is the digest of the stored value.
	ValueHash common.Hash
}

func (n *LeafNode) Kind() NodeKind {
	return LeafKind
}

func (n *LeafNode) String() string {
	return fmt.Sprintf("leaf{key:%x value:%x}", n.KeyHash[0:4], n.ValueHash[0:4])
}
