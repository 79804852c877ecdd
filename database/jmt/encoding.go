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

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/yanglaolee/grug/common"
)

// Nodes are persisted as a one-byte kind tag followed by the RLP encoding
// of the node payload. Branch nodes encode only their occupied child slots,
// in increasing slot order, keeping the encoding compact for the sparse
// branches dominating real state tries.

// encodedLeaf is the RLP payload of a leaf node.
type encodedLeaf struct {
	KeyHash   common.Hash
	ValueHash common.Hash
}

// encodedChild is one occupied child slot of a branch node.
type encodedChild struct {
	Index   uint8
	Version uint64
	Hash    common.Hash
	Leaf    bool
}

// EncodeNode serializes the given node into its persisted representation.
func EncodeNode(node Node) ([]byte, error) {
	switch n := node.(type) {
	case *LeafNode:
		payload, err := rlp.EncodeToBytes(&encodedLeaf{KeyHash: n.KeyHash, ValueHash: n.ValueHash})
		if err != nil {
			return nil, err
		}
		return append([]byte{byte(LeafKind)}, payload...), nil
	case *BranchNode:
		children := make([]encodedChild, 0, 16)
		for i, child := range n.Children {
			if child == nil {
				continue
			}
			children = append(children, encodedChild{
				Index:   uint8(i),
				Version: child.Version,
				Hash:    child.Hash,
				Leaf:    child.Leaf,
			})
		}
		payload, err := rlp.EncodeToBytes(children)
		if err != nil {
			return nil, err
		}
		return append([]byte{byte(BranchKind)}, payload...), nil
	default:
		return nil, fmt.Errorf("unsupported node type %T", node)
	}
}

// DecodeNode restores a node from its persisted representation.
func DecodeNode(data []byte) (Node, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("invalid node encoding: empty input")
	}
	switch NodeKind(data[0]) {
	case LeafKind:
		var payload encodedLeaf
		if err := rlp.DecodeBytes(data[1:], &payload); err != nil {
			return nil, fmt.Errorf("invalid leaf node encoding: %w", err)
		}
		return &LeafNode{KeyHash: payload.KeyHash, ValueHash: payload.ValueHash}, nil
	case BranchKind:
		var children []encodedChild
		if err := rlp.DecodeBytes(data[1:], &children); err != nil {
			return nil, fmt.Errorf("invalid branch node encoding: %w", err)
		}
		res := &BranchNode{}
		last := -1
		for _, child := range children {
			if int(child.Index) >= len(res.Children) {
				return nil, fmt.Errorf("invalid branch node encoding: child index %d out of range", child.Index)
			}
			if int(child.Index) <= last {
				return nil, fmt.Errorf("invalid branch node encoding: unordered child index %d", child.Index)
			}
			last = int(child.Index)
			res.Children[child.Index] = &ChildRef{
				Version: child.Version,
				Hash:    child.Hash,
				Leaf:    child.Leaf,
			}
		}
		return res, nil
	default:
		return nil, fmt.Errorf("invalid node encoding: unknown kind tag %d", data[0])
	}
}
