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

// PruneTo removes all versions older than the given block and reclaims the
// nodes and values no longer referenced by any retained version. Root
// digests of pruned blocks are kept, so GetHash remains available for them.
//
// The sweep is a mark phase over all retained roots followed by a scan of
// the store: a node created before the oldest retained version is garbage
// exactly if no retained version reaches it, and a value is garbage exactly
// if no retained leaf references it. Pruning excludes concurrent writers and
// readers for its duration.
func (a *Archive) PruneTo(oldest uint64) error {
	a.addMutex.Lock()
	defer a.addMutex.Unlock()
	a.retentionMutex.Lock()
	defer a.retentionMutex.Unlock()
	if err := a.getError(); err != nil {
		return err
	}

	height, exists, err := a.store.GetLastVersion()
	if err != nil {
		return a.noteError(err)
	}
	if !exists || oldest > height {
		return fmt.Errorf("%w: cannot retain from block %d", ErrVersionNotFound, oldest)
	}
	current, err := a.store.GetOldestRetained()
	if err != nil {
		return a.noteError(err)
	}
	if oldest <= current {
		return nil // already satisfied
	}

	// mark everything reachable from a retained root
	marked := map[NodeKey]struct{}{}
	liveValues := map[common.Hash]struct{}{}
	for version := oldest; version <= height; version++ {
		record, found, err := a.store.GetRoot(version)
		if err != nil {
			return a.noteError(err)
		}
		if !found {
			return a.noteError(fmt.Errorf("corrupted store: missing root record for version %d", version))
		}
		if record.Root == nil {
			continue
		}
		if err := a.markReachable(record.Root, EmptyPath(), marked, liveValues); err != nil {
			return a.noteError(err)
		}
	}

	// sweep: nodes of a version are always reachable from that version's
	// root, so only nodes created before the retention boundary can be
	// unreachable
	var deadNodes []NodeKey
	err = a.store.VisitNodes(oldest, func(key NodeKey) error {
		if _, live := marked[key]; !live {
			deadNodes = append(deadNodes, key)
		}
		return nil
	})
	if err != nil {
		return a.noteError(err)
	}
	var deadValues []common.Hash
	err = a.store.VisitValues(func(hash common.Hash) error {
		if _, live := liveValues[hash]; !live {
			deadValues = append(deadValues, hash)
		}
		return nil
	})
	if err != nil {
		return a.noteError(err)
	}

	if err := a.store.Remove(oldest, deadNodes, deadValues); err != nil {
		return a.noteError(err)
	}
	a.source.clear()
	return nil
}

// markReachable adds the sub-tree rooted at the given reference to the mark
// sets. Sub-trees shared between versions are visited only once.
func (a *Archive) markReachable(ref *ChildRef, pos Path, marked map[NodeKey]struct{}, liveValues map[common.Hash]struct{}) error {
	key := NodeKey{Version: ref.Version, Path: pos}
	if _, seen := marked[key]; seen {
		return nil
	}
	marked[key] = struct{}{}
	node, err := a.store.GetNode(key)
	if err != nil {
		return err
	}
	switch node := node.(type) {
	case *LeafNode:
		liveValues[node.ValueHash] = struct{}{}
	case *BranchNode:
		for i, child := range node.Children {
			if child == nil {
				continue
			}
			if err := a.markReachable(child, pos.Child(Nibble(i)), marked, liveValues); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("corrupted store: unexpected node type %T at %v", node, key)
	}
	return nil
}
