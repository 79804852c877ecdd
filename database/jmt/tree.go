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

// This file implements the tree engine: the computation of the node set and
// root digest of a new version from a batch of key writes and deletes
// applied to a prior version.
//
// The engine descends the prior version's tree once per shared key prefix,
// partitioning the write batch by the nibble at the current depth. Children
// not covered by any write keep their prior references, so unaffected
// sub-trees are shared between versions without being visited or re-hashed.
// All nodes created for the new version are collected into a NodeBatch for
// atomic persistence; nothing is written to the store by the engine itself.

// writeEntry is one normalized key write: the digested key, its navigation
// path, and the value to be assigned.
type writeEntry struct {
	keyHash   common.Hash
	path      []Nibble
	value     []byte
	valueHash common.Hash
	// remove marks the entry as a deletion of its key.
	remove bool
	// existing marks an entry re-anchoring a leaf of the prior version at
	// a new position; its value is already present in the value table.
	existing bool
}

// applyUpdate computes the node batch turning the given prior version into
// the given new version by applying the update. The update is normalized
// first: the last write of a key within the batch wins. The resulting batch
// contains the new version's root record and all newly created nodes and
// values; the caller is responsible for persisting it atomically.
func applyUpdate(source NodeSource, config *Config, prior RootRecord, version uint64, update common.Update) (*NodeBatch, error) {
	entries, err := normalizeUpdate(config, update)
	if err != nil {
		return nil, err
	}
	ctx := &updateContext{
		source:  source,
		config:  config,
		version: version,
		batch:   NewNodeBatch(),
	}
	root, err := ctx.applyAt(prior.Root, EmptyPath(), entries)
	if err != nil {
		return nil, err
	}
	hash := EmptyDigest
	if root != nil {
		hash = root.Hash
	}
	ctx.batch.Roots = append(ctx.batch.Roots, RootRecord{
		Version: version,
		Hash:    hash,
		Root:    root,
	})
	return ctx.batch, nil
}

// normalizeUpdate digests all keys of the update and reduces it to at most
// one entry per key, keeping the last write of each key. The returned
// entries are in no particular order; the engine partitions them by path.
func normalizeUpdate(config *Config, update common.Update) ([]writeEntry, error) {
	if err := update.Check(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedKey, err)
	}
	index := make(map[common.Hash]int, len(update.Writes))
	entries := make([]writeEntry, 0, len(update.Writes))
	for i := range update.Writes {
		write := &update.Writes[i]
		keyHash := config.hashKey(write.Key)
		entry := writeEntry{
			keyHash: keyHash,
			path:    HashToNibblePath(keyHash),
			value:   write.Value,
			remove:  write.IsDelete(),
		}
		if !entry.remove {
			entry.valueHash = config.Hasher.Hash(write.Value)
		}
		if pos, exists := index[keyHash]; exists {
			entries[pos] = entry // last write wins
			continue
		}
		index[keyHash] = len(entries)
		entries = append(entries, entry)
	}
	return entries, nil
}

// updateContext carries the state of one applyUpdate computation.
type updateContext struct {
	source  NodeSource
	config  *Config
	version uint64
	batch   *NodeBatch
}

// applyAt applies the given entries to the sub-tree rooted at the prior
// child reference located at the given position. It returns the reference
// of the resulting sub-tree, nil if the sub-tree ends up empty, or the
// prior reference itself if nothing changed.
func (c *updateContext) applyAt(prior *ChildRef, pos Path, entries []writeEntry) (*ChildRef, error) {
	if len(entries) == 0 {
		return prior, nil
	}
	if prior == nil {
		return c.buildSubTree(filterPuts(entries), pos)
	}
	if prior.Leaf {
		return c.applyAtLeaf(prior, pos, entries)
	}
	return c.applyAtBranch(prior, pos, entries)
}

// applyAtLeaf applies entries to a sub-tree consisting of a single leaf.
func (c *updateContext) applyAtLeaf(prior *ChildRef, pos Path, entries []writeEntry) (*ChildRef, error) {
	leaf, err := c.getLeaf(NodeKey{Version: prior.Version, Path: pos})
	if err != nil {
		return nil, err
	}

	var match *writeEntry
	var others []writeEntry
	for i := range entries {
		if entries[i].keyHash == leaf.KeyHash {
			match = &entries[i]
		} else if !entries[i].remove {
			// deletes of keys not present are no-ops
			others = append(others, entries[i])
		}
	}

	if len(others) == 0 {
		if match == nil {
			return prior, nil
		}
		if match.remove {
			return nil, nil
		}
		if match.valueHash == leaf.ValueHash {
			return prior, nil // value unchanged, keep the node
		}
		return c.makeLeaf(*match, pos)
	}

	// The leaf has to be split: it moves down along with the new keys to
	// the first diverging nibble, unless the update removes or replaces it.
	collected := others
	if match == nil {
		collected = append(collected, writeEntry{
			keyHash:   leaf.KeyHash,
			path:      HashToNibblePath(leaf.KeyHash),
			valueHash: leaf.ValueHash,
			existing:  true,
		})
	} else if !match.remove {
		collected = append(collected, *match)
	}
	return c.buildSubTree(collected, pos)
}

// applyAtBranch applies entries to a sub-tree rooted by a branch node.
func (c *updateContext) applyAtBranch(prior *ChildRef, pos Path, entries []writeEntry) (*ChildRef, error) {
	key := NodeKey{Version: prior.Version, Path: pos}
	branch, err := c.getBranch(key)
	if err != nil {
		return nil, err
	}

	children := branch.Children
	groups := partitionByNibble(entries, pos.Length())
	changed := false
	for n, group := range groups {
		if group == nil {
			continue
		}
		newChild, err := c.applyAt(children[n], pos.Child(Nibble(n)), group)
		if err != nil {
			return nil, err
		}
		if newChild != children[n] {
			children[n] = newChild
			changed = true
		}
	}
	if !changed {
		return prior, nil
	}

	var only Nibble
	count := 0
	for n, child := range children {
		if child != nil {
			only = Nibble(n)
			count++
		}
	}
	switch {
	case count == 0:
		return nil, nil
	case count == 1 && children[only].Leaf:
		// A branch with a single remaining leaf collapses into that
		// leaf, lifting it to the branch's position. The collapse
		// propagates upwards through the callers.
		return c.liftLeaf(children[only], pos.Child(only), pos)
	default:
		node := &BranchNode{Children: children}
		return c.makeBranch(node, pos), nil
	}
}

// liftLeaf moves the leaf referenced at the given position up to a shorter
// position. The leaf digest covers only the key and value digests, so the
// lifted leaf keeps the digest of the original.
func (c *updateContext) liftLeaf(ref *ChildRef, from Path, to Path) (*ChildRef, error) {
	leaf, err := c.getLeaf(NodeKey{Version: ref.Version, Path: from})
	if err != nil {
		return nil, err
	}
	if ref.Version == c.version {
		// the node was created by this update and is now superseded
		delete(c.batch.Nodes, NodeKey{Version: ref.Version, Path: from})
	}
	c.batch.Nodes[NodeKey{Version: c.version, Path: to}] = &LeafNode{
		KeyHash:   leaf.KeyHash,
		ValueHash: leaf.ValueHash,
	}
	return &ChildRef{Version: c.version, Hash: ref.Hash, Leaf: true}, nil
}

// buildSubTree creates the minimal sub-tree holding the given put entries
// below the given position: nothing, a single leaf, or a branch chain down
// to the first diverging nibble.
func (c *updateContext) buildSubTree(puts []writeEntry, pos Path) (*ChildRef, error) {
	switch len(puts) {
	case 0:
		return nil, nil
	case 1:
		return c.makeLeaf(puts[0], pos)
	}
	depth := pos.Length()
	if depth >= 2*common.HashSize {
		return nil, fmt.Errorf("key digest collision below position %v", pos.String())
	}
	var children [16]*ChildRef
	for n, group := range partitionByNibble(puts, depth) {
		if group == nil {
			continue
		}
		child, err := c.buildSubTree(group, pos.Child(Nibble(n)))
		if err != nil {
			return nil, err
		}
		children[n] = child
	}
	node := &BranchNode{Children: children}
	return c.makeBranch(node, pos), nil
}

// makeLeaf adds a new leaf node for the given entry to the batch and
// returns its reference. Values of new writes are added to the
// content-addressed value table; re-anchored leaves keep their stored value.
func (c *updateContext) makeLeaf(entry writeEntry, pos Path) (*ChildRef, error) {
	c.batch.Nodes[NodeKey{Version: c.version, Path: pos}] = &LeafNode{
		KeyHash:   entry.keyHash,
		ValueHash: entry.valueHash,
	}
	if !entry.existing {
		c.batch.Values[entry.valueHash] = entry.value
	}
	return &ChildRef{
		Version: c.version,
		Hash:    hashLeaf(c.config.Hasher, entry.keyHash, entry.valueHash),
		Leaf:    true,
	}, nil
}

// makeBranch adds the given branch node to the batch and returns its
// reference.
func (c *updateContext) makeBranch(node *BranchNode, pos Path) *ChildRef {
	c.batch.Nodes[NodeKey{Version: c.version, Path: pos}] = node
	slots := branchSlots(node)
	return &ChildRef{
		Version: c.version,
		Hash:    hashBranch(c.config.Hasher, &slots),
	}
}

// getNode resolves a node, giving nodes created by the running update
// precedence over the backing source.
func (c *updateContext) getNode(key NodeKey) (Node, error) {
	if node, exists := c.batch.Nodes[key]; exists {
		return node, nil
	}
	return c.source.GetNode(key)
}

func (c *updateContext) getLeaf(key NodeKey) (*LeafNode, error) {
	node, err := c.getNode(key)
	if err != nil {
		return nil, err
	}
	leaf, ok := node.(*LeafNode)
	if !ok {
		return nil, fmt.Errorf("corrupted store: expected leaf node at %v", key)
	}
	return leaf, nil
}

func (c *updateContext) getBranch(key NodeKey) (*BranchNode, error) {
	node, err := c.getNode(key)
	if err != nil {
		return nil, err
	}
	branch, ok := node.(*BranchNode)
	if !ok {
		return nil, fmt.Errorf("corrupted store: expected branch node at %v", key)
	}
	return branch, nil
}

// partitionByNibble groups the given entries by their path nibble at the
// given depth. Groups retain the input order of their entries.
func partitionByNibble(entries []writeEntry, depth int) [16][]writeEntry {
	var groups [16][]writeEntry
	for _, entry := range entries {
		n := entry.path[depth]
		groups[n] = append(groups[n], entry)
	}
	return groups
}

func filterPuts(entries []writeEntry) []writeEntry {
	puts := make([]writeEntry, 0, len(entries))
	for _, entry := range entries {
		if !entry.remove {
			puts = append(puts, entry)
		}
	}
	return puts
}

// getValue retrieves the value of the given key in the version rooted by
// the given reference. It reports whether the key is present.
func getValue(source NodeSource, config *Config, root *ChildRef, key []byte) ([]byte, bool, error) {
	if len(key) == 0 {
		return nil, false, ErrMalformedKey
	}
	if root == nil {
		return nil, false, nil
	}
	keyHash := config.hashKey(key)
	path := HashToNibblePath(keyHash)
	pos := EmptyPath()
	cur := root
	for {
		if cur.Leaf {
			node, err := source.GetNode(NodeKey{Version: cur.Version, Path: pos})
			if err != nil {
				return nil, false, err
			}
			leaf, ok := node.(*LeafNode)
			if !ok {
				return nil, false, fmt.Errorf("corrupted store: expected leaf node at %v", pos.String())
			}
			if leaf.KeyHash != keyHash {
				return nil, false, nil
			}
			value, err := source.GetValue(leaf.ValueHash)
			if err != nil {
				return nil, false, err
			}
			return value, true, nil
		}
		node, err := source.GetNode(NodeKey{Version: cur.Version, Path: pos})
		if err != nil {
			return nil, false, err
		}
		branch, ok := node.(*BranchNode)
		if !ok {
			return nil, false, fmt.Errorf("corrupted store: expected branch node at %v", pos.String())
		}
		next := branch.Children[path[pos.Length()]]
		if next == nil {
			return nil, false, nil
		}
		pos.Append(path[pos.Length()])
		cur = next
	}
}
