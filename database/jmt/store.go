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

//go:generate mockgen -source store.go -destination store_mocks.go -package jmt

import (
	"sync"

	"github.com/yanglaolee/grug/common"
)

const (
	// ErrMissingNode is produced when a referenced node cannot be resolved
	// in the store. It signals storage corruption or premature pruning and
	// is fatal: operations observing it must not be retried.
	ErrMissingNode = common.ConstError("node not found in store")

	// ErrMissingValue is produced when a value referenced by a leaf cannot
	// be resolved in the content-addressed value table. Like ErrMissingNode
	// it signals storage corruption.
	ErrMissingValue = common.ConstError("value not found in store")

	// ErrMalformedKey is produced when an application-level key cannot be
	// digested into a navigation path.
	ErrMalformedKey = common.ConstError("malformed key")
)

// RootRecord identifies the tree of one version: its root digest and the
// address of its root node. Versions whose updates did not change any key
// share the root node of their predecessor.
type RootRecord struct {
	// Version is the version this record describes.
	Version uint64
	// Hash is the root digest authenticating the full content of the
	// version. It is the EmptyDigest for an empty tree.
	Hash common.Hash
	// Root references the root node, or is nil for an empty tree. The
	// root node's path is always the empty path.
	Root *ChildRef
}

// RootNodeKey returns the address of the root node. It must only be called
// for non-empty versions.
func (r *RootRecord) RootNodeKey() NodeKey {
	return NodeKey{Version: r.Root.Version, Path: EmptyPath()}
}

// NodeSource is an interface for any object capable of resolving node keys
// into nodes and value hashes into raw values. It is intended to be
// implemented by node-store components and overlays thereof.
type NodeSource interface {
	// GetNode resolves the given node key. The result wraps ErrMissingNode
	// if no node is stored under the key.
	GetNode(key NodeKey) (Node, error)

	// GetValue resolves a raw value from the content-addressed value
	// table. The result wraps ErrMissingValue if the value is not present.
	GetValue(hash common.Hash) ([]byte, error)
}

// NodeStore is the adapter to the physical storage backend. Nodes, values,
// and root records written once are never modified; they are only removed
// by the pruning sweep once no retained version references them.
type NodeStore interface {
	NodeSource

	// Write atomically persists the given batch: all nodes, values, and
	// root records of the batch become visible together or not at all. A
	// partially committed version must never be observable.
	Write(batch *NodeBatch) error

	// GetRoot retrieves the root record of the given version, if present.
	GetRoot(version uint64) (record RootRecord, exists bool, err error)

	// GetLastVersion returns the highest committed version. The exists
	// flag is false if no version has been committed yet.
	GetLastVersion() (version uint64, exists bool, err error)

	// GetOldestRetained returns the oldest version that has not been
	// pruned. It is zero for a store that was never pruned.
	GetOldestRetained() (uint64, error)

	// VisitNodes calls the visitor for the key of every stored node
	// created before the given version. Iteration stops at the first
	// error, which is forwarded to the caller.
	VisitNodes(beforeVersion uint64, visit func(NodeKey) error) error

	// VisitValues calls the visitor for the content hash of every stored
	// value.
	VisitValues(visit func(common.Hash) error) error

	// Remove atomically deletes the given nodes and values and advances
	// the oldest retained version marker.
	Remove(oldestRetained uint64, nodes []NodeKey, values []common.Hash) error

	// Flush syncs any buffered state to the backend.
	Flush() error

	// Close flushes and releases the store.
	Close() error
}

// NodeBatch collects the output of applying one or more versions: the new
// nodes and values to be persisted and the root records of the covered
// versions. It is handed to NodeStore.Write as a single atomic unit.
type NodeBatch struct {
	Roots  []RootRecord
	Nodes  map[NodeKey]Node
	Values map[common.Hash][]byte
}

// NewNodeBatch creates an empty batch.
func NewNodeBatch() *NodeBatch {
	return &NodeBatch{
		Nodes:  map[NodeKey]Node{},
		Values: map[common.Hash][]byte{},
	}
}

// ----------------------------------------------------------------------------
//                            Cached Node Source
// ----------------------------------------------------------------------------

// cachedNodeSource is a NodeSource overlay retaining resolved nodes in an
// LRU cache. Since persisted nodes are immutable, cached entries never go
// stale; the cache only needs to be dropped when nodes are removed by the
// pruning sweep.
type cachedNodeSource struct {
	source NodeSource
	mu     sync.Mutex
	cache  *common.LruCache[NodeKey, Node]
}

// DefaultNodeCacheSize is the number of nodes retained in memory by an
// archive's read cache.
const DefaultNodeCacheSize = 100_000

func newCachedNodeSource(source NodeSource, capacity int) *cachedNodeSource {
	return &cachedNodeSource{
		source: source,
		cache:  common.NewLruCache[NodeKey, Node](capacity),
	}
}

func (s *cachedNodeSource) GetNode(key NodeKey) (Node, error) {
	s.mu.Lock()
	if node, exists := s.cache.Get(key); exists {
		s.mu.Unlock()
		return node, nil
	}
	s.mu.Unlock()
	node, err := s.source.GetNode(key)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.cache.Set(key, node)
	s.mu.Unlock()
	return node, nil
}

func (s *cachedNodeSource) GetValue(hash common.Hash) ([]byte, error) {
	return s.source.GetValue(hash)
}

// clear drops all cached nodes. Called after pruning.
func (s *cachedNodeSource) clear() {
	s.mu.Lock()
	s.cache.Clear()
	s.mu.Unlock()
}
