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
	"sync"

	"github.com/yanglaolee/grug/common"
)

// memoryStore is an in-memory NodeStore for tests and ephemeral instances.
// It provides the same atomicity guarantees as the LevelDB store by holding
// its lock for the duration of a batch write.
type memoryStore struct {
	mu             sync.Mutex
	nodes          map[NodeKey]Node
	values         map[common.Hash][]byte
	roots          map[uint64]RootRecord
	height         uint64
	hasHeight      bool
	oldestRetained uint64
}

// NewInMemoryStore creates an empty in-memory node store.
func NewInMemoryStore() NodeStore {
	return &memoryStore{
		nodes:  map[NodeKey]Node{},
		values: map[common.Hash][]byte{},
		roots:  map[uint64]RootRecord{},
	}
}

func (s *memoryStore) GetNode(key NodeKey) (Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	node, exists := s.nodes[key]
	if !exists {
		return nil, fmt.Errorf("%w: %v", ErrMissingNode, key)
	}
	return node, nil
}

func (s *memoryStore) GetValue(hash common.Hash) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, exists := s.values[hash]
	if !exists {
		return nil, fmt.Errorf("%w: %v", ErrMissingValue, hash)
	}
	return value, nil
}

func (s *memoryStore) Write(batch *NodeBatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, node := range batch.Nodes {
		s.nodes[key] = node
	}
	for hash, value := range batch.Values {
		s.values[hash] = value
	}
	for _, record := range batch.Roots {
		s.roots[record.Version] = record
		s.height = record.Version
		s.hasHeight = true
	}
	return nil
}

func (s *memoryStore) GetRoot(version uint64) (RootRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, exists := s.roots[version]
	return record, exists, nil
}

func (s *memoryStore) GetLastVersion() (uint64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.height, s.hasHeight, nil
}

func (s *memoryStore) GetOldestRetained() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.oldestRetained, nil
}

func (s *memoryStore) VisitNodes(beforeVersion uint64, visit func(NodeKey) error) error {
	s.mu.Lock()
	keys := make([]NodeKey, 0, len(s.nodes))
	for key := range s.nodes {
		if key.Version < beforeVersion {
			keys = append(keys, key)
		}
	}
	s.mu.Unlock()
	for _, key := range keys {
		if err := visit(key); err != nil {
			return err
		}
	}
	return nil
}

func (s *memoryStore) VisitValues(visit func(common.Hash) error) error {
	s.mu.Lock()
	hashes := make([]common.Hash, 0, len(s.values))
	for hash := range s.values {
		hashes = append(hashes, hash)
	}
	s.mu.Unlock()
	for _, hash := range hashes {
		if err := visit(hash); err != nil {
			return err
		}
	}
	return nil
}

func (s *memoryStore) Remove(oldestRetained uint64, nodes []NodeKey, values []common.Hash) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range nodes {
		delete(s.nodes, key)
	}
	for _, hash := range values {
		delete(s.values, hash)
	}
	s.oldestRetained = oldestRetained
	return nil
}

func (s *memoryStore) Flush() error {
	return nil
}

func (s *memoryStore) Close() error {
	return nil
}
