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
	"sort"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
	"golang.org/x/exp/maps"

	"github.com/yanglaolee/grug/backend"
	"github.com/yanglaolee/grug/common"
)

// levelDbStore is the production NodeStore, mapping node addresses, values,
// and root records into a single LevelDB instance partitioned by table
// space prefixes. All batch writes are atomic LevelDB batch writes.
type levelDbStore struct {
	db    backend.LevelDB
	owned *leveldb.DB // non-nil if this store opened (and must close) the DB
}

// root record flags, persisted as the first byte of a root record value
const (
	rootFlagEmpty  = 0
	rootFlagLeaf   = 1
	rootFlagBranch = 2
)

var (
	heightMetadataKey   = []byte{byte(backend.MetadataKey), 'h'}
	retainedMetadataKey = []byte{byte(backend.MetadataKey), 'p'}

	writeSync = &opt.WriteOptions{Sync: true}
)

// OpenLevelDbStore opens a node store backed by a LevelDB instance in the
// given directory, creating it if needed. The returned store owns the
// database connection and releases it on Close.
func OpenLevelDbStore(directory string) (NodeStore, error) {
	db, err := backend.OpenLevelDb(directory, nil)
	if err != nil {
		return nil, err
	}
	return &levelDbStore{db: db, owned: db}, nil
}

// NewLevelDbStore wraps an externally managed LevelDB instance. Closing the
// returned store does not close the database.
func NewLevelDbStore(db backend.LevelDB) NodeStore {
	return &levelDbStore{db: db}
}

func nodeDbKey(key NodeKey) []byte {
	res := make([]byte, 1+NodeKeyEncoder{}.GetEncodedSize())
	res[0] = byte(backend.NodeKey)
	NodeKeyEncoder{}.Store(res[1:], &key)
	return res
}

func valueDbKey(hash common.Hash) []byte {
	return backend.ToDBKey(backend.ValueKey, hash[:])
}

func rootDbKey(version uint64) []byte {
	var versionKey [8]byte
	binary.BigEndian.PutUint64(versionKey[:], version)
	return backend.ToDBKey(backend.RootKey, versionKey[:])
}

func encodeRootRecord(record *RootRecord) []byte {
	res := make([]byte, 1+common.HashSize+8)
	switch {
	case record.Root == nil:
		res[0] = rootFlagEmpty
	case record.Root.Leaf:
		res[0] = rootFlagLeaf
	default:
		res[0] = rootFlagBranch
	}
	copy(res[1:], record.Hash[:])
	if record.Root != nil {
		binary.BigEndian.PutUint64(res[1+common.HashSize:], record.Root.Version)
	}
	return res
}

func decodeRootRecord(version uint64, data []byte) (RootRecord, error) {
	if len(data) != 1+common.HashSize+8 {
		return RootRecord{}, fmt.Errorf("invalid root record encoding: %d bytes", len(data))
	}
	record := RootRecord{Version: version}
	copy(record.Hash[:], data[1:])
	switch data[0] {
	case rootFlagEmpty:
		// no root node
	case rootFlagLeaf, rootFlagBranch:
		record.Root = &ChildRef{
			Version: binary.BigEndian.Uint64(data[1+common.HashSize:]),
			Hash:    record.Hash,
			Leaf:    data[0] == rootFlagLeaf,
		}
	default:
		return RootRecord{}, fmt.Errorf("invalid root record encoding: unknown flag %d", data[0])
	}
	return record, nil
}

func (s *levelDbStore) GetNode(key NodeKey) (Node, error) {
	data, err := s.db.Get(nodeDbKey(key), nil)
	if err == leveldb.ErrNotFound {
		return nil, fmt.Errorf("%w: %v", ErrMissingNode, key)
	}
	if err != nil {
		return nil, err
	}
	return DecodeNode(data)
}

func (s *levelDbStore) GetValue(hash common.Hash) ([]byte, error) {
	data, err := s.db.Get(valueDbKey(hash), nil)
	if err == leveldb.ErrNotFound {
		return nil, fmt.Errorf("%w: %v", ErrMissingValue, hash)
	}
	return data, err
}

func (s *levelDbStore) Write(batch *NodeBatch) error {
	write := &leveldb.Batch{}
	for _, key := range sortedNodeKeys(batch.Nodes) {
		data, err := EncodeNode(batch.Nodes[key])
		if err != nil {
			return err
		}
		write.Put(nodeDbKey(key), data)
	}
	hashes := maps.Keys(batch.Values)
	sort.Slice(hashes, func(i, j int) bool {
		return compareHashes(hashes[i], hashes[j]) < 0
	})
	for _, hash := range hashes {
		write.Put(valueDbKey(hash), batch.Values[hash])
	}
	var height [8]byte
	for i := range batch.Roots {
		record := &batch.Roots[i]
		write.Put(rootDbKey(record.Version), encodeRootRecord(record))
		binary.BigEndian.PutUint64(height[:], record.Version)
	}
	if len(batch.Roots) > 0 {
		write.Put(heightMetadataKey, height[:])
	}
	return s.db.Write(write, writeSync)
}

func (s *levelDbStore) GetRoot(version uint64) (RootRecord, bool, error) {
	data, err := s.db.Get(rootDbKey(version), nil)
	if err == leveldb.ErrNotFound {
		return RootRecord{}, false, nil
	}
	if err != nil {
		return RootRecord{}, false, err
	}
	record, err := decodeRootRecord(version, data)
	if err != nil {
		return RootRecord{}, false, err
	}
	return record, true, nil
}

func (s *levelDbStore) GetLastVersion() (uint64, bool, error) {
	data, err := s.db.Get(heightMetadataKey, nil)
	if err == leveldb.ErrNotFound {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return binary.BigEndian.Uint64(data), true, nil
}

func (s *levelDbStore) GetOldestRetained() (uint64, error) {
	data, err := s.db.Get(retainedMetadataKey, nil)
	if err == leveldb.ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(data), nil
}

func (s *levelDbStore) VisitNodes(beforeVersion uint64, visit func(NodeKey) error) error {
	limit := make([]byte, 1+8)
	limit[0] = byte(backend.NodeKey)
	binary.BigEndian.PutUint64(limit[1:], beforeVersion)
	iter := s.db.NewIterator(&util.Range{Start: []byte{byte(backend.NodeKey)}, Limit: limit}, nil)
	defer iter.Release()
	for iter.Next() {
		raw := iter.Key()
		if len(raw) != 1+(NodeKeyEncoder{}).GetEncodedSize() {
			return fmt.Errorf("invalid node key in store: %x", raw)
		}
		var key NodeKey
		NodeKeyEncoder{}.Load(raw[1:], &key)
		if err := visit(key); err != nil {
			return err
		}
	}
	return iter.Error()
}

func (s *levelDbStore) VisitValues(visit func(common.Hash) error) error {
	iter := s.db.NewIterator(util.BytesPrefix([]byte{byte(backend.ValueKey)}), nil)
	defer iter.Release()
	for iter.Next() {
		raw := iter.Key()
		if len(raw) != 1+common.HashSize {
			return fmt.Errorf("invalid value key in store: %x", raw)
		}
		var hash common.Hash
		copy(hash[:], raw[1:])
		if err := visit(hash); err != nil {
			return err
		}
	}
	return iter.Error()
}

func (s *levelDbStore) Remove(oldestRetained uint64, nodes []NodeKey, values []common.Hash) error {
	write := &leveldb.Batch{}
	for _, key := range nodes {
		write.Delete(nodeDbKey(key))
	}
	for _, hash := range values {
		write.Delete(valueDbKey(hash))
	}
	var retained [8]byte
	binary.BigEndian.PutUint64(retained[:], oldestRetained)
	write.Put(retainedMetadataKey, retained[:])
	return s.db.Write(write, writeSync)
}

func (s *levelDbStore) Flush() error {
	return nil // all writes are synced batches
}

func (s *levelDbStore) Close() error {
	if s.owned != nil {
		return s.owned.Close()
	}
	return nil
}

// sortedNodeKeys returns the keys of the given node map in the deterministic
// version-major order also used on disk.
func sortedNodeKeys(nodes map[NodeKey]Node) []NodeKey {
	keys := maps.Keys(nodes)
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Version != keys[j].Version {
			return keys[i].Version < keys[j].Version
		}
		a, b := keys[i].Path, keys[j].Path
		if a.length != b.length {
			return a.length < b.length
		}
		for p := 0; p < a.Length(); p++ {
			if a.Get(p) != b.Get(p) {
				return a.Get(p) < b.Get(p)
			}
		}
		return false
	})
	return keys
}

func compareHashes(a, b common.Hash) int {
	for i := 0; i < common.HashSize; i++ {
		if a[i] != b[i] {
			return int(a[i]) - int(b[i])
		}
	}
	return 0
}
