// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package backend

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// TableSpace divides the key-value storage into spaces by adding a prefix
// byte to each key.
type TableSpace byte

const (
	// NodeKey is the tablespace for trie nodes, addressed by node keys.
	NodeKey TableSpace = 'N'
	// ValueKey is the tablespace for raw values, addressed by content hash.
	ValueKey TableSpace = 'V'
	// RootKey is the tablespace for per-version root records.
	RootKey TableSpace = 'R'
	// MetadataKey is the tablespace for store metadata (height, retention).
	MetadataKey TableSpace = 'M'
)

// ToDBKey prefixes the given key with its table space.
func ToDBKey(t TableSpace, key []byte) []byte {
	res := make([]byte, 0, len(key)+1)
	res = append(res, byte(t))
	return append(res, key...)
}

// LevelDB is an interface missing in the original LevelDB design.
// It contains methods common for transactional and non-transactional LevelDB
// instances allowing for transparent switching between them, and enables
// substituting the physical backend in tests.
type LevelDB interface {

	// Get gets the value for the given key. It returns ErrNotFound if the
	// DB does not contain the key.
	//
	// The returned slice is its own copy, it is safe to modify the contents
	// of the returned slice.
	// It is safe to modify the contents of the argument after Get returns.
	Get(key []byte, ro *opt.ReadOptions) (value []byte, err error)

	// Has returns true if the DB does contain the given key.
	//
	// It is safe to modify the contents of the argument after Has returns.
	Has(key []byte, ro *opt.ReadOptions) (bool, error)

	// NewIterator returns an iterator for the latest snapshot of the
	// underlying DB.
	// The returned iterator is not safe for concurrent use, but it is safe to
	// use multiple iterators concurrently, with each in a dedicated goroutine.
	//
	// Slice allows slicing the iterator to only contain keys in the given
	// range. A nil Range.Start is treated as a key before all keys in the
	// DB. And a nil Range.Limit is treated as a key after all keys in
	// the DB.
	//
	// The iterator must be released after use, by calling the Release method.
	NewIterator(slice *util.Range, ro *opt.ReadOptions) iterator.Iterator

	// Put sets the value for the given key. It overwrites any previous value
	// for that key; a DB is not a multi-map.
	//
	// It is safe to modify the contents of the arguments after Put returns.
	Put(key, value []byte, wo *opt.WriteOptions) error

	// Delete deletes the value for the given key.
	//
	// It is safe to modify the contents of the arguments after Delete returns.
	Delete(key []byte, wo *opt.WriteOptions) error

	// Write applies the given batch to the DB. The batch records will be
	// applied sequentially. The write is atomic: either all records of the
	// batch become visible or none do.
	//
	// It is safe to modify the contents of the arguments after Write returns
	// but not before. Write will not modify the content of the batch.
	Write(batch *leveldb.Batch, wo *opt.WriteOptions) error
}

// OpenLevelDb opens the LevelDB instance in the given directory.
func OpenLevelDb(path string, options *opt.Options) (*leveldb.DB, error) {
	return leveldb.OpenFile(path, options)
}
