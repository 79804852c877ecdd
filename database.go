// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package grug

import (
	"fmt"
	"sync"

	"github.com/yanglaolee/grug/common"
	"github.com/yanglaolee/grug/database/jmt"
)

// Database is the public interface of a versioned, authenticated key/value
// store. New blocks are appended at the head, each producing an immutable,
// individually provable version of the full key space.
//
// At any time, only one thread can add a new block. Many threads may query
// the history at the same time.
type Database interface {
	// AddBlock appends a new block. The callback receives a context
	// collecting the block's writes; the block is committed atomically
	// when the callback returns without error and discarded otherwise.
	AddBlock(block uint64, run func(BlockContext) error) error

	// QueryBlock provides read-only access to the given block's version.
	// All reads within the callback observe the same consistent version;
	// the version is protected from pruning until the callback returns.
	// PruneTo must not be called from within the callback.
	QueryBlock(block uint64, run func(QueryContext)) error

	// GetBlockHeight returns the last committed block, or -1 if no block
	// has been committed yet.
	GetBlockHeight() (int64, error)

	// GetHash returns the root digest authenticating the given block's
	// version. Digests remain available for pruned blocks.
	GetHash(block uint64) (common.Hash, error)

	// PruneTo removes all versions older than the given block and
	// reclaims the storage they exclusively occupy.
	PruneTo(block uint64) error

	// VerifyBlock audits the integrity of the given block's version.
	VerifyBlock(block uint64) error

	// Flush persists all committed state to the database directory.
	Flush() error

	// Close flushes and releases the database. No further operations are
	// allowed afterwards.
	Close() error
}

// BlockContext collects the writes of one block being added.
type BlockContext interface {
	// Put assigns a value to a key in the block under construction.
	Put(key, value []byte)
	// Delete removes a key in the block under construction. Deleting an
	// absent key is a no-op.
	Delete(key []byte)
}

// QueryContext provides read access to a single committed version. Errors
// encountered by reads are collected internally and reported by the
// enclosing QueryBlock call; after a failure, reads return zero values.
type QueryContext interface {
	// Get returns the value of the key, or nil if the key is absent.
	Get(key []byte) []byte
	// Has reports whether the key is present.
	Has(key []byte) bool
	// GetProof creates a witness for the key's current value or absence.
	GetProof(key []byte) jmt.Proof
}

// OpenDatabase opens the database located in the given directory, creating
// it if needed. Any database successfully opened by this function must
// eventually be closed.
func OpenDatabase(directory string) (Database, error) {
	archive, err := jmt.OpenArchive(directory, jmt.KeccakConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open database in %s: %w", directory, err)
	}
	return &database{archive: archive}, nil
}

// OpenInMemoryDatabase creates a volatile database, mainly for tests.
func OpenInMemoryDatabase() Database {
	return &database{archive: jmt.OpenInMemoryArchive(jmt.KeccakConfig)}
}

type database struct {
	archive *jmt.Archive
	// addMutex serializes AddBlock calls so that at most one block
	// context is under construction at a time.
	addMutex sync.Mutex
}

func (d *database) AddBlock(block uint64, run func(BlockContext) error) error {
	d.addMutex.Lock()
	defer d.addMutex.Unlock()
	ctx := &blockContext{}
	if err := run(ctx); err != nil {
		return err // block aborted, nothing was committed
	}
	return d.archive.Add(block, ctx.update)
}

func (d *database) QueryBlock(block uint64, run func(QueryContext)) error {
	view, err := d.archive.GetView(block)
	if err != nil {
		return err
	}
	defer view.Release()
	ctx := &queryContext{view: view}
	run(ctx)
	return ctx.err
}

func (d *database) GetBlockHeight() (int64, error) {
	height, exists, err := d.archive.GetBlockHeight()
	if err != nil {
		return -1, err
	}
	if !exists {
		return -1, nil
	}
	return int64(height), nil
}

func (d *database) GetHash(block uint64) (common.Hash, error) {
	return d.archive.GetHash(block)
}

func (d *database) PruneTo(block uint64) error {
	return d.archive.PruneTo(block)
}

func (d *database) VerifyBlock(block uint64) error {
	return d.archive.VerifyVersion(block)
}

func (d *database) Flush() error {
	return d.archive.Flush()
}

func (d *database) Close() error {
	return d.archive.Close()
}

type blockContext struct {
	update common.Update
}

func (c *blockContext) Put(key, value []byte) {
	c.update.AppendPut(key, value)
}

func (c *blockContext) Delete(key []byte) {
	c.update.AppendDelete(key)
}
