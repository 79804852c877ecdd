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
	"errors"
	"fmt"
	"sync"

	"github.com/yanglaolee/grug/common"
)

const (
	// ErrVersionNotFound is produced when a queried version is above the
	// archive's current block height.
	ErrVersionNotFound = common.ConstError("version not found")

	// ErrVersionNotRetained is produced when a queried version has been
	// removed by pruning.
	ErrVersionNotRetained = common.ConstError("version no longer retained")
)

// Archive is a versioned, authenticated key/value store. Each Add commits
// one block's writes as a new immutable version; any retained version can be
// queried, proven, and verified afterwards. Unmodified sub-trees are shared
// between versions, and PruneTo reclaims the versions no longer needed.
//
// Add is restricted to a single writer at a time, while reads of committed
// versions may run concurrently with each other and with Add.
type Archive struct {
	store  NodeStore
	source *cachedNodeSource
	config Config

	// addMutex serializes Add operations and pruning.
	addMutex sync.Mutex

	// retentionMutex fences readers against the pruning sweep: readers
	// hold it shared for the duration of a version access, PruneTo holds
	// it exclusively while removing nodes.
	retentionMutex sync.RWMutex

	// archiveError is a sticky error; once set, the archive only accepts
	// reads and refuses any further modification.
	errorMutex   sync.Mutex
	archiveError error
}

// OpenArchive opens an archive backed by a LevelDB instance in the given
// directory, creating it if needed.
func OpenArchive(directory string, config Config) (*Archive, error) {
	store, err := OpenLevelDbStore(directory)
	if err != nil {
		return nil, err
	}
	return NewArchive(store, config), nil
}

// OpenInMemoryArchive creates an archive on a volatile in-memory store,
// mainly intended for tests.
func OpenInMemoryArchive(config Config) *Archive {
	return NewArchive(NewInMemoryStore(), config)
}

// NewArchive creates an archive on the given node store. The archive takes
// ownership of the store and closes it on Close.
func NewArchive(store NodeStore, config Config) *Archive {
	return &Archive{
		store:  store,
		source: newCachedNodeSource(store, DefaultNodeCacheSize),
		config: config,
	}
}

// Add commits the given update as the version of the given block. Blocks
// must be added in increasing order, but gaps are allowed: skipped blocks
// adopt the content of their predecessor and remain queryable. Applying the
// update and persisting the resulting version is atomic.
func (a *Archive) Add(block uint64, update common.Update) error {
	a.addMutex.Lock()
	defer a.addMutex.Unlock()
	if err := a.getError(); err != nil {
		return err
	}

	prior := RootRecord{}
	next := uint64(0)
	if height, exists, err := a.store.GetLastVersion(); err != nil {
		return a.noteError(err)
	} else if exists {
		if block <= height {
			return fmt.Errorf("block %d already present, highest is %d", block, height)
		}
		record, found, err := a.store.GetRoot(height)
		if err != nil {
			return a.noteError(err)
		}
		if !found {
			return a.noteError(fmt.Errorf("corrupted store: missing root record for version %d", height))
		}
		prior = record
		next = height + 1
	}

	batch, err := applyUpdate(a.source, &a.config, prior, block, update)
	if err != nil {
		if isUpdateError(err) {
			return err // invalid input, the archive remains usable
		}
		return a.noteError(err)
	}
	if next < block {
		// skipped blocks share the predecessor's tree
		fills := make([]RootRecord, 0, block-next)
		for version := next; version < block; version++ {
			fills = append(fills, RootRecord{
				Version: version,
				Hash:    prior.Hash,
				Root:    prior.Root,
			})
		}
		batch.Roots = append(fills, batch.Roots...)
	}
	if err := a.store.Write(batch); err != nil {
		return a.noteError(err)
	}
	return nil
}

// GetValue retrieves the value of the given key in the given block's
// version, reporting whether the key is present in that version.
func (a *Archive) GetValue(block uint64, key []byte) ([]byte, bool, error) {
	view, err := a.GetView(block)
	if err != nil {
		return nil, false, err
	}
	defer view.Release()
	return view.GetValue(key)
}

// GetProof creates a proof of the given key's presence or absence in the
// given block's version. The proof verifies against the block's root digest.
func (a *Archive) GetProof(block uint64, key []byte) (Proof, error) {
	view, err := a.GetView(block)
	if err != nil {
		return Proof{}, err
	}
	defer view.Release()
	return view.GetProof(key)
}

// View is a read-only view of one block's version. While a view is open, the
// version is pinned: pruning cannot remove it, and all reads through the view
// observe the same consistent state. A view must be released exactly once.
type View struct {
	archive *Archive
	record  RootRecord
}

// GetView pins the given block's version for reading. The version must be
// retained at call time.
func (a *Archive) GetView(block uint64) (*View, error) {
	a.retentionMutex.RLock()
	record, err := a.getRetainedRoot(block)
	if err != nil {
		a.retentionMutex.RUnlock()
		return nil, err
	}
	return &View{archive: a, record: record}, nil
}

// GetValue retrieves the value of the given key in the viewed version,
// reporting whether the key is present.
func (v *View) GetValue(key []byte) ([]byte, bool, error) {
	return getValue(v.archive.source, &v.archive.config, v.record.Root, key)
}

// GetProof creates a proof of the given key's presence or absence in the
// viewed version.
func (v *View) GetProof(key []byte) (Proof, error) {
	return createProof(v.archive.source, &v.archive.config, v.record.Root, key)
}

// GetHash returns the root digest of the viewed version.
func (v *View) GetHash() common.Hash {
	return v.record.Hash
}

// Release unpins the viewed version, allowing pruning to proceed past it.
func (v *View) Release() {
	v.archive.retentionMutex.RUnlock()
}

// GetHash retrieves the root digest of the given block's version. Root
// digests survive pruning, so this also succeeds for pruned blocks up to
// the current height.
func (a *Archive) GetHash(block uint64) (common.Hash, error) {
	record, err := a.getRoot(block)
	if err != nil {
		return common.Hash{}, err
	}
	return record.Hash, nil
}

// GetBlockHeight returns the highest committed block. The exists flag is
// false for an archive no block was ever added to.
func (a *Archive) GetBlockHeight() (uint64, bool, error) {
	return a.store.GetLastVersion()
}

// GetOldestRetainedBlock returns the oldest block whose version is still
// fully retained. It is zero for an archive that was never pruned.
func (a *Archive) GetOldestRetainedBlock() (uint64, error) {
	return a.store.GetOldestRetained()
}

// Flush syncs buffered state to the backend.
func (a *Archive) Flush() error {
	if err := a.getError(); err != nil {
		return err
	}
	if err := a.store.Flush(); err != nil {
		return a.noteError(err)
	}
	return nil
}

// Close flushes and releases the archive and its store.
func (a *Archive) Close() error {
	return errors.Join(
		a.Flush(),
		a.store.Close(),
	)
}

// getRoot resolves the root record of a block up to the current height.
func (a *Archive) getRoot(block uint64) (RootRecord, error) {
	height, exists, err := a.store.GetLastVersion()
	if err != nil {
		return RootRecord{}, err
	}
	if !exists || block > height {
		return RootRecord{}, fmt.Errorf("%w: block %d", ErrVersionNotFound, block)
	}
	record, found, err := a.store.GetRoot(block)
	if err != nil {
		return RootRecord{}, err
	}
	if !found {
		return RootRecord{}, fmt.Errorf("corrupted store: missing root record for version %d", block)
	}
	return record, nil
}

// getRetainedRoot resolves the root record of a block and rejects blocks
// removed by pruning. Callers must hold the retention mutex.
func (a *Archive) getRetainedRoot(block uint64) (RootRecord, error) {
	oldest, err := a.store.GetOldestRetained()
	if err != nil {
		return RootRecord{}, err
	}
	if block < oldest {
		return RootRecord{}, fmt.Errorf("%w: block %d, oldest retained is %d", ErrVersionNotRetained, block, oldest)
	}
	return a.getRoot(block)
}

func (a *Archive) getError() error {
	a.errorMutex.Lock()
	defer a.errorMutex.Unlock()
	return a.archiveError
}

// noteError makes the given error sticky, fusing the archive against
// further modifications, and returns it.
func (a *Archive) noteError(err error) error {
	a.errorMutex.Lock()
	defer a.errorMutex.Unlock()
	if a.archiveError == nil {
		a.archiveError = fmt.Errorf("archive is in an invalid state: %w", err)
	}
	return a.archiveError
}

// isUpdateError reports whether an error was caused by invalid update input
// rather than by a store failure.
func isUpdateError(err error) bool {
	return errors.Is(err, ErrMalformedKey)
}
