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
	"bytes"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/yanglaolee/grug/common"
)

func TestArchive_AddAndQueryVersions(t *testing.T) {
	archive := OpenInMemoryArchive(KeccakConfig)
	defer archive.Close()

	update := common.Update{}
	update.AppendPut([]byte("apple"), []byte("red"))
	update.AppendPut([]byte("pear"), []byte("green"))
	if err := archive.Add(0, update); err != nil {
		t.Fatalf("failed to add block 0: %v", err)
	}

	update = common.Update{}
	update.AppendPut([]byte("apple"), []byte("yellow"))
	update.AppendDelete([]byte("pear"))
	if err := archive.Add(1, update); err != nil {
		t.Fatalf("failed to add block 1: %v", err)
	}

	tests := []struct {
		block  uint64
		key    string
		value  string
		exists bool
	}{
		{0, "apple", "red", true},
		{0, "pear", "green", true},
		{1, "apple", "yellow", true},
		{1, "pear", "", false},
		{0, "plum", "", false},
	}
	for _, test := range tests {
		value, exists, err := archive.GetValue(test.block, []byte(test.key))
		if err != nil {
			t.Fatalf("failed to get %s at block %d: %v", test.key, test.block, err)
		}
		if exists != test.exists {
			t.Errorf("presence of %s at block %d, got %t, want %t", test.key, test.block, exists, test.exists)
		}
		if exists && !bytes.Equal(value, []byte(test.value)) {
			t.Errorf("value of %s at block %d, got %s, want %s", test.key, test.block, value, test.value)
		}
	}
}

func TestArchive_BlockHeightTracking(t *testing.T) {
	archive := OpenInMemoryArchive(KeccakConfig)
	defer archive.Close()

	if _, exists, err := archive.GetBlockHeight(); err != nil || exists {
		t.Fatalf("fresh archive reports a block height: %t, %v", exists, err)
	}

	update := common.Update{}
	update.AppendPut([]byte("key"), []byte("value"))
	if err := archive.Add(5, update); err != nil {
		t.Fatalf("failed to add block: %v", err)
	}

	height, exists, err := archive.GetBlockHeight()
	if err != nil || !exists {
		t.Fatalf("block height not available: %t, %v", exists, err)
	}
	if height != 5 {
		t.Errorf("invalid block height, got %d, want %d", height, 5)
	}
}

func TestArchive_RejectsOutOfOrderBlocks(t *testing.T) {
	archive := OpenInMemoryArchive(KeccakConfig)
	defer archive.Close()

	update := common.Update{}
	update.AppendPut([]byte("key"), []byte("value"))
	if err := archive.Add(2, update); err != nil {
		t.Fatalf("failed to add block 2: %v", err)
	}
	for _, block := range []uint64{0, 1, 2} {
		if err := archive.Add(block, update); err == nil {
			t.Errorf("adding block %d after block 2 succeeded", block)
		}
	}
	// rejected additions must not poison the archive
	if err := archive.Add(3, update); err != nil {
		t.Errorf("archive unusable after rejected additions: %v", err)
	}
}

func TestArchive_SkippedBlocksAdoptPredecessorContent(t *testing.T) {
	archive := OpenInMemoryArchive(KeccakConfig)
	defer archive.Close()

	update := common.Update{}
	update.AppendPut([]byte("key"), []byte("value"))
	if err := archive.Add(1, update); err != nil {
		t.Fatalf("failed to add block 1: %v", err)
	}
	update = common.Update{}
	update.AppendPut([]byte("key"), []byte("updated"))
	if err := archive.Add(4, update); err != nil {
		t.Fatalf("failed to add block 4: %v", err)
	}

	// block 0 is an empty predecessor, blocks 2 and 3 share block 1
	if value, exists, err := archive.GetValue(0, []byte("key")); err != nil || exists {
		t.Errorf("block 0 is not empty: %s, %t, %v", value, exists, err)
	}
	for _, block := range []uint64{1, 2, 3} {
		value, exists, err := archive.GetValue(block, []byte("key"))
		if err != nil || !exists || !bytes.Equal(value, []byte("value")) {
			t.Errorf("block %d does not share block 1, got %s, %t, %v", block, value, exists, err)
		}
	}
	if value, _, _ := archive.GetValue(4, []byte("key")); !bytes.Equal(value, []byte("updated")) {
		t.Errorf("block 4 has wrong value: %s", value)
	}

	hash1, err1 := archive.GetHash(1)
	hash3, err3 := archive.GetHash(3)
	if err1 != nil || err3 != nil || hash1 != hash3 {
		t.Errorf("skipped blocks do not share the predecessor digest: %v vs %v", hash1, hash3)
	}
}

func TestArchive_QueriesBeyondHeightFail(t *testing.T) {
	archive := OpenInMemoryArchive(KeccakConfig)
	defer archive.Close()

	if _, _, err := archive.GetValue(0, []byte("key")); !errors.Is(err, ErrVersionNotFound) {
		t.Errorf("query on empty archive, got error %v, want %v", err, ErrVersionNotFound)
	}

	update := common.Update{}
	update.AppendPut([]byte("key"), []byte("value"))
	if err := archive.Add(0, update); err != nil {
		t.Fatalf("failed to add block: %v", err)
	}
	if _, _, err := archive.GetValue(1, []byte("key")); !errors.Is(err, ErrVersionNotFound) {
		t.Errorf("query beyond height, got error %v, want %v", err, ErrVersionNotFound)
	}
	if _, err := archive.GetHash(1); !errors.Is(err, ErrVersionNotFound) {
		t.Errorf("hash query beyond height, got error %v, want %v", err, ErrVersionNotFound)
	}
}

func TestArchive_ProofsVerifyAgainstBlockDigests(t *testing.T) {
	archive := OpenInMemoryArchive(KeccakConfig)
	defer archive.Close()

	update := common.Update{}
	update.AppendPut([]byte("apple"), []byte("red"))
	if err := archive.Add(0, update); err != nil {
		t.Fatalf("failed to add block 0: %v", err)
	}
	update = common.Update{}
	update.AppendDelete([]byte("apple"))
	if err := archive.Add(1, update); err != nil {
		t.Fatalf("failed to add block 1: %v", err)
	}

	hash0, err := archive.GetHash(0)
	if err != nil {
		t.Fatalf("failed to get hash of block 0: %v", err)
	}
	hash1, err := archive.GetHash(1)
	if err != nil {
		t.Fatalf("failed to get hash of block 1: %v", err)
	}

	proof, err := archive.GetProof(0, []byte("apple"))
	if err != nil {
		t.Fatalf("failed to create proof: %v", err)
	}
	if !proof.Verify(KeccakConfig.Hasher, hash0, []byte("apple"), []byte("red")) {
		t.Errorf("inclusion proof for block 0 rejected")
	}
	if proof.Verify(KeccakConfig.Hasher, hash1, []byte("apple"), []byte("red")) {
		t.Errorf("proof for block 0 accepted under block 1's digest")
	}

	proof, err = archive.GetProof(1, []byte("apple"))
	if err != nil {
		t.Fatalf("failed to create proof: %v", err)
	}
	if !proof.Verify(KeccakConfig.Hasher, hash1, []byte("apple"), nil) {
		t.Errorf("exclusion proof for block 1 rejected")
	}
}

func TestArchive_VerifyVersionAcceptsIntactVersions(t *testing.T) {
	archive := OpenInMemoryArchive(KeccakConfig)
	defer archive.Close()

	for block := uint64(0); block < 5; block++ {
		update := common.Update{}
		update.AppendPut([]byte(fmt.Sprintf("key-%d", block)), []byte(fmt.Sprintf("value-%d", block)))
		if block%2 == 1 {
			update.AppendDelete([]byte(fmt.Sprintf("key-%d", block-1)))
		}
		if err := archive.Add(block, update); err != nil {
			t.Fatalf("failed to add block %d: %v", block, err)
		}
	}
	for block := uint64(0); block < 5; block++ {
		if err := archive.VerifyVersion(block); err != nil {
			t.Errorf("intact version %d failed verification: %v", block, err)
		}
	}
}

func TestArchive_VerifyVersionDetectsMissingValue(t *testing.T) {
	store := NewInMemoryStore()
	archive := NewArchive(store, KeccakConfig)
	defer archive.Close()

	update := common.Update{}
	update.AppendPut([]byte("key"), []byte("value"))
	if err := archive.Add(0, update); err != nil {
		t.Fatalf("failed to add block: %v", err)
	}

	// damage the store by removing the stored value
	valueHash := KeccakConfig.Hasher.Hash([]byte("value"))
	if err := store.Remove(0, nil, []common.Hash{valueHash}); err != nil {
		t.Fatalf("failed to damage store: %v", err)
	}
	if err := archive.VerifyVersion(0); err == nil {
		t.Errorf("verification of a damaged version succeeded")
	}
}

func TestArchive_StoreFailuresAreSticky(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockNodeStore(ctrl)
	injected := fmt.Errorf("injected write failure")
	store.EXPECT().GetLastVersion().Return(uint64(0), false, nil)
	store.EXPECT().Write(gomock.Any()).Return(injected)

	archive := NewArchive(store, KeccakConfig)
	update := common.Update{}
	update.AppendPut([]byte("key"), []byte("value"))
	if err := archive.Add(0, update); !errors.Is(err, injected) {
		t.Fatalf("write failure not forwarded, got %v", err)
	}
	// all further modifications must fail without touching the store
	if err := archive.Add(1, update); err == nil {
		t.Errorf("addition to a failed archive succeeded")
	}
	if err := archive.Flush(); err == nil {
		t.Errorf("flush of a failed archive succeeded")
	}
}

func TestArchive_ConcurrentReadsDuringAdds(t *testing.T) {
	archive := OpenInMemoryArchive(KeccakConfig)
	defer archive.Close()

	update := common.Update{}
	update.AppendPut([]byte("key"), []byte("value-0"))
	if err := archive.Add(0, update); err != nil {
		t.Fatalf("failed to add block 0: %v", err)
	}

	const blocks = 20
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for block := uint64(1); block < blocks; block++ {
			update := common.Update{}
			update.AppendPut([]byte("key"), []byte(fmt.Sprintf("value-%d", block)))
			if err := archive.Add(block, update); err != nil {
				t.Errorf("failed to add block %d: %v", block, err)
				return
			}
		}
	}()

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				value, exists, err := archive.GetValue(0, []byte("key"))
				if err != nil || !exists || !bytes.Equal(value, []byte("value-0")) {
					t.Errorf("committed version changed under concurrent adds: %s, %t, %v", value, exists, err)
					return
				}
			}
		}()
	}
	wg.Wait()
}
