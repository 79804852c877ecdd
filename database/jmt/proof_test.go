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
	"testing"

	"github.com/yanglaolee/grug/common"
)

func TestProof_InclusionProofsVerify(t *testing.T) {
	store := NewInMemoryStore()
	update := common.Update{}
	keys := [][]byte{{0x10}, {0x11}, {0x21}, {0xF0}, {0xFF}}
	for i, key := range keys {
		update.AppendPut(key, []byte(fmt.Sprintf("value-%d", i)))
	}
	record := commit(t, store, &KeccakConfig, RootRecord{}, 0, update)

	for i, key := range keys {
		proof, err := createProof(store, &KeccakConfig, record.Root, key)
		if err != nil {
			t.Fatalf("failed to create proof for key %x: %v", key, err)
		}
		value := []byte(fmt.Sprintf("value-%d", i))
		if !proof.Verify(KeccakConfig.Hasher, record.Hash, key, value) {
			t.Errorf("valid inclusion proof for key %x rejected", key)
		}
	}
}

func TestProof_ExclusionProofsVerify(t *testing.T) {
	store := NewInMemoryStore()
	update := common.Update{}
	update.AppendPut([]byte{0x10}, []byte("a"))
	update.AppendPut([]byte{0x11}, []byte("b"))
	record := commit(t, store, &KeccakConfig, RootRecord{}, 0, update)

	for _, key := range [][]byte{{0x42}, {0x99, 0x99}, []byte("never inserted")} {
		proof, err := createProof(store, &KeccakConfig, record.Root, key)
		if err != nil {
			t.Fatalf("failed to create proof for key %x: %v", key, err)
		}
		if !proof.Verify(KeccakConfig.Hasher, record.Hash, key, nil) {
			t.Errorf("valid exclusion proof for key %x rejected", key)
		}
	}
}

func TestProof_ExclusionProofOnEmptyTree(t *testing.T) {
	store := NewInMemoryStore()
	proof, err := createProof(store, &KeccakConfig, nil, []byte("key"))
	if err != nil {
		t.Fatalf("failed to create proof: %v", err)
	}
	if !proof.Verify(KeccakConfig.Hasher, EmptyDigest, []byte("key"), nil) {
		t.Errorf("exclusion proof on empty tree rejected")
	}
}

func TestProof_ExclusionWitnessedBySurrogateLeaf(t *testing.T) {
	store := NewInMemoryStore()
	update := common.Update{}
	update.AppendPut([]byte{0x11}, []byte("a"))
	record := commit(t, store, &testConfig, RootRecord{}, 0, update)

	// key 0x11,0x01 descends onto the leaf of key 0x11
	absent := []byte{0x11, 0x01}
	proof, err := createProof(store, &testConfig, record.Root, absent)
	if err != nil {
		t.Fatalf("failed to create proof: %v", err)
	}
	if proof.Leaf == nil {
		t.Fatalf("expected a surrogate leaf witnessing the absence")
	}
	if !proof.Verify(testConfig.Hasher, record.Hash, absent, nil) {
		t.Errorf("surrogate exclusion proof rejected")
	}
}

func TestProof_RejectsWrongClaims(t *testing.T) {
	store := NewInMemoryStore()
	update := common.Update{}
	update.AppendPut([]byte{0x10}, []byte("a"))
	update.AppendPut([]byte{0x11}, []byte("b"))
	update.AppendPut([]byte{0x21}, []byte("c"))
	record := commit(t, store, &KeccakConfig, RootRecord{}, 0, update)

	proof, err := createProof(store, &KeccakConfig, record.Root, []byte{0x10})
	if err != nil {
		t.Fatalf("failed to create proof: %v", err)
	}

	if proof.Verify(KeccakConfig.Hasher, record.Hash, []byte{0x10}, []byte("wrong")) {
		t.Errorf("proof accepted a wrong value")
	}
	if proof.Verify(KeccakConfig.Hasher, record.Hash, []byte{0x10}, nil) {
		t.Errorf("proof of a present key accepted an absence claim")
	}
	if proof.Verify(KeccakConfig.Hasher, record.Hash, []byte{0x11}, []byte("a")) {
		t.Errorf("proof accepted a different key")
	}
	if proof.Verify(KeccakConfig.Hasher, common.Hash{42}, []byte{0x10}, []byte("a")) {
		t.Errorf("proof accepted under a wrong root digest")
	}
}

func TestProof_TamperedProofsAreRejected(t *testing.T) {
	store := NewInMemoryStore()
	update := common.Update{}
	update.AppendPut([]byte{0x10}, []byte("a"))
	update.AppendPut([]byte{0x11}, []byte("b"))
	record := commit(t, store, &KeccakConfig, RootRecord{}, 0, update)

	fresh := func() Proof {
		proof, err := createProof(store, &KeccakConfig, record.Root, []byte{0x10})
		if err != nil {
			t.Fatalf("failed to create proof: %v", err)
		}
		return proof
	}

	tampered := fresh()
	tampered.Leaf.ValueHash[0] ^= 0xFF
	if tampered.Verify(KeccakConfig.Hasher, record.Hash, []byte{0x10}, []byte("a")) {
		t.Errorf("proof with tampered leaf accepted")
	}

	tampered = fresh()
	tampered.Steps[0].Slots[0][0] ^= 0xFF
	if tampered.Verify(KeccakConfig.Hasher, record.Hash, []byte{0x10}, []byte("a")) {
		t.Errorf("proof with tampered sibling slot accepted")
	}

	tampered = fresh()
	tampered.Steps = tampered.Steps[:len(tampered.Steps)-1]
	if tampered.Verify(KeccakConfig.Hasher, record.Hash, []byte{0x10}, []byte("a")) {
		t.Errorf("proof with truncated steps accepted")
	}
}

func TestProof_StepsAreOrderedLeafToRoot(t *testing.T) {
	store := NewInMemoryStore()
	update := common.Update{}
	update.AppendPut([]byte{0x11}, []byte("a")) // nibbles 1,1,...
	update.AppendPut([]byte{0x12}, []byte("b")) // nibbles 1,2,...
	record := commit(t, store, &testConfig, RootRecord{}, 0, update)

	proof, err := createProof(store, &testConfig, record.Root, []byte{0x11})
	if err != nil {
		t.Fatalf("failed to create proof: %v", err)
	}
	if got, want := len(proof.Steps), 2; got != want {
		t.Fatalf("invalid number of steps, got %d, want %d", got, want)
	}
	// the step next to the leaf descends slot 1 at depth 1, the root step
	// descends slot 1 at depth 0; the leaf-level step must come first
	if proof.Steps[0].Index != 1 || proof.Steps[1].Index != 1 {
		t.Errorf("unexpected step indices: %v, %v", proof.Steps[0].Index, proof.Steps[1].Index)
	}
	if proof.Steps[0].Slots[2] == EmptyDigest {
		t.Errorf("leaf-level step does not witness the sibling in slot 2")
	}
	if proof.Steps[1].Slots[2] != EmptyDigest {
		t.Errorf("root step witnesses a sibling that does not exist")
	}
}

func TestCreateProof_RejectsEmptyKey(t *testing.T) {
	store := NewInMemoryStore()
	if _, err := createProof(store, &KeccakConfig, nil, []byte{}); err == nil {
		t.Errorf("proof creation for empty key succeeded")
	}
}
