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

import "github.com/yanglaolee/grug/common"

// Config summarizes the configuration options of a tree instance. Instances
// created with different configurations are not compatible: changing the
// hashing provider changes every key path and root digest in the store.
type Config struct {
	// A describing name of this configuration. It has no effect except
	// for debugging and error reporting.
	Name string

	// Hasher is the hashing provider used for key digesting and node
	// hashing.
	Hasher Hasher
}

// KeccakConfig is the default configuration, hashing with the legacy
// Keccak256.
var KeccakConfig = Config{
	Name:   "keccak",
	Hasher: keccakHasher{},
}

// Blake2bConfig hashes with BLAKE2b-256 instead of Keccak256.
var Blake2bConfig = Config{
	Name:   "blake2b",
	Hasher: blake2bHasher{},
}

// hashKey digests an application-level key into the fixed-width digest
// defining its navigation path in the tree.
func (c *Config) hashKey(key []byte) common.Hash {
	return c.Hasher.Hash(key)
}
