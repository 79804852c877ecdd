// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package jmt implements an authenticated, versioned key-value store based
// on a radix-16 Merkle tree with structural sharing across versions.
//
// Every committed block produces a new immutable version of the full state,
// identified by a single root digest. Nodes are addressed by (version, path)
// pairs and are never mutated once written; a new version creates nodes only
// along the paths it touches and references all unaffected sub-trees of the
// previous version by their unchanged addresses.
//
// The package provides:
//   - the tree engine computing the node set and root digest of a new
//     version from a batch of key writes and deletes (tree.go)
//   - inclusion and exclusion proofs for any key at any retained version,
//     and their verification (proof.go)
//   - the Archive, tracking per-block roots, serving historic queries, and
//     reclaiming nodes unreachable from any retained version (archive.go,
//     pruning.go)
//   - node stores mapping node addresses to a physical LevelDB instance or
//     to memory (store.go)
package jmt
