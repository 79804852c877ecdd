// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package common

import (
	"encoding/hex"
)

// HashSize is the size of a Hash in bytes.
const HashSize = 32

// Hash is a 256-bit digest as produced by the configured hashing provider.
// It is used for key digests, value hashes, and node hashes alike.
type Hash [HashSize]byte

// HashFromBytes creates a Hash from the given slice. Inputs longer than
// HashSize are truncated, shorter inputs are zero-padded at the end.
func HashFromBytes(data []byte) Hash {
	var h Hash
	copy(h[:], data)
	return h
}

func (h Hash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}
