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
	"testing"
)

func TestNodeKey_Print(t *testing.T) {
	key := NodeKey{Version: 12, Path: CreatePathFromNibbles([]Nibble{0xA, 0xB})}
	if got, want := key.String(), "12/ab"; got != want {
		t.Errorf("invalid print, got %s, want %s", got, want)
	}
}

func TestNodeKeyEncoder_RoundTrip(t *testing.T) {
	keys := []NodeKey{
		{},
		{Version: 1, Path: EmptyPath()},
		{Version: 42, Path: CreatePathFromNibbles([]Nibble{1, 2, 3})},
		{Version: ^uint64(0), Path: CreatePathFromNibbles([]Nibble{0xF, 0xF})},
	}
	encoder := NodeKeyEncoder{}
	for _, key := range keys {
		data := make([]byte, encoder.GetEncodedSize())
		encoder.Store(data, &key)
		var restored NodeKey
		encoder.Load(data, &restored)
		if restored != key {
			t.Errorf("key %v not restored, got %v", key, restored)
		}
	}
}

func TestNodeKeyEncoder_OrderIsVersionMajor(t *testing.T) {
	encoder := NodeKeyEncoder{}
	encode := func(key NodeKey) []byte {
		data := make([]byte, encoder.GetEncodedSize())
		encoder.Store(data, &key)
		return data
	}
	low := encode(NodeKey{Version: 1, Path: CreatePathFromNibbles([]Nibble{0xF, 0xF, 0xF})})
	high := encode(NodeKey{Version: 2, Path: EmptyPath()})
	if bytes.Compare(low, high) >= 0 {
		t.Errorf("encoded keys are not ordered by version first")
	}
}
