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

import "bytes"

// Update summarizes the effective changes to the state at the end of a block.
// It is an ordered list of key writes, where a nil value requests the removal
// of the key.
//
// An example use of an update would look like this:
//
//	// Create an update.
//	update := Update{}
//	// Fill in changes.
//	update.AppendPut(keyA, valueA)
//	update.AppendDelete(keyB)
//	...
//
// Keys may occur multiple times within a single update; when applied, the
// last occurrence of a key wins.
type Update struct {
	Writes []Write
}

// Write is a single key update. A nil Value marks the key for deletion; an
// empty, non-nil Value is a valid stored value.
type Write struct {
	Key   []byte
	Value []byte
}

// IsDelete is true if this write requests the removal of its key.
func (w *Write) IsDelete() bool {
	return w.Value == nil
}

// AppendPut registers a value to be assigned to the given key in this block.
func (u *Update) AppendPut(key, value []byte) {
	if value == nil {
		value = []byte{}
	}
	u.Writes = append(u.Writes, Write{Key: key, Value: value})
}

// AppendDelete registers a key to be removed in this block.
func (u *Update) AppendDelete(key []byte) {
	u.Writes = append(u.Writes, Write{Key: key})
}

// IsEmpty is true if there is no change covered by this update.
func (u *Update) IsEmpty() bool {
	return len(u.Writes) == 0
}

// Check verifies that all keys in this update are non-empty. Empty keys are
// rejected since they cannot be digested into a navigation path.
func (u *Update) Check() error {
	for i := range u.Writes {
		if len(u.Writes[i].Key) == 0 {
			return ConstError("updates must not contain empty keys")
		}
	}
	return nil
}

// GetWrite returns the last write registered for the given key, if any. It
// reflects the last-write-wins rule applied when committing an update.
func (u *Update) GetWrite(key []byte) (Write, bool) {
	for i := len(u.Writes) - 1; i >= 0; i-- {
		if bytes.Equal(u.Writes[i].Key, key) {
			return u.Writes[i], true
		}
	}
	return Write{}, false
}
