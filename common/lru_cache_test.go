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

import "testing"

func TestLruCache_SetGet(t *testing.T) {
	c := NewLruCache[int, int](3)

	if _, exists := c.Get(1); exists {
		t.Errorf("empty cache must not contain key 1")
	}

	c.Set(1, 11)
	c.Set(2, 22)
	c.Set(3, 33)

	for key, want := range map[int]int{1: 11, 2: 22, 3: 33} {
		if got, exists := c.Get(key); !exists || got != want {
			t.Errorf("invalid value for key %d, got %d (%t), want %d", key, got, exists, want)
		}
	}
}

func TestLruCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLruCache[int, int](3)
	c.Set(1, 11)
	c.Set(2, 22)
	c.Set(3, 33)

	// touch 1 so that 2 becomes the least recently used entry
	c.Get(1)

	evictedKey, evictedValue, evicted := c.Set(4, 44)
	if !evicted || evictedKey != 2 || evictedValue != 22 {
		t.Errorf("unexpected eviction: key %d, value %d, evicted %t", evictedKey, evictedValue, evicted)
	}
	if _, exists := c.Get(2); exists {
		t.Errorf("evicted key 2 still present")
	}
	for _, key := range []int{1, 3, 4} {
		if _, exists := c.Get(key); !exists {
			t.Errorf("key %d missing after eviction", key)
		}
	}
}

func TestLruCache_CapacityOneEvictsOnEverySet(t *testing.T) {
	for _, capacity := range []int{1, 0, -1} { // capacities below one are raised to one
		c := NewLruCache[int, int](capacity)
		c.Set(1, 11)

		evictedKey, evictedValue, evicted := c.Set(2, 22)
		if !evicted || evictedKey != 1 || evictedValue != 11 {
			t.Errorf("unexpected eviction: key %d, value %d, evicted %t", evictedKey, evictedValue, evicted)
		}
		if _, exists := c.Get(1); exists {
			t.Errorf("evicted key 1 still present")
		}
		if got, exists := c.Get(2); !exists || got != 22 {
			t.Errorf("invalid value for key 2, got %d (%t), want %d", got, exists, 22)
		}
	}
}

func TestLruCache_SetExistingUpdatesValue(t *testing.T) {
	c := NewLruCache[int, int](2)
	c.Set(1, 11)
	if _, _, evicted := c.Set(1, 111); evicted {
		t.Errorf("updating an existing key must not evict")
	}
	if got, _ := c.Get(1); got != 111 {
		t.Errorf("value not updated, got %d, want %d", got, 111)
	}
}

func TestLruCache_Remove(t *testing.T) {
	c := NewLruCache[int, int](3)
	c.Set(1, 11)
	c.Set(2, 22)

	if original, exists := c.Remove(1); !exists || original != 11 {
		t.Errorf("remove of key 1 failed, got %d (%t)", original, exists)
	}
	if _, exists := c.Get(1); exists {
		t.Errorf("removed key 1 still present")
	}
	if _, exists := c.Remove(1); exists {
		t.Errorf("removing a missing key must report absence")
	}

	// removing head and tail of a single-entry list must reset the queue
	if _, exists := c.Remove(2); !exists {
		t.Errorf("remove of key 2 failed")
	}
	c.Set(3, 33)
	if got, exists := c.Get(3); !exists || got != 33 {
		t.Errorf("cache unusable after removals, got %d (%t)", got, exists)
	}
}

func TestLruCache_Clear(t *testing.T) {
	c := NewLruCache[int, int](3)
	c.Set(1, 11)
	c.Set(2, 22)
	c.Clear()
	for _, key := range []int{1, 2} {
		if _, exists := c.Get(key); exists {
			t.Errorf("key %d still present after clear", key)
		}
	}
	c.Set(3, 33)
	if got, exists := c.Get(3); !exists || got != 33 {
		t.Errorf("cache unusable after clear, got %d (%t)", got, exists)
	}
}
