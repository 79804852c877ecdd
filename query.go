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
	"github.com/yanglaolee/grug/database/jmt"
)

// queryContext is the QueryContext implementation reading one committed
// version through a pinned archive view. The first error stops all further
// reads.
type queryContext struct {
	view *jmt.View
	err  error
}

func (c *queryContext) Get(key []byte) []byte {
	if c.err != nil {
		return nil
	}
	value, exists, err := c.view.GetValue(key)
	if err != nil {
		c.err = err
		return nil
	}
	if !exists {
		return nil
	}
	return value
}

func (c *queryContext) Has(key []byte) bool {
	if c.err != nil {
		return false
	}
	_, exists, err := c.view.GetValue(key)
	if err != nil {
		c.err = err
		return false
	}
	return exists
}

func (c *queryContext) GetProof(key []byte) jmt.Proof {
	if c.err != nil {
		return jmt.Proof{}
	}
	proof, err := c.view.GetProof(key)
	if err != nil {
		c.err = err
		return jmt.Proof{}
	}
	return proof
}
