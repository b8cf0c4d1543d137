// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStats(t *testing.T) {
	var cs Stats
	assert.Zero(t, cs.HitRate())
	assert.False(t, cs.Changed())

	cs.Hit()
	cs.Miss()
	hit, miss := cs.Counts()
	assert.Equal(t, int64(1), hit)
	assert.Equal(t, int64(1), miss)
	assert.Equal(t, 0.5, cs.HitRate())

	assert.True(t, cs.Changed())
	assert.False(t, cs.Changed())

	cs.Hit()
	cs.Hit()
	assert.Equal(t, int64(4), cs.Hit())
	assert.Equal(t, 0.8, cs.HitRate())
	assert.True(t, cs.Changed())
}
