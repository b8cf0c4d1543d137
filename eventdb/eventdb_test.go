// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb_test

import (
	"context"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/seqlock/builtin/locking"
	"github.com/vechain/seqlock/eventdb"
	"github.com/vechain/seqlock/seq"
)

func newEvents() []*locking.Event {
	var events []*locking.Event
	for i := range 20 {
		name := locking.EventLocked
		if i%2 == 1 {
			name = locking.EventRelocked
		}
		events = append(events, &locking.Event{
			Name:       name,
			Time:       uint64(1000 + i*10),
			Epoch:      uint64(i / 4),
			OperatorID: uint64(i%5 + 1),
			Signer:     seq.BytesToAddress([]byte{byte(i + 1)}),
			Amount:     big.NewInt(int64(i * 100)),
		})
	}
	events[3].Fields = map[string]string{"lockRewards": "true"}
	events[4].Total = big.NewInt(12345)
	return events
}

func TestInsertAndFilter(t *testing.T) {
	db, err := eventdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, db.Insert(newEvents()))
	require.NoError(t, db.Insert(nil))

	all, err := db.Filter(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 20)
	assert.Equal(t, uint64(1), all[0].Seq)
	assert.Equal(t, "true", all[3].Fields["lockRewards"])
	assert.Equal(t, "12345", all[4].Total.String())
	assert.Nil(t, all[0].Total)
	assert.Equal(t, seq.BytesToAddress([]byte{6}), all[5].Signer)

	byOperator, err := db.Filter(ctx, &eventdb.Filter{OperatorID: 2})
	require.NoError(t, err)
	assert.Len(t, byOperator, 4)
	for _, r := range byOperator {
		assert.Equal(t, uint64(2), r.OperatorID)
	}

	byName, err := db.Filter(ctx, &eventdb.Filter{Names: []string{locking.EventRelocked}})
	require.NoError(t, err)
	assert.Len(t, byName, 10)

	byEpoch, err := db.Filter(ctx, &eventdb.Filter{Range: &eventdb.Range{Unit: eventdb.Epoch, From: 1, To: 2}})
	require.NoError(t, err)
	assert.Len(t, byEpoch, 8)

	byTime, err := db.Filter(ctx, &eventdb.Filter{Range: &eventdb.Range{Unit: eventdb.Time, From: 1100}})
	require.NoError(t, err)
	assert.Len(t, byTime, 10)

	page, err := db.Filter(ctx, &eventdb.Filter{
		Order:   eventdb.DESC,
		Options: &eventdb.Options{Offset: 2, Limit: 3},
	})
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, uint64(18), page[0].Seq)
	assert.Equal(t, uint64(16), page[2].Seq)
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	db, err := eventdb.New(path)
	require.NoError(t, err)
	require.NoError(t, db.Insert(newEvents()[:5]))
	require.NoError(t, db.Close())

	db, err = eventdb.New(path)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, path, db.Path())
	assert.NotEmpty(t, db.DriverVersion())

	all, err := db.Filter(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}
