// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb_test

import (
	"testing"

	"github.com/meterio/meter-auction/lvldb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStore(t *testing.T) {
	db, err := lvldb.NewMem()
	require.Nil(t, err)
	defer db.Close()

	_, err = db.Get([]byte("missing"))
	assert.True(t, db.IsNotFound(err))

	assert.Nil(t, db.Put([]byte("k1"), []byte("v1")))
	v, err := db.Get([]byte("k1"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("v1"), v)

	has, err := db.Has([]byte("k1"))
	assert.Nil(t, err)
	assert.True(t, has)

	assert.Nil(t, db.Delete([]byte("k1")))
	has, _ = db.Has([]byte("k1"))
	assert.False(t, has)
}

func TestBatchAndIterator(t *testing.T) {
	db, err := lvldb.NewMem()
	require.Nil(t, err)
	defer db.Close()

	batch := db.NewBatch()
	batch.Put([]byte("p1"), []byte("a"))
	batch.Put([]byte("p2"), []byte("b"))
	batch.Put([]byte("q1"), []byte("c"))
	assert.Equal(t, 3, batch.Len())

	// nothing is visible before Write
	has, _ := db.Has([]byte("p1"))
	assert.False(t, has)
	require.Nil(t, batch.Write())

	it := db.NewIterator([]byte("p"))
	defer it.Release()
	var keys []string
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	assert.Nil(t, it.Error())
	assert.Equal(t, []string{"p1", "p2"}, keys)
}
