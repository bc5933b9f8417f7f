// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuery(t *testing.T) {
	q := newQuery("event").
		inRange(&Range{Unit: Time, From: 10, To: 20}).
		and("txID", "x").
		anyOf(2, func(i int, sub *query) {
			sub.and("address", i)
			if i == 1 {
				sub.and("topic0", "t")
			}
		}).
		page("eventIndex", DESC, &Options{Offset: 1, Limit: 2})

	assert.Equal(t, "SELECT * FROM event WHERE 1 AND blockTime >= ? AND blockTime <= ? AND txID = ?"+
		" AND ((1 AND address = ?) OR (1 AND address = ? AND topic0 = ?))"+
		" ORDER BY blockNumber DESC, eventIndex DESC LIMIT ?, ?", q.String())
	assert.Equal(t, []interface{}{uint64(10), uint64(20), "x", 0, 1, "t", uint64(1), uint64(2)}, q.args)

	// an open range and no criteria add nothing but the lower bound
	q = newQuery("transfer").inRange(&Range{From: 5}).anyOf(0, nil).page("transferIndex", ASC, nil)
	assert.Equal(t, "SELECT * FROM transfer WHERE 1 AND blockNumber >= ? ORDER BY blockNumber ASC, transferIndex ASC", q.String())
}
