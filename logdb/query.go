// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"fmt"
	"strings"
)

// query accumulates a SELECT with positional args.
type query struct {
	sb   strings.Builder
	args []interface{}
}

func newQuery(table string) *query {
	q := &query{}
	q.sb.WriteString("SELECT * FROM " + table + " WHERE 1")
	return q
}

func (q *query) and(cond string, arg interface{}) *query {
	q.sb.WriteString(" AND " + cond + " = ?")
	q.args = append(q.args, arg)
	return q
}

func (q *query) inRange(r *Range) *query {
	if r == nil {
		return q
	}
	column := "blockNumber"
	if r.Unit == Time {
		column = "blockTime"
	}
	q.sb.WriteString(" AND " + column + " >= ?")
	q.args = append(q.args, r.From)
	if r.To >= r.From {
		q.sb.WriteString(" AND " + column + " <= ?")
		q.args = append(q.args, r.To)
	}
	return q
}

// anyOf adds (c0) OR (c1) ... where each group is built by fn on a
// sub-query sharing this query's args.
func (q *query) anyOf(n int, fn func(i int, sub *query)) *query {
	if n == 0 {
		return q
	}
	q.sb.WriteString(" AND (")
	for i := 0; i < n; i++ {
		if i > 0 {
			q.sb.WriteString(" OR ")
		}
		sub := &query{args: q.args}
		sub.sb.WriteString("(1")
		fn(i, sub)
		sub.sb.WriteString(")")
		q.sb.WriteString(sub.sb.String())
		q.args = sub.args
	}
	q.sb.WriteString(")")
	return q
}

func (q *query) page(indexColumn string, order Order, opts *Options) *query {
	dir := "ASC"
	if order == DESC {
		dir = "DESC"
	}
	fmt.Fprintf(&q.sb, " ORDER BY blockNumber %s, %s %s", dir, indexColumn, dir)
	if opts != nil {
		q.sb.WriteString(" LIMIT ?, ?")
		q.args = append(q.args, opts.Offset, opts.Limit)
	}
	return q
}

func (q *query) String() string {
	return q.sb.String()
}
