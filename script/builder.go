// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package script

import (
	"github.com/meterio/meter-auction/tx"
)

// Builder is used to build a script clause.
type Builder struct {
	body interface{}
}

func NewBuilder(body interface{}) *Builder {
	return &Builder{body: body}
}

// Clause builds a clause carrying the encoded body, addressed to the module.
func (b *Builder) Clause() (*tx.Clause, error) {
	data, err := EncodeScriptData(b.body)
	if err != nil {
		return nil, err
	}
	to, err := ModuleAddress(b.body)
	if err != nil {
		return nil, err
	}
	return tx.NewClause(&to).WithData(data), nil
}
