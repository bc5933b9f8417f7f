// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/meterio/meter-auction/meter"
)

// Event represents a log emitted by a module.
type Event struct {
	// address of the module that generated the event
	Address meter.Address
	// list of topics provided by the module.
	Topics []meter.Bytes32
	// supplied by the module, usually rlp-encoded
	Data []byte
}

// Events slice of event logs.
type Events []*Event
