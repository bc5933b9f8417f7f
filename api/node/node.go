// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/meterio/meter-auction/api/utils"
	"github.com/meterio/meter-auction/chain"
	"github.com/meterio/meter-auction/meter"
)

// Status describes the chain head of this node.
type Status struct {
	GenesisID     meter.Bytes32 `json:"genesisID"`
	ChainTag      byte          `json:"chainTag"`
	BestBlockID   meter.Bytes32 `json:"bestBlockID"`
	BestBlockNum  uint32        `json:"bestBlockNum"`
	BestTimestamp uint64        `json:"bestTimestamp"`
	Version       string        `json:"version"`
}

type Node struct {
	chain   *chain.Chain
	version string
}

func New(chain *chain.Chain, version string) *Node {
	return &Node{
		chain,
		version,
	}
}

func (n *Node) handleStatus(w http.ResponseWriter, req *http.Request) error {
	best := n.chain.BestBlock().Header()
	return utils.WriteJSON(w, &Status{
		GenesisID:     n.chain.GenesisBlock().Header().ID(),
		ChainTag:      n.chain.Tag(),
		BestBlockID:   best.ID(),
		BestBlockNum:  best.Number(),
		BestTimestamp: best.Timestamp(),
		Version:       n.version,
	})
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/status").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(n.handleStatus))
}
